package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

const genericErrorMessage = "Something went wrong. Please try again."

// ErrorRenderer renders a page with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorOpts contains all options needed to re-render a page with an error.
type ErrorOpts struct {
	W   http.ResponseWriter
	R   *http.Request
	Err error
	// FieldErrors are merged with any field named by Err.
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data is extra template data, typically the submitted form values.
	Data map[string]any
	// StatusCode defaults to 200 so htmx swaps the re-rendered form.
	StatusCode int
	// ShowToast also raises a toast with the general message.
	ShowToast bool
}

// RenderError re-renders a page with an inline error. Validation errors that name a field
// are shown next to that field; everything else becomes the general message.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)
	fieldErrors := opts.FieldErrors
	generalError := processError(opts.Err, &fieldErrors)

	if len(fieldErrors) > 0 {
		builder.WithFieldErrors(fieldErrors)
	}
	if generalError != "" {
		builder.WithError(generalError)
	} else if len(fieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}
	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		HTMX(opts.W).Toast(generalError, ToastError)
	}
	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError turns err into the user-facing general message, moving field-specific
// validation messages into fieldErrors instead. Returns "" when nothing general remains.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}
	if errors.Is(err, context.DeadlineExceeded) && !apperrors.IsTimeout(err) {
		return "Request timed out. Please try again."
	}

	if apperrors.IsValidation(err) {
		if field := apperrors.GetField(err); field != "" {
			if *fieldErrors == nil {
				*fieldErrors = map[string]string{}
			}
			(*fieldErrors)[field] = apperrors.Message(err, "Invalid value.")
			return ""
		}
	}
	return userMessage(err)
}

// userMessage returns the message shown to the user for err. Internal errors never leak details.
func userMessage(err error) string {
	switch apperrors.GetCode(err) {
	case "", apperrors.ErrCodeInternal:
		return genericErrorMessage
	case apperrors.ErrCodeTimeout:
		return apperrors.Message(err, "The marketplace took too long to respond. Please try again.")
	default:
		return apperrors.Message(err, genericErrorMessage)
	}
}
