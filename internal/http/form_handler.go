package httpx

import (
	"context"
	"errors"
	"net/http"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors found before calling a service.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W      http.ResponseWriter
	R      *http.Request
	Mode   FormMode
	Parser FormParser[T]
	// Submit performs the action; service-side validation errors come back as AppErrors.
	Submit func(ctx context.Context, data T) error
	// Renderer re-renders the page when the submission fails.
	Renderer ErrorRenderer
	PageMeta PageMeta
	// OnSuccess writes the response after a successful submission. When nil the handler
	// redirects to SuccessURL.
	OnSuccess  func(w http.ResponseWriter, r *http.Request, data T)
	SuccessURL string
	// ExtraData is added to the template data when the form is re-rendered.
	ExtraData map[string]any
	// FormValues converts the parsed data back into template values; defaults to the data itself.
	FormValues func(data T) any
}

// HandleForm parses, validates and submits a form, re-rendering it with inline errors on failure.
// Validation happens before Submit so an invalid form never reaches the backend.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Submit == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, nil, data)
		return
	}

	if err := opts.Submit(opts.R.Context(), data); err != nil {
		if errors.Is(err, context.Canceled) {
			http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
			return
		}
		opts.renderFormError(nil, err, data)
		return
	}

	if opts.OnSuccess != nil {
		opts.OnSuccess(opts.W, opts.R, data)
		return
	}
	redirectAfterPost(opts.W, opts.R, opts.SuccessURL)
}

func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, err error, data T) {
	extra := make(map[string]any, len(fh.ExtraData)+2)
	for k, v := range fh.ExtraData {
		extra[k] = v
	}
	if fh.Mode != "" {
		extra["Mode"] = fh.Mode
	}
	if fh.FormValues != nil {
		extra["FormData"] = fh.FormValues(data)
	} else {
		extra["FormData"] = data
	}

	RenderError(ErrorOpts{
		W:           fh.W,
		R:           fh.R,
		Err:         err,
		FieldErrors: fieldErrors,
		Renderer:    fh.Renderer,
		PageMeta:    fh.PageMeta,
		Data:        extra,
	})
}

// redirectAfterPost sends the browser to url after a successful POST:
// Hx-Redirect for htmx, 303 otherwise.
func redirectAfterPost(w http.ResponseWriter, r *http.Request, url string) {
	if url == "" {
		url = "/"
	}
	if IsHTMX(r) {
		HTMX(w).Redirect(url)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
