package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/http/validation"
)

type contactForm struct {
	Email string
	Note  string
}

func parseContactForm(r *http.Request) (contactForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return contactForm{}, map[string]string{"_": "Invalid form submission."}
	}
	f := contactForm{Email: strings.TrimSpace(r.PostForm.Get("email")), Note: r.PostForm.Get("note")}
	return f, validation.New().
		Validate("email", f.Email, validation.Email()).
		Validate("note", f.Note, validation.Optional("Note", 10)).
		Errors()
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestHandleForm_Success(t *testing.T) {
	w := httptest.NewRecorder()
	mock := &mockRenderer{}
	var submitted contactForm

	HandleForm(FormHandlerOpts[contactForm]{
		W:      w,
		R:      postForm(url.Values{"email": {"buyer@example.com"}}),
		Parser: parseContactForm,
		Submit: func(_ context.Context, f contactForm) error {
			submitted = f
			return nil
		},
		Renderer:   mock.render,
		SuccessURL: "/buyer-dashboard?notice=listing-saved",
	})

	assert.Equal(t, "buyer@example.com", submitted.Email)
	assert.False(t, mock.called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/buyer-dashboard?notice=listing-saved", w.Header().Get("Location"))
}

func TestHandleForm_ValidationErrorsSkipSubmit(t *testing.T) {
	w := httptest.NewRecorder()
	mock := &mockRenderer{}

	HandleForm(FormHandlerOpts[contactForm]{
		W:      w,
		R:      postForm(url.Values{"email": {"not-an-email"}, "note": {"far too long a note"}}),
		Mode:   FormModeCreate,
		Parser: parseContactForm,
		Submit: func(context.Context, contactForm) error {
			t.Fatal("submit must not run for an invalid form")
			return nil
		},
		Renderer: mock.render,
		PageMeta: testMeta,
	})

	require.True(t, mock.called)
	errs := mock.data["Errors"].(map[string]string)
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Contains(t, errs["note"], "cannot exceed 10 characters")
	assert.Equal(t, FormModeCreate, mock.data["Mode"])
	assert.Equal(t, "not-an-email", mock.data["FormData"].(contactForm).Email)
}

func TestHandleForm_ServiceErrorRerenders(t *testing.T) {
	mock := &mockRenderer{}

	HandleForm(FormHandlerOpts[contactForm]{
		W:      httptest.NewRecorder(),
		R:      postForm(url.Values{"email": {"buyer@example.com"}}),
		Parser: parseContactForm,
		Submit: func(context.Context, contactForm) error {
			return apperrors.ValidationField("email", "This email is already registered.")
		},
		Renderer:  mock.render,
		PageMeta:  testMeta,
		ExtraData: map[string]any{"Categories": []string{"PET"}},
	})

	require.True(t, mock.called)
	assert.Equal(t, "This email is already registered.", mock.data["Errors"].(map[string]string)["email"])
	assert.Equal(t, []string{"PET"}, mock.data["Categories"])
}

func TestHandleForm_FormValuesScrubsSecrets(t *testing.T) {
	mock := &mockRenderer{}

	HandleForm(FormHandlerOpts[loginForm]{
		W:          httptest.NewRecorder(),
		R:          postForm(url.Values{"email": {"buyer@example.com"}, "password": {"hunter22"}}),
		Parser:     parseLoginForm,
		Submit:     func(context.Context, loginForm) error { return apperrors.Unauthenticated("Invalid email or password.") },
		Renderer:   mock.render,
		PageMeta:   testMeta,
		FormValues: loginValues,
	})

	require.True(t, mock.called)
	got := mock.data["FormData"].(loginForm)
	assert.Equal(t, "buyer@example.com", got.Email)
	assert.Empty(t, got.Password)
}

func TestHandleForm_HTMXRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	r := postForm(url.Values{"email": {"buyer@example.com"}})
	r.Header.Set("Hx-Request", "true")

	HandleForm(FormHandlerOpts[contactForm]{
		W:          w,
		R:          r,
		Parser:     parseContactForm,
		Submit:     func(context.Context, contactForm) error { return nil },
		Renderer:   (&mockRenderer{}).render,
		SuccessURL: "/license?notice=license-requested",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/license?notice=license-requested", w.Header().Get("Hx-Redirect"))
}

func TestHandleForm_OnSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	called := false

	HandleForm(FormHandlerOpts[contactForm]{
		W:        w,
		R:        postForm(url.Values{"email": {"buyer@example.com"}}),
		Parser:   parseContactForm,
		Submit:   func(context.Context, contactForm) error { return nil },
		Renderer: (&mockRenderer{}).render,
		OnSuccess: func(w http.ResponseWriter, _ *http.Request, f contactForm) {
			called = true
			w.WriteHeader(http.StatusAccepted)
		},
	})

	assert.True(t, called)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestHandleForm_ContextCanceled(t *testing.T) {
	w := httptest.NewRecorder()
	mock := &mockRenderer{}

	HandleForm(FormHandlerOpts[contactForm]{
		W:        w,
		R:        postForm(url.Values{"email": {"buyer@example.com"}}),
		Parser:   parseContactForm,
		Submit:   func(context.Context, contactForm) error { return errors.Join(errors.New("save"), context.Canceled) },
		Renderer: mock.render,
	})

	assert.False(t, mock.called)
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestHandleForm_GuardRails(t *testing.T) {
	tests := []struct {
		name string
		opts func(w http.ResponseWriter) FormHandlerOpts[contactForm]
	}{
		{name: "missing parser", opts: func(w http.ResponseWriter) FormHandlerOpts[contactForm] {
			return FormHandlerOpts[contactForm]{W: w, Submit: func(context.Context, contactForm) error { return nil }, Renderer: (&mockRenderer{}).render}
		}},
		{name: "missing submit", opts: func(w http.ResponseWriter) FormHandlerOpts[contactForm] {
			return FormHandlerOpts[contactForm]{W: w, Parser: parseContactForm, Renderer: (&mockRenderer{}).render}
		}},
		{name: "missing renderer", opts: func(w http.ResponseWriter) FormHandlerOpts[contactForm] {
			return FormHandlerOpts[contactForm]{W: w, Parser: parseContactForm, Submit: func(context.Context, contactForm) error { return nil }}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			opts := tt.opts(w)
			opts.R = postForm(url.Values{})
			HandleForm(opts)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
		})
	}
}
