package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRFToken = "test-csrf-token"

func csrfHandler(seen *string) http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = GetCSRFToken(r)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_IssuesTokenOnGet(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	csrfHandler(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buy-materials", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	c := findCookie(w.Result(), DefaultCSRFCookieName)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, seen, "token is exposed to templates through the context")
	assert.False(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestCSRFProtection_KeepsExistingCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	w := httptest.NewRecorder()
	csrfHandler(nil).ServeHTTP(w, r)

	assert.Nil(t, findCookie(w.Result(), DefaultCSRFCookieName))
}

func TestCSRFProtection_PostValidation(t *testing.T) {
	form := url.Values{"csrf_token": {testCSRFToken}}.Encode()

	tests := []struct {
		name       string
		build      func() *http.Request
		wantStatus int
	}{
		{
			name: "missing token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/listings/7/save", nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "valid header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/listings/7/save", nil)
				r.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
				return r
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "valid form token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/license/purchase", strings.NewReader(form))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "form token ignored for json body",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/license/purchase", strings.NewReader(form))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "mismatched token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/listings/7/save", nil)
				r.Header.Set(DefaultCSRFHeaderName, "other")
				return r
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "delete is protected",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodDelete, "/api/listings/7/save", nil)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.build()
			r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
			w := httptest.NewRecorder()
			csrfHandler(nil).ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCSRFProtection_APIFailureIsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/listings/7/contact", nil)
	w := httptest.NewRecorder()
	csrfHandler(nil).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "csrf_failed")
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	t.Run("tls", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.TLS = &tls.ConnectionState{}
		w := httptest.NewRecorder()
		csrfHandler(nil).ServeHTTP(w, r)
		require.NotNil(t, findCookie(w.Result(), DefaultCSRFCookieName))
		assert.True(t, findCookie(w.Result(), DefaultCSRFCookieName).Secure)
	})

	t.Run("forwarded proto list", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-Proto", "http, https")
		w := httptest.NewRecorder()
		csrfHandler(nil).ServeHTTP(w, r)
		require.NotNil(t, findCookie(w.Result(), DefaultCSRFCookieName))
		assert.True(t, findCookie(w.Result(), DefaultCSRFCookieName).Secure)
	})
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
