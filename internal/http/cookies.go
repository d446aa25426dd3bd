package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
)

// Cookie names written by the front end.
const (
	SessionCookieName       = "session_id"
	RememberEmailCookieName = "remembered_email"
)

const defaultRememberEmailTTL = 30 * 24 * time.Hour

// CookieSettings controls the attributes of the cookies the front end writes.
type CookieSettings struct {
	// Domain is left empty to scope cookies to the request host.
	Domain string
	// RememberEmailTTL is how long the "remember me" email survives.
	RememberEmailTTL time.Duration
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// setSession writes the session cookie; it expires together with the session.
func (c CookieSettings) setSession(w http.ResponseWriter, r *http.Request, s *domainauth.Session, now time.Time) {
	maxAge := int(s.ExpiresAt.Sub(now).Seconds())
	if maxAge <= 0 {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// setRememberedEmail stores the email for pre-filling the login form.
func (c CookieSettings) setRememberedEmail(w http.ResponseWriter, r *http.Request, email string) {
	ttl := c.RememberEmailTTL
	if ttl <= 0 {
		ttl = defaultRememberEmailTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberEmailCookieName,
		Value:    email,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clear expires a cookie immediately.
// It mirrors the attributes used when setting cookies so browsers match and delete it.
func (c CookieSettings) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// rememberedEmail returns the email saved by "remember me", if any.
func rememberedEmail(r *http.Request) string {
	c, err := r.Cookie(RememberEmailCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
