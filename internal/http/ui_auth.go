package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/http/validation"
	"github.com/ecoworth/marketplace-web/internal/ports"
	"github.com/ecoworth/marketplace-web/internal/service"
)

const (
	maxNameLen     = 120
	maxPasswordLen = 256
)

// --- Login ---

type loginForm struct {
	Email       string
	Password    string
	Remember    bool
	RedirectURI string
}

// loginValues drops the password before the form is echoed back to the page.
func loginValues(f loginForm) any {
	f.Password = ""
	return f
}

func parseLoginForm(r *http.Request) (loginForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return loginForm{}, map[string]string{"_": "Invalid form submission."}
	}
	f := loginForm{
		Email:       strings.TrimSpace(r.PostForm.Get("email")),
		Password:    r.PostForm.Get("password"),
		Remember:    r.PostForm.Get("remember") != "",
		RedirectURI: r.PostForm.Get("redirect_uri"),
	}
	errs := validation.New().
		Validate("email", f.Email, validation.Email()).
		Validate("password", f.Password, validation.Required("Password", maxPasswordLen)).
		Errors()
	return f, errs
}

// Login renders the login form. Signed-in visitors go straight to their dashboard.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if sess := sessionFrom(r); sess != nil {
		browserRedirect(w, r, h.landingFor(sess, redirectURI))
		return
	}

	remembered := rememberedEmail(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Login", PageTitle: "Welcome back", CurrentPage: PageLogin},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["FormData"] = loginForm{Email: remembered, Remember: remembered != "", RedirectURI: redirectURI}
			return nil
		},
	})
}

// LoginSubmit authenticates, writes the session cookie and redirects to the page the
// visitor originally asked for, or to the dashboard for their role.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	var sess *domainauth.Session
	HandleForm(FormHandlerOpts[loginForm]{
		W:        w,
		R:        r,
		Parser:   parseLoginForm,
		Renderer: h.renderForm,
		PageMeta: PageMeta{Title: "Login", PageTitle: "Welcome back", CurrentPage: PageLogin},
		Submit: func(ctx context.Context, f loginForm) error {
			var err error
			sess, err = h.Auth.Login(ctx, service.LoginInput{Email: f.Email, Password: f.Password})
			return err
		},
		FormValues: loginValues,
		OnSuccess: func(w http.ResponseWriter, r *http.Request, f loginForm) {
			h.Cookies.setSession(w, r, sess, h.now())
			if f.Remember {
				h.Cookies.setRememberedEmail(w, r, sess.Email)
			} else {
				h.Cookies.clear(w, r, RememberEmailCookieName)
			}
			redirectAfterPost(w, r, h.landingFor(sess, f.RedirectURI))
		},
	})
}

// landingFor picks where a signed-in user goes next: the requested page when the
// user's role may see it, otherwise the role's dashboard.
func (h *UIHandlers) landingFor(sess *domainauth.Session, redirectURI string) string {
	policy := h.policy()
	home := policy.HomeFor(sess.Role)
	if redirectURI == "" {
		return home
	}
	target := safeRedirectPath(redirectURI)
	u, err := url.Parse(target)
	if err != nil || target == "/" || isAuthPath(u.Path) {
		return home
	}
	decision := policy.Authorize(sess, policy.AllowedRoles(u.Path), domainauth.GuardOptions{Now: h.now()})
	if !decision.Allowed() {
		return home
	}
	return target
}

func isAuthPath(p string) bool {
	switch p {
	case "/login", "/signup", "/forgot-password", "/reset-password", "/auth/logout":
		return true
	default:
		return false
	}
}

// Logout ends the session and clears every cookie the front end wrote.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		if err := h.Auth.Logout(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Cookies.clear(w, r, SessionCookieName)
	h.Cookies.clear(w, r, RememberEmailCookieName)
	redirectAfterPost(w, r, h.policy().LoginPath()+"?notice=logged-out")
}

// --- Signup ---

type signupForm struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            string
}

func signupValues(f signupForm) any {
	f.Password, f.ConfirmPassword = "", ""
	return f
}

func parseSignupForm(r *http.Request) (signupForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return signupForm{}, map[string]string{"_": "Invalid form submission."}
	}
	f := signupForm{
		Name:            strings.TrimSpace(r.PostForm.Get("name")),
		Email:           strings.TrimSpace(r.PostForm.Get("email")),
		Phone:           strings.TrimSpace(r.PostForm.Get("phone")),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
		Role:            strings.ToLower(strings.TrimSpace(r.PostForm.Get("role"))),
	}
	errs := validation.New().
		Validate("name", f.Name, validation.Required("Name", maxNameLen)).
		Validate("email", f.Email, validation.Email()).
		Validate("phone", f.Phone, validation.Optional("Phone", 20), validation.Pattern("Phone", validation.PhoneNumber)).
		Validate("role", f.Role, validation.OneOf("Role", []string{string(domainauth.RoleBuyer), string(domainauth.RoleSeller)})).
		Validate("password", f.Password, validation.MinLength("Password", service.MinPasswordLength)).
		Validate("confirm_password", f.ConfirmPassword, validation.Equals("Passwords do not match.", f.Password)).
		Errors()
	return f, errs
}

// Signup renders the registration form.
func (h *UIHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	if sess := sessionFrom(r); sess != nil {
		browserRedirect(w, r, h.policy().HomeFor(sess.Role))
		return
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Sign Up", PageTitle: "Create your account", CurrentPage: PageSignup},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["FormData"] = signupForm{Role: string(domainauth.RoleBuyer)}
			return nil
		},
	})
}

// SignupSubmit registers the account. When the backend signs the new user in, the
// session cookie is written and the user lands on their dashboard; otherwise they log in.
func (h *UIHandlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	var res *service.RegisterResult
	HandleForm(FormHandlerOpts[signupForm]{
		W:        w,
		R:        r,
		Parser:   parseSignupForm,
		Renderer: h.renderForm,
		PageMeta: PageMeta{Title: "Sign Up", PageTitle: "Create your account", CurrentPage: PageSignup},
		Submit: func(ctx context.Context, f signupForm) error {
			var err error
			res, err = h.Auth.Register(ctx, service.RegisterInput{
				Name:            f.Name,
				Email:           f.Email,
				Phone:           f.Phone,
				Password:        f.Password,
				ConfirmPassword: f.ConfirmPassword,
				Role:            f.Role,
			})
			return err
		},
		FormValues: signupValues,
		OnSuccess: func(w http.ResponseWriter, r *http.Request, _ signupForm) {
			if res.Session == nil {
				redirectAfterPost(w, r, h.policy().LoginPath()+"?notice=registered")
				return
			}
			h.Cookies.setSession(w, r, res.Session, h.now())
			redirectAfterPost(w, r, h.policy().HomeFor(res.Session.Role))
		},
	})
}

// --- Password reset ---

type forgotForm struct {
	Email string
}

func parseForgotForm(r *http.Request) (forgotForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return forgotForm{}, map[string]string{"_": "Invalid form submission."}
	}
	f := forgotForm{Email: strings.TrimSpace(r.PostForm.Get("email"))}
	return f, validation.New().Validate("email", f.Email, validation.Email()).Errors()
}

// ForgotPassword renders the reset-code request form.
func (h *UIHandlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Forgot Password", PageTitle: "Reset your password", CurrentPage: PageForgotPassword},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["FormData"] = forgotForm{Email: rememberedEmail(r)}
			return nil
		},
	})
}

// ForgotPasswordSubmit requests a reset code and moves on to the reset form. Some backend
// deployments return the code directly; it is then shown on the reset form.
func (h *UIHandlers) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	var res ports.ResetCodeResult
	HandleForm(FormHandlerOpts[forgotForm]{
		W:        w,
		R:        r,
		Parser:   parseForgotForm,
		Renderer: h.renderForm,
		PageMeta: PageMeta{Title: "Forgot Password", PageTitle: "Reset your password", CurrentPage: PageForgotPassword},
		Submit: func(ctx context.Context, f forgotForm) error {
			var err error
			res, err = h.Auth.ForgotPassword(ctx, f.Email)
			return err
		},
		OnSuccess: func(w http.ResponseWriter, r *http.Request, f forgotForm) {
			data := NewTemplateData(r, PageMeta{Title: "Reset Password", PageTitle: "Choose a new password", CurrentPage: PageResetPassword}).
				With("FormData", resetForm{Email: f.Email, Code: res.Code}).
				With("IssuedCode", res.Code).
				With("Notice", resetNotice(res.Message)).
				Build()
			if IsHTMX(r) {
				SetHXPushURL(w, "/reset-password?email="+url.QueryEscape(f.Email))
			}
			h.renderPage(w, r, data)
		},
	})
}

func resetNotice(backendMessage string) string {
	if m := strings.TrimSpace(backendMessage); m != "" {
		return m
	}
	return "If the email is registered, a reset code is on its way."
}

type resetForm struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

func resetValues(f resetForm) any {
	f.NewPassword, f.ConfirmPassword = "", ""
	return f
}

func parseResetForm(r *http.Request) (resetForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return resetForm{}, map[string]string{"_": "Invalid form submission."}
	}
	f := resetForm{
		Email:           strings.TrimSpace(r.PostForm.Get("email")),
		Code:            strings.TrimSpace(r.PostForm.Get("code")),
		NewPassword:     r.PostForm.Get("new_password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	errs := validation.New().
		Validate("email", f.Email, validation.Email()).
		Validate("code", f.Code, validation.Required("Reset code", 64)).
		Validate("new_password", f.NewPassword, validation.MinLength("Password", service.MinPasswordLength)).
		Validate("confirm_password", f.ConfirmPassword, validation.Equals("Passwords do not match.", f.NewPassword)).
		Errors()
	return f, errs
}

// ResetPassword renders the new-password form.
func (h *UIHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Reset Password", PageTitle: "Choose a new password", CurrentPage: PageResetPassword},
		Fetch: func(_ context.Context, data map[string]any) error {
			q := r.URL.Query()
			data["FormData"] = resetForm{Email: strings.TrimSpace(q.Get("email")), Code: strings.TrimSpace(q.Get("code"))}
			return nil
		},
	})
}

// ResetPasswordSubmit sets the new password and sends the user to the login page.
func (h *UIHandlers) ResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[resetForm]{
		W:        w,
		R:        r,
		Parser:   parseResetForm,
		Renderer: h.renderForm,
		PageMeta: PageMeta{Title: "Reset Password", PageTitle: "Choose a new password", CurrentPage: PageResetPassword},
		Submit: func(ctx context.Context, f resetForm) error {
			return h.Auth.ResetPassword(ctx, service.ResetInput{
				Email:           f.Email,
				Code:            f.Code,
				NewPassword:     f.NewPassword,
				ConfirmPassword: f.ConfirmPassword,
			})
		},
		FormValues: resetValues,
		SuccessURL: h.policy().LoginPath() + "?notice=password-reset",
	})
}
