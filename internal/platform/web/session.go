package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	authentities "spotlight/contexts/identity-access/authorization-service/domain/entities"
	"spotlight/contexts/identity-access/authorization-service/domain/services"
	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
)

const sessionCookieName = "spotlight_session"

// viewer is the signed-in account as seen by the pages. The zero value is
// an anonymous visitor.
type viewer struct {
	ID          string
	Email       string
	DisplayName string
	Role        authentities.Role
}

func (v viewer) signedIn() bool {
	return v.ID != ""
}

type viewerContextKey struct{}

func viewerFrom(ctx context.Context) viewer {
	v, _ := ctx.Value(viewerContextKey{}).(viewer)
	return v
}

// loadViewer resolves the session cookie once per request. A stale or
// revoked cookie is dropped and the request continues anonymously.
func (s *site) loadViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			next.ServeHTTP(w, r)
			return
		}
		session, err := s.deps.Identity.Handler.GetSessionHandler(r.Context(), strings.TrimSpace(cookie.Value))
		if err != nil {
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}
		current := viewer{
			ID:          session.User.ID,
			Email:       session.User.Email,
			DisplayName: session.User.DisplayName,
			Role:        authentities.ParseRole(session.User.Role),
		}
		if role, err := s.deps.Profiles.Service.GetRole(r.Context(), current.ID); err == nil {
			current.Role = authentities.ParseRole(string(role))
		}
		ctx := context.WithValue(r.Context(), viewerContextKey{}, current)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *site) setSessionCookie(w http.ResponseWriter, session identityhttp.SessionDTO) {
	expires, err := time.Parse(time.RFC3339, session.ExpiresAt)
	if err != nil {
		expires = time.Now().Add(24 * time.Hour)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

func (s *site) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *site) authPage(w http.ResponseWriter, r *http.Request) {
	current := viewerFrom(r.Context())
	if current.signedIn() {
		http.Redirect(w, r, services.HomeFor(current.Role), http.StatusSeeOther)
		return
	}
	renderHTML(w, http.StatusOK, authPage(s.pageContext(r), signInForm{}, signUpForm{Role: "brand"}))
}

func (s *site) signIn(w http.ResponseWriter, r *http.Request) {
	form := signInForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page := s.pageContext(r)
	if errs := form.validate(); len(errs) > 0 {
		form.Errors = errs
		renderHTML(w, http.StatusUnprocessableEntity, authPage(page, form, signUpForm{Role: "brand"}))
		return
	}

	session, err := s.deps.Identity.Handler.SignInHandler(r.Context(), identityhttp.SignInRequest{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		s.logBackendError(r.Context(), "web_signin_failed", err)
		page.Flash = flashError("Sign in failed: " + userMessage(err))
		form.Password = ""
		renderHTML(w, statusFor(err), authPage(page, form, signUpForm{Role: "brand"}))
		return
	}
	s.setSessionCookie(w, session.Session)

	role := authentities.ParseRole(session.User.Role)
	if profileRole, err := s.deps.Profiles.Service.GetRole(r.Context(), session.User.ID); err == nil {
		role = authentities.ParseRole(string(profileRole))
	}
	http.Redirect(w, r, services.HomeFor(role), http.StatusSeeOther)
}

func (s *site) signUp(w http.ResponseWriter, r *http.Request) {
	form := signUpForm{
		Email:       strings.TrimSpace(r.PostFormValue("signup_email")),
		Password:    r.PostFormValue("signup_password"),
		DisplayName: strings.TrimSpace(r.PostFormValue("display_name")),
		Role:        strings.TrimSpace(r.PostFormValue("role")),
	}
	page := s.pageContext(r)
	if errs := form.validate(); len(errs) > 0 {
		form.Errors = errs
		form.Password = ""
		renderHTML(w, http.StatusUnprocessableEntity, authPage(page, signInForm{}, form))
		return
	}

	result, err := s.deps.Identity.Handler.SignUpHandler(r.Context(), identityhttp.SignUpRequest{
		Email:       form.Email,
		Password:    form.Password,
		Role:        form.Role,
		DisplayName: form.DisplayName,
	})
	if err != nil {
		s.logBackendError(r.Context(), "web_signup_failed", err)
		page.Flash = flashError("Sign up failed: " + userMessage(err))
		form.Password = ""
		renderHTML(w, statusFor(err), authPage(page, signInForm{}, form))
		return
	}

	notice := "Account created. You can sign in now."
	if result.VerificationRequired {
		notice = "Account created. Check your inbox for the verification link, then sign in."
	}
	page.Flash = flashNotice(notice)
	renderHTML(w, http.StatusOK, authPage(page, signInForm{Email: result.User.Email}, signUpForm{Role: "brand"}))
}

// signOut always clears the cookie. A failed backend revocation is logged
// and otherwise ignored.
func (s *site) signOut(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	if cookie, err := r.Cookie(sessionCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
		if err := s.deps.Identity.Handler.SignOutHandler(r.Context(), strings.TrimSpace(cookie.Value)); err != nil {
			s.logBackendError(r.Context(), "web_signout_failed", err)
		}
	}
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

func (s *site) verifyEmail(w http.ResponseWriter, r *http.Request) {
	page := s.pageContext(r)
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	status := http.StatusOK
	if token == "" {
		page.Flash = flashError("Verification link is missing its token.")
		status = http.StatusBadRequest
	} else if result, err := s.deps.Identity.Handler.VerifyEmailHandler(r.Context(), identityhttp.VerifyEmailRequest{Token: token}); err != nil {
		s.logBackendError(r.Context(), "web_verify_email_failed", err)
		page.Flash = flashError("Verification failed: " + userMessage(err))
		status = statusFor(err)
	} else {
		page.Flash = flashNotice("Email verified for " + result.User.Email + ". You can sign in now.")
	}
	renderHTML(w, status, authPage(page, signInForm{}, signUpForm{Role: "brand"}))
}
