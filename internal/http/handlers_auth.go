package http

import (
	"errors"
	"html/template"
	"net/http"

	"spendview/internal/auth"
	applog "spendview/internal/log"
)

func authUser(r *http.Request) (string, bool) {
	return auth.UserFromContext(r.Context())
}

// handleLogin renders the login form on GET and verifies credentials on POST.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, r, "")
	case http.MethodPost:
		s.processLogin(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct{ Error string }{Error: errMsg}
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Login template execution failed", "error", err, "template", "login.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) processLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	if err := s.authenticator.Verify(username, password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Login verification error", "error", err)
		}
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Failed login attempt", "username", username, "client_ip", extractClientIP(r))
		w.WriteHeader(http.StatusUnauthorized)
		s.renderLoginError(w, r)
		return
	}

	token := s.sessions.Create(username)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Login succeeded", "username", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="error">Invalid username or password</div>`))
		return
	}
	data := struct{ Error string }{Error: "Invalid username or password"}
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
	}
}

// handleLogout revokes the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && s.sessions != nil {
		s.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
