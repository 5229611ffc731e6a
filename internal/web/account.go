package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
)

type accountView struct {
	Email string
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", "Sign up", accountView{})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	user, err := s.authenticator.Register(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			msg = "Please enter an email and a password."
		case errors.Is(err, auth.ErrEmailExists):
			msg = "That email is already registered."
		case errors.Is(err, auth.ErrWeakPassword):
			msg = "Password must be at least 8 characters."
		default:
			s.serverError(w, r, err)
			return
		}
		slog.Info("Registration rejected", "email", email, "reason", err)
		s.setFlash(w, "error", msg)
		s.redirect(w, r, "/register")
		return
	}

	if err := s.startSession(w, r, user); err != nil {
		s.serverError(w, r, err)
		return
	}
	slog.Info("User registered", "user_id", user.ID)
	s.setFlash(w, "success", "Welcome to GiftLog!")
	s.redirect(w, r, "/")
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", "Log in", accountView{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	user, err := s.authenticator.Authenticate(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		slog.Warn("Login failed", "email", email)
		s.renderWith(w, r, http.StatusOK, "login.html", "Log in", accountView{Email: email},
			&flash{Kind: "error", Message: "Incorrect email or password."})
		return
	}

	if err := s.startSession(w, r, user); err != nil {
		s.serverError(w, r, err)
		return
	}
	slog.Info("User logged in", "user_id", user.ID)
	s.setFlash(w, "success", "Logged in.")
	s.redirect(w, r, "/")
}

// startSession seeds the user's default givers and categories and sets the
// session cookie.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	if err := s.ledger.EnsureDefaults(r.Context(), user.ID); err != nil {
		return err
	}
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(w, token, s.jwtManager.Duration(), s.opts.SecureCookie)
	return nil
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, s.opts.SecureCookie)
	s.setFlash(w, "success", "Logged out.")
	s.redirect(w, r, middleware.LoginPath)
}
