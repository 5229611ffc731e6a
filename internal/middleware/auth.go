package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// SessionCookie is the name of the cookie holding the session token.
const SessionCookie = "giftlog_session"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// GetUserID extracts the user ID from the context.
// Returns 0 if not found.
func GetUserID(ctx context.Context) int64 {
	userID, _ := ctx.Value(UserIDKey).(int64)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithClaims returns a context carrying the session's identity.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, EmailKey, claims.Email)
}

// NewSessionCookie builds the HttpOnly cookie carrying token.
func NewSessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie stores token in the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, NewSessionCookie(token, ttl, secure))
}

// ExpiredSessionCookie builds a cookie that deletes the session.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	c := NewSessionCookie("", 0, secure)
	c.MaxAge = -1
	return c
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, ExpiredSessionCookie(secure))
}

// tokenFromHeader returns a bearer token, falling back to the session cookie.
func tokenFromHeader(h http.Header) (string, error) {
	if authHeader := h.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}

	cookie, err := (&http.Request{Header: h}).Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", auth.ErrMissingToken
	}
	return cookie.Value, nil
}

// UserLookup resolves a session's user id. auth.UserStorage satisfies it.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// resolveSession validates token and checks that its user still exists.
// A token for a missing user yields auth.ErrInvalidToken.
func resolveSession(ctx context.Context, jwtManager *auth.JWTManager, users UserLookup, token string) (*auth.Claims, error) {
	claims, err := jwtManager.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	if user == nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: user.ID, Email: user.Email}, nil
}

// RequireSession guards HTML pages. Requests without a valid session, or
// whose user no longer exists, are redirected to the login page and have
// the session cookie cleared.
func RequireSession(jwtManager *auth.JWTManager, users UserLookup, secureCookie bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromHeader(r.Header)
		if err != nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		claims, err := resolveSession(r.Context(), jwtManager, users, token)
		if errors.Is(err, auth.ErrInvalidToken) {
			ClearSessionCookie(w, secureCookie)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		if err != nil {
			slog.Error("Session lookup failed", "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAuth returns a Connect interceptor that validates the bearer token
// or session cookie, resolves its user and adds the user ID and email to
// the request context.
func RequireAuth(jwtManager *auth.JWTManager, users UserLookup) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := tokenFromHeader(req.Header())
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := resolveSession(ctx, jwtManager, users, token)
			if errors.Is(err, auth.ErrInvalidToken) {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			return next(WithClaims(ctx, claims), req)
		}
	}
}

// OptionalAuth returns a Connect interceptor that adds the user to the
// context when a valid token for an existing user is present and passes
// every request through.
func OptionalAuth(jwtManager *auth.JWTManager, users UserLookup) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token, err := tokenFromHeader(req.Header()); err == nil {
				if claims, err := resolveSession(ctx, jwtManager, users, token); err == nil {
					ctx = WithClaims(ctx, claims)
				}
			}
			return next(ctx, req)
		}
	}
}
