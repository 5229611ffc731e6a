package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
)

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, GetEmail(r.Context()))
	})
}

// userMap is an in-memory UserLookup.
type userMap map[int64]*models.User

func (m userMap) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return m[id], nil
}

func TestRequireSession(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	users := userMap{9: {ID: 9, Email: "nine@example.com"}}
	token, err := jwtManager.Generate(users[9])
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	handler := RequireSession(jwtManager, users, true, whoAmI())

	t.Run("no cookie redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gifts", nil))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("invalid cookie is cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/gifts", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
			t.Errorf("expected cookie to be cleared, got %q", rec.Header().Get("Set-Cookie"))
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), "Secure") {
			t.Errorf("clearing cookie must follow the configured Secure flag, got %q", rec.Header().Get("Set-Cookie"))
		}
	})

	t.Run("token for a missing user is rejected", func(t *testing.T) {
		stale, err := jwtManager.Generate(&models.User{ID: 99, Email: "gone@example.com"})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/gifts", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: stale})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
			t.Fatalf("got %d %q, want redirect to login", rec.Code, rec.Header().Get("Location"))
		}
		if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
			t.Errorf("expected cookie to be cleared, got %q", rec.Header().Get("Set-Cookie"))
		}
	})

	t.Run("valid cookie passes identity through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/gifts", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "nine@example.com" {
			t.Errorf("got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("bearer header is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/gifts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", 2*time.Hour, true)

	cookie := rec.Result().Cookies()[0]
	if cookie.Name != SessionCookie || cookie.Value != "tok" {
		t.Errorf("cookie = %+v", cookie)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("missing hardening attributes: %+v", cookie)
	}
	if cookie.MaxAge != 7200 {
		t.Errorf("MaxAge = %d", cookie.MaxAge)
	}
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	handler := m.Instrument("/gifts", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gifts", nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	want := `giftlog_http_requests_total{code="404",method="GET",route="/gifts"} 3`
	if !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
	if !strings.Contains(body, "giftlog_http_request_duration_seconds_count") {
		t.Error("metrics output missing duration histogram")
	}
}
