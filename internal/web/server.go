// Package web serves GiftLog's HTML pages and the calendar feed.
package web

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
)

// Options configures a Server.
type Options struct {
	// SecureCookie marks session and flash cookies Secure.
	SecureCookie bool
	// Metrics instruments every route when set.
	Metrics *middleware.Metrics
}

// Server renders the HTML surface on top of a ledger.
type Server struct {
	ledger        *ledger.Ledger
	authenticator auth.Authenticator
	users         middleware.UserLookup
	jwtManager    *auth.JWTManager
	opts          Options
	pages         map[string]*template.Template
	now           func() time.Time
}

// New parses the embedded templates and returns a Server. users resolves
// the account behind each session.
func New(l *ledger.Ledger, authenticator auth.Authenticator, users middleware.UserLookup, jwtManager *auth.JWTManager, opts Options) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Server{
		ledger:        l,
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		opts:          opts,
		pages:         pages,
		now:           time.Now,
	}, nil
}

// Register mounts the pages on mux. Paths nobody else claims get the 404 page.
func (s *Server) Register(mux *http.ServeMux) {
	s.handle(mux, "GET /{$}", s.home, true)
	s.handle(mux, "GET /gifts", s.listGifts, true)
	s.handle(mux, "GET /gifts/new", s.newGiftForm, true)
	s.handle(mux, "POST /gifts/new", s.createGift, true)
	s.handle(mux, "GET /gifts/{id}/edit", s.editGiftForm, true)
	s.handle(mux, "POST /gifts/{id}/edit", s.updateGift, true)
	s.handle(mux, "GET /givers", s.listGivers, true)
	s.handle(mux, "POST /givers", s.createGiver, true)
	s.handle(mux, "GET /categories", s.listCategories, true)
	s.handle(mux, "POST /categories", s.createCategory, true)
	s.handle(mux, "GET /calendar.ics", s.calendarFeed, true)
	s.handle(mux, "GET /logout", s.logout, true)

	s.handle(mux, "GET /register", s.registerForm, false)
	s.handle(mux, "POST /register", s.register, false)
	s.handle(mux, "GET /login", s.loginForm, false)
	s.handle(mux, "POST /login", s.login, false)

	s.handle(mux, "/", s.notFound, false)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc, guarded bool) {
	var h http.Handler = fn
	if guarded {
		h = middleware.RequireSession(s.jwtManager, s.users, s.opts.SecureCookie, h)
	}
	if s.opts.Metrics != nil {
		route := pattern
		if i := strings.IndexByte(route, ' '); i >= 0 {
			route = route[i+1:]
		}
		switch route {
		case "/{$}":
			route = "/"
		case "/":
			route = "unmatched"
		}
		h = s.opts.Metrics.Instrument(route, h)
	}
	mux.Handle(pattern, h)
}
