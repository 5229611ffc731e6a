package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home.html",
	"gifts.html",
	"gift_form.html",
	"givers.html",
	"categories.html",
	"register.html",
	"login.html",
	"404.html",
	"500.html",
}

var funcs = template.FuncMap{
	"amount":     formatAmount,
	"date":       formatDate,
	"optInt":     optInt,
	"isSelected": isSelected,
	"selects":    selects,
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// layout is what every page template receives.
type layout struct {
	Title string
	Email string
	Flash *flash
	Data  any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	s.renderWith(w, r, status, page, title, data, s.popFlash(w, r))
}

// renderWith renders page showing f instead of any pending flash.
func (s *Server) renderWith(w http.ResponseWriter, r *http.Request, status int, page, title string, data any, f *flash) {
	view := layout{
		Title: title,
		Email: middleware.GetEmail(r.Context()),
		Flash: f,
		Data:  data,
	}

	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "base", view); err != nil {
		slog.Error("Failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404.html", "Not Found", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	s.render(w, r, http.StatusInternalServerError, "500.html", "Error", nil)
}

// formatAmount renders an amount with thousands separators, or "" when absent.
func formatAmount(v any) string {
	switch n := v.(type) {
	case int64:
		return humanize.Comma(n)
	case *int64:
		if n == nil {
			return ""
		}
		return humanize.Comma(*n)
	}
	return ""
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(models.DateLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(models.DateLayout)
	}
	return ""
}

func optInt(p *int64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

func isSelected(p *int64, id int64) bool {
	return p != nil && *p == id
}
