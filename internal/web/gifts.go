package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/reiharu06171214-ux/giftlog/internal/calendar"
	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/query"
)

type homeView struct {
	Count int
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	count, err := s.ledger.CountGifts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "home.html", "GiftLog", homeView{Count: count})
}

type giftsView struct {
	Gifts      []models.Gift
	Summary    query.Summary
	Totals     []query.CategoryTotal
	Filter     query.Filter
	Givers     []models.Giver
	Categories []models.Category
}

func (s *Server) listGifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	filter := query.ParseFilter(r.URL.Query())

	list, err := s.ledger.ListGifts(ctx, userID, filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	givers, categories, err := s.masters(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "gifts.html", "Gifts", giftsView{
		Gifts:      list.Gifts,
		Summary:    list.Summary,
		Totals:     list.Summary.Categories(),
		Filter:     filter,
		Givers:     givers,
		Categories: categories,
	})
}

type giftFormView struct {
	Action     string
	Editing    bool
	Form       giftForm
	Givers     []models.Giver
	Categories []models.Category
}

func (s *Server) masters(r *http.Request) ([]models.Giver, []models.Category, error) {
	userID := middleware.GetUserID(r.Context())
	givers, err := s.ledger.ListGivers(r.Context(), userID)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.ledger.ListCategories(r.Context(), userID)
	if err != nil {
		return nil, nil, err
	}
	return givers, categories, nil
}

func (s *Server) renderGiftForm(w http.ResponseWriter, r *http.Request, status int, view giftFormView, f *flash) {
	givers, categories, err := s.masters(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	view.Givers, view.Categories = givers, categories

	title := "Add gift"
	if view.Editing {
		title = "Edit gift"
	}
	if f == nil {
		f = s.popFlash(w, r)
	}
	s.renderWith(w, r, status, "gift_form.html", title, view, f)
}

func (s *Server) newGiftForm(w http.ResponseWriter, r *http.Request) {
	s.renderGiftForm(w, r, http.StatusOK, giftFormView{
		Action: "/gifts/new",
		Form:   giftForm{ReceivedDate: formatDate(models.DateOf(s.now()))},
	}, nil)
}

func (s *Server) createGift(w http.ResponseWriter, r *http.Request) {
	form := readGiftForm(r)
	_, err := s.ledger.CreateGift(r.Context(), middleware.GetUserID(r.Context()), form.input())
	if errors.Is(err, ledger.ErrTitleRequired) {
		s.renderGiftForm(w, r, http.StatusBadRequest, giftFormView{Action: "/gifts/new", Form: form},
			&flash{Kind: "error", Message: "Title is required."})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.setFlash(w, "success", "Gift added.")
	s.redirect(w, r, "/gifts")
}

// giftFromPath loads the gift named by the {id} path segment. It writes the
// 404 or 500 page and returns nil when there is none.
func (s *Server) giftFromPath(w http.ResponseWriter, r *http.Request) *models.Gift {
	id := query.ParseInt(r.PathValue("id"))
	if id == nil || *id <= 0 {
		s.notFound(w, r)
		return nil
	}
	gift, err := s.ledger.GetGift(r.Context(), middleware.GetUserID(r.Context()), *id)
	if errors.Is(err, ledger.ErrNotFound) {
		s.notFound(w, r)
		return nil
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil
	}
	return gift
}

func (s *Server) editGiftForm(w http.ResponseWriter, r *http.Request) {
	gift := s.giftFromPath(w, r)
	if gift == nil {
		return
	}
	s.renderGiftForm(w, r, http.StatusOK, giftFormView{
		Action:  fmt.Sprintf("/gifts/%d/edit", gift.ID),
		Editing: true,
		Form:    giftFormFrom(gift),
	}, nil)
}

func (s *Server) updateGift(w http.ResponseWriter, r *http.Request) {
	gift := s.giftFromPath(w, r)
	if gift == nil {
		return
	}

	_, err := s.ledger.UpdateGift(r.Context(), gift.UserID, gift.ID, readGiftForm(r).input())
	if errors.Is(err, ledger.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.setFlash(w, "success", "Gift updated.")
	s.redirect(w, r, "/gifts")
}

func (s *Server) listGivers(w http.ResponseWriter, r *http.Request) {
	givers, err := s.ledger.ListGivers(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "givers.html", "Givers", givers)
}

// createGiver ignores a blank name and just shows the list again.
func (s *Server) createGiver(w http.ResponseWriter, r *http.Request) {
	_, err := s.ledger.CreateGiver(r.Context(), middleware.GetUserID(r.Context()),
		r.PostFormValue("name"), r.PostFormValue("contact"))
	switch {
	case errors.Is(err, ledger.ErrNameRequired):
	case err != nil:
		s.serverError(w, r, err)
		return
	default:
		s.setFlash(w, "success", "Giver added.")
	}
	s.redirect(w, r, "/givers")
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.ledger.ListCategories(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "categories.html", "Categories", categories)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	_, err := s.ledger.CreateCategory(r.Context(), middleware.GetUserID(r.Context()), r.PostFormValue("name"))
	switch {
	case errors.Is(err, ledger.ErrNameRequired):
	case err != nil:
		s.serverError(w, r, err)
		return
	default:
		s.setFlash(w, "success", "Category added.")
	}
	s.redirect(w, r, "/categories")
}

func (s *Server) calendarFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.ledger.CalendarFeed(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+calendar.Filename)
	fmt.Fprint(w, feed)
}
