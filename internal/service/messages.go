package service

import (
	"strings"
	"time"

	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/query"
)

// Gift is the wire form of a gift. Dates are YYYY-MM-DD.
type Gift struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Memo          string `json:"memo,omitempty"`
	GiverID       *int64 `json:"giver_id,omitempty"`
	GiverName     string `json:"giver_name,omitempty"`
	CategoryID    *int64 `json:"category_id,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	ReceivedDate  string `json:"received_date"`
	ThankYouSent  bool   `json:"thank_you_sent"`
	ReturnDueDate string `json:"return_due_date,omitempty"`
	ReturnDone    bool   `json:"return_done"`
	Amount        *int64 `json:"amount,omitempty"`
}

// GiftFields are the editable fields of a gift. Empty or malformed dates
// are treated as absent.
type GiftFields struct {
	Title         string `json:"title"`
	Memo          string `json:"memo,omitempty"`
	GiverID       *int64 `json:"giver_id,omitempty"`
	CategoryID    *int64 `json:"category_id,omitempty"`
	ReceivedDate  string `json:"received_date,omitempty"`
	ThankYouSent  bool   `json:"thank_you_sent"`
	ReturnDueDate string `json:"return_due_date,omitempty"`
	ReturnDone    bool   `json:"return_done"`
	Amount        *int64 `json:"amount,omitempty"`
}

type Giver struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

type ListGiftsRequest struct {
	Text       string `json:"text,omitempty"`
	GiverID    *int64 `json:"giver_id,omitempty"`
	CategoryID *int64 `json:"category_id,omitempty"`
	TodoOnly   bool   `json:"todo_only,omitempty"`
	MinAmount  *int64 `json:"min_amount,omitempty"`
	MaxAmount  *int64 `json:"max_amount,omitempty"`
	AmountOnly bool   `json:"amount_only,omitempty"`
}

type ListGiftsResponse struct {
	Gifts          []Gift           `json:"gifts"`
	TotalAmount    int64            `json:"total_amount"`
	AvgAmount      *int64           `json:"avg_amount"`
	CategoryTotals map[string]int64 `json:"category_totals"`
}

type GetGiftRequest struct {
	ID int64 `json:"id"`
}

type GetGiftResponse struct {
	Gift Gift `json:"gift"`
}

type CreateGiftRequest struct {
	Gift GiftFields `json:"gift"`
}

type CreateGiftResponse struct {
	Gift Gift `json:"gift"`
}

type UpdateGiftRequest struct {
	ID   int64      `json:"id"`
	Gift GiftFields `json:"gift"`
}

type UpdateGiftResponse struct {
	Gift Gift `json:"gift"`
}

type ListGiversRequest struct{}

type ListGiversResponse struct {
	Givers []Giver `json:"givers"`
}

type CreateGiverRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

type CreateGiverResponse struct {
	Giver Giver `json:"giver"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	Category Category `json:"category"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

func toFilter(req *ListGiftsRequest) query.Filter {
	f := query.Filter{
		Text:       strings.TrimSpace(req.Text),
		TodoOnly:   req.TodoOnly,
		MinAmount:  query.BoundAmount(req.MinAmount),
		MaxAmount:  query.BoundAmount(req.MaxAmount),
		AmountOnly: req.AmountOnly,
	}
	if req.GiverID != nil && *req.GiverID > 0 {
		f.GiverID = req.GiverID
	}
	if req.CategoryID != nil && *req.CategoryID > 0 {
		f.CategoryID = req.CategoryID
	}
	return f
}

func toGiftInput(f GiftFields) ledger.GiftInput {
	return ledger.GiftInput{
		Title:         f.Title,
		Memo:          f.Memo,
		GiverID:       f.GiverID,
		CategoryID:    f.CategoryID,
		ReceivedDate:  models.ParseDate(f.ReceivedDate),
		ThankYouSent:  f.ThankYouSent,
		ReturnDueDate: models.ParseDate(f.ReturnDueDate),
		ReturnDone:    f.ReturnDone,
		Amount:        f.Amount,
	}
}

func toGift(g *models.Gift) Gift {
	out := Gift{
		ID:           g.ID,
		Title:        g.Title,
		Memo:         g.Memo,
		GiverID:      g.GiverID,
		GiverName:    g.GiverName(),
		CategoryID:   g.CategoryID,
		CategoryName: g.CategoryName(),
		ReceivedDate: g.ReceivedDate.Format(models.DateLayout),
		ThankYouSent: g.ThankYouSent,
		ReturnDone:   g.ReturnDone,
		Amount:       g.Amount,
	}
	if g.ReturnDueDate != nil {
		out.ReturnDueDate = g.ReturnDueDate.Format(models.DateLayout)
	}
	return out
}

func toUser(u *models.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: time.Unix(u.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}
