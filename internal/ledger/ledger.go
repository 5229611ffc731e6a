// Package ledger implements GiftLog's owner-scoped operations on top of a
// storage.Store. Both the HTML pages and the RPC API go through it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reiharu06171214-ux/giftlog/internal/calendar"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/query"
	"github.com/reiharu06171214-ux/giftlog/internal/storage"
)

var (
	// ErrTitleRequired is returned when a gift is created without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrNameRequired is returned when a giver or category has no name.
	ErrNameRequired = errors.New("name is required")

	// ErrNotFound is storage.ErrNotFound, re-exported for callers that only
	// depend on the ledger.
	ErrNotFound = storage.ErrNotFound
)

// Defaults seeded for every account by EnsureDefaults.
var (
	DefaultCategories = []string{"Food", "Cosmetics", "Household", "Other"}
	DefaultGivers     = []string{"Father", "Mother"}
)

// Ledger exposes the use cases of the application.
type Ledger struct {
	store storage.Store
	now   func() time.Time
}

// New creates a Ledger backed by store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// GiftInput is the editable part of a gift as submitted by a user.
type GiftInput struct {
	Title         string
	Memo          string
	GiverID       *int64
	CategoryID    *int64
	ReceivedDate  *time.Time
	ThankYouSent  bool
	ReturnDueDate *time.Time
	ReturnDone    bool
	Amount        *int64
}

// GiftList is a filtered gift list with its aggregates.
type GiftList struct {
	Gifts   []models.Gift
	Summary query.Summary
}

// ListGifts returns the user's gifts matching filter, with aggregates
// computed over the filtered set.
func (l *Ledger) ListGifts(ctx context.Context, userID int64, filter query.Filter) (*GiftList, error) {
	gifts, err := l.store.QueryGifts(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing gifts: %w", err)
	}
	return &GiftList{Gifts: gifts, Summary: query.Summarize(gifts)}, nil
}

// CountGifts returns how many gifts the user has recorded.
func (l *Ledger) CountGifts(ctx context.Context, userID int64) (int, error) {
	return l.store.CountGifts(ctx, userID)
}

// GetGift returns one of the user's gifts or ErrNotFound.
func (l *Ledger) GetGift(ctx context.Context, userID, giftID int64) (*models.Gift, error) {
	return l.store.GetGift(ctx, userID, giftID)
}

// CreateGift records a new gift. The received date defaults to today.
func (l *Ledger) CreateGift(ctx context.Context, userID int64, in GiftInput) (*models.Gift, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	gift := &models.Gift{
		UserID:        userID,
		Title:         title,
		Memo:          strings.TrimSpace(in.Memo),
		ReceivedDate:  models.DateOf(l.now()),
		ThankYouSent:  in.ThankYouSent,
		ReturnDueDate: in.ReturnDueDate,
		ReturnDone:    in.ReturnDone,
		Amount:        query.BoundAmount(in.Amount),
	}
	if in.ReceivedDate != nil {
		gift.ReceivedDate = *in.ReceivedDate
	}
	if err := l.resolveReferences(ctx, userID, gift, in); err != nil {
		return nil, err
	}

	if err := l.store.CreateGift(ctx, gift); err != nil {
		return nil, fmt.Errorf("creating gift: %w", err)
	}
	slog.Debug("Gift created", "user_id", userID, "gift_id", gift.ID)
	return gift, nil
}

// UpdateGift applies an edit. A blank title or a missing received date
// keeps the stored value; every other field is replaced.
func (l *Ledger) UpdateGift(ctx context.Context, userID, giftID int64, in GiftInput) (*models.Gift, error) {
	gift, err := l.store.GetGift(ctx, userID, giftID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		gift.Title = title
	}
	gift.Memo = strings.TrimSpace(in.Memo)
	if in.ReceivedDate != nil {
		gift.ReceivedDate = *in.ReceivedDate
	}
	gift.ThankYouSent = in.ThankYouSent
	gift.ReturnDueDate = in.ReturnDueDate
	gift.ReturnDone = in.ReturnDone
	gift.Amount = query.BoundAmount(in.Amount)
	if err := l.resolveReferences(ctx, userID, gift, in); err != nil {
		return nil, err
	}

	if err := l.store.UpdateGift(ctx, gift); err != nil {
		return nil, fmt.Errorf("updating gift: %w", err)
	}
	slog.Debug("Gift updated", "user_id", userID, "gift_id", gift.ID)
	return gift, nil
}

// resolveReferences sets the gift's giver and category from the input,
// dropping ids the user does not own.
func (l *Ledger) resolveReferences(ctx context.Context, userID int64, gift *models.Gift, in GiftInput) error {
	gift.GiverID, gift.Giver = nil, nil
	if in.GiverID != nil {
		giver, err := l.store.GetGiver(ctx, userID, *in.GiverID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			slog.Warn("Ignoring unknown giver reference", "user_id", userID, "giver_id", *in.GiverID)
		case err != nil:
			return fmt.Errorf("resolving giver: %w", err)
		default:
			gift.GiverID, gift.Giver = &giver.ID, giver
		}
	}

	gift.CategoryID, gift.Category = nil, nil
	if in.CategoryID != nil {
		category, err := l.store.GetCategory(ctx, userID, *in.CategoryID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			slog.Warn("Ignoring unknown category reference", "user_id", userID, "category_id", *in.CategoryID)
		case err != nil:
			return fmt.Errorf("resolving category: %w", err)
		default:
			gift.CategoryID, gift.Category = &category.ID, category
		}
	}
	return nil
}

// ListGivers returns the user's givers sorted by name.
func (l *Ledger) ListGivers(ctx context.Context, userID int64) ([]models.Giver, error) {
	return l.store.ListGivers(ctx, userID)
}

// CreateGiver adds a giver.
func (l *Ledger) CreateGiver(ctx context.Context, userID int64, name, contact string) (*models.Giver, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	giver := &models.Giver{UserID: userID, Name: name, Contact: strings.TrimSpace(contact)}
	if err := l.store.CreateGiver(ctx, giver); err != nil {
		return nil, fmt.Errorf("creating giver: %w", err)
	}
	return giver, nil
}

// ListCategories returns the user's categories sorted by name.
func (l *Ledger) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	return l.store.ListCategories(ctx, userID)
}

// CreateCategory adds a category.
func (l *Ledger) CreateCategory(ctx context.Context, userID int64, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	category := &models.Category{UserID: userID, Name: name}
	if err := l.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return category, nil
}

// EnsureDefaults adds whichever default categories and givers the user is
// missing. Existing names are never duplicated.
func (l *Ledger) EnsureDefaults(ctx context.Context, userID int64) error {
	categories, err := l.store.ListCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	haveCategory := make(map[string]bool, len(categories))
	for _, c := range categories {
		haveCategory[c.Name] = true
	}
	for _, name := range DefaultCategories {
		if haveCategory[name] {
			continue
		}
		if err := l.store.CreateCategory(ctx, &models.Category{UserID: userID, Name: name}); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}

	givers, err := l.store.ListGivers(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading givers: %w", err)
	}
	haveGiver := make(map[string]bool, len(givers))
	for _, g := range givers {
		haveGiver[g.Name] = true
	}
	for _, name := range DefaultGivers {
		if haveGiver[name] {
			continue
		}
		if err := l.store.CreateGiver(ctx, &models.Giver{UserID: userID, Name: name}); err != nil {
			return fmt.Errorf("seeding giver %q: %w", name, err)
		}
	}
	return nil
}

// CalendarFeed renders the user's open return obligations as iCalendar text.
func (l *Ledger) CalendarFeed(ctx context.Context, userID int64) (string, error) {
	gifts, err := l.store.ListObligations(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("listing obligations: %w", err)
	}
	return calendar.Build(gifts, l.now()), nil
}
