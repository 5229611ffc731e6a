package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/reiharu06171214-ux/giftlog/internal/auth"
	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/middleware"
)

// GiftService implements the Connect GiftService on top of a ledger.
type GiftService struct {
	ledger *ledger.Ledger
}

// NewGiftService creates a GiftService. Handlers expect the user id in the
// context, so mount it behind middleware.RequireAuth.
func NewGiftService(l *ledger.Ledger) *GiftService {
	return &GiftService{ledger: l}
}

// toConnectError maps ledger and storage errors onto Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrTitleRequired), errors.Is(err, ledger.ErrNameRequired):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func currentUser(ctx context.Context) (int64, error) {
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		return 0, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// ListGifts returns the filtered gift list with its aggregates.
func (s *GiftService) ListGifts(ctx context.Context, req *connect.Request[ListGiftsRequest]) (*connect.Response[ListGiftsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.ledger.ListGifts(ctx, userID, toFilter(req.Msg))
	if err != nil {
		slog.Error("ListGifts failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &ListGiftsResponse{
		Gifts:          make([]Gift, 0, len(list.Gifts)),
		TotalAmount:    list.Summary.Total,
		AvgAmount:      list.Summary.Average,
		CategoryTotals: list.Summary.CategoryTotals,
	}
	for i := range list.Gifts {
		resp.Gifts = append(resp.Gifts, toGift(&list.Gifts[i]))
	}
	return connect.NewResponse(resp), nil
}

// GetGift returns a single gift.
func (s *GiftService) GetGift(ctx context.Context, req *connect.Request[GetGiftRequest]) (*connect.Response[GetGiftResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	gift, err := s.ledger.GetGift(ctx, userID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetGiftResponse{Gift: toGift(gift)}), nil
}

// CreateGift records a gift.
func (s *GiftService) CreateGift(ctx context.Context, req *connect.Request[CreateGiftRequest]) (*connect.Response[CreateGiftResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	gift, err := s.ledger.CreateGift(ctx, userID, toGiftInput(req.Msg.Gift))
	if err != nil {
		if !errors.Is(err, ledger.ErrTitleRequired) {
			slog.Error("CreateGift failed", "user_id", userID, "error", err)
		}
		return nil, toConnectError(err)
	}

	slog.Info("Gift created", "user_id", userID, "gift_id", gift.ID)
	return connect.NewResponse(&CreateGiftResponse{Gift: toGift(gift)}), nil
}

// UpdateGift edits a gift.
func (s *GiftService) UpdateGift(ctx context.Context, req *connect.Request[UpdateGiftRequest]) (*connect.Response[UpdateGiftResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	gift, err := s.ledger.UpdateGift(ctx, userID, req.Msg.ID, toGiftInput(req.Msg.Gift))
	if err != nil {
		if !errors.Is(err, ledger.ErrNotFound) {
			slog.Error("UpdateGift failed", "user_id", userID, "gift_id", req.Msg.ID, "error", err)
		}
		return nil, toConnectError(err)
	}

	slog.Info("Gift updated", "user_id", userID, "gift_id", gift.ID)
	return connect.NewResponse(&UpdateGiftResponse{Gift: toGift(gift)}), nil
}

// ListGivers returns the user's givers.
func (s *GiftService) ListGivers(ctx context.Context, req *connect.Request[ListGiversRequest]) (*connect.Response[ListGiversResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	givers, err := s.ledger.ListGivers(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListGiversResponse{Givers: make([]Giver, 0, len(givers))}
	for _, g := range givers {
		resp.Givers = append(resp.Givers, Giver{ID: g.ID, Name: g.Name, Contact: g.Contact})
	}
	return connect.NewResponse(resp), nil
}

// CreateGiver adds a giver.
func (s *GiftService) CreateGiver(ctx context.Context, req *connect.Request[CreateGiverRequest]) (*connect.Response[CreateGiverResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	giver, err := s.ledger.CreateGiver(ctx, userID, req.Msg.Name, req.Msg.Contact)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateGiverResponse{
		Giver: Giver{ID: giver.ID, Name: giver.Name, Contact: giver.Contact},
	}), nil
}

// ListCategories returns the user's categories.
func (s *GiftService) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.ledger.ListCategories(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ListCategoriesResponse{Categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, Category{ID: c.ID, Name: c.Name})
	}
	return connect.NewResponse(resp), nil
}

// CreateCategory adds a category.
func (s *GiftService) CreateCategory(ctx context.Context, req *connect.Request[CreateCategoryRequest]) (*connect.Response[CreateCategoryResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.ledger.CreateCategory(ctx, userID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateCategoryResponse{
		Category: Category{ID: category.ID, Name: category.Name},
	}), nil
}
