// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/query"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for GiftLog storage operations.
// Every method except the user lookups is scoped by the owning user's ID.
type Store interface {
	// CreateUser inserts a user and populates user.ID.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	CreateGiver(ctx context.Context, giver *models.Giver) error
	GetGiver(ctx context.Context, userID, giverID int64) (*models.Giver, error)
	ListGivers(ctx context.Context, userID int64) ([]models.Giver, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, userID, categoryID int64) (*models.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)

	// CreateGift inserts a gift and populates gift.ID.
	CreateGift(ctx context.Context, gift *models.Gift) error

	// UpdateGift overwrites the gift's mutable fields. It returns
	// ErrNotFound unless the gift exists and belongs to gift.UserID.
	UpdateGift(ctx context.Context, gift *models.Gift) error

	// GetGift returns the gift with resolved Giver and Category.
	GetGift(ctx context.Context, userID, giftID int64) (*models.Gift, error)

	// QueryGifts returns the user's gifts matching every supplied filter,
	// newest received first, ties in insertion order.
	QueryGifts(ctx context.Context, userID int64, filter query.Filter) ([]models.Gift, error)

	// CountGifts returns the number of gifts the user owns.
	CountGifts(ctx context.Context, userID int64) (int, error)

	// ListObligations returns the user's gifts with an open return
	// obligation, in insertion order.
	ListObligations(ctx context.Context, userID int64) ([]models.Gift, error)

	// Close releases any resources held by the store.
	Close() error
}

