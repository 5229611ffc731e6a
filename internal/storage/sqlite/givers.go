package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/storage"
)

// CreateGiver inserts a giver and sets giver.ID.
func (s *SQLiteStore) CreateGiver(ctx context.Context, giver *models.Giver) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO givers (user_id, name, contact) VALUES (?, ?, ?)",
		giver.UserID, giver.Name, giver.Contact,
	)
	if err != nil {
		return fmt.Errorf("failed to insert giver: %w", err)
	}
	if giver.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read giver id: %w", err)
	}
	return nil
}

// GetGiver retrieves one of the user's givers.
func (s *SQLiteStore) GetGiver(ctx context.Context, userID, giverID int64) (*models.Giver, error) {
	giver := &models.Giver{}
	err := s.db.GetContext(ctx, giver,
		"SELECT id, user_id, name, contact FROM givers WHERE id = ? AND user_id = ?",
		giverID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("giver %d: %w", giverID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get giver: %w", err)
	}
	return giver, nil
}

// ListGivers returns the user's givers ordered by name.
func (s *SQLiteStore) ListGivers(ctx context.Context, userID int64) ([]models.Giver, error) {
	givers := []models.Giver{}
	err := s.db.SelectContext(ctx, &givers,
		"SELECT id, user_id, name, contact FROM givers WHERE user_id = ? ORDER BY name, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list givers: %w", err)
	}
	return givers, nil
}

// CreateCategory inserts a category and sets category.ID.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (user_id, name) VALUES (?, ?)",
		category.UserID, category.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	if category.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read category id: %w", err)
	}
	return nil
}

// GetCategory retrieves one of the user's categories.
func (s *SQLiteStore) GetCategory(ctx context.Context, userID, categoryID int64) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.GetContext(ctx, category,
		"SELECT id, user_id, name FROM categories WHERE id = ? AND user_id = ?",
		categoryID, userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories returns the user's categories ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories,
		"SELECT id, user_id, name FROM categories WHERE user_id = ? ORDER BY name, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
