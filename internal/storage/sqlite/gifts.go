package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/query"
	"github.com/reiharu06171214-ux/giftlog/internal/storage"
)

// giftSelect loads gifts with their giver and category. The joins repeat the
// owner check so a dangling reference never resolves to another user's row.
const giftSelect = `
SELECT g.id, g.user_id, g.title, g.memo, g.giver_id, g.category_id,
       g.received_date, g.thank_you_sent, g.return_due_date, g.return_done, g.amount,
       gv.name AS giver_name, gv.contact AS giver_contact, c.name AS category_name
FROM gifts g
LEFT JOIN givers gv ON gv.id = g.giver_id AND gv.user_id = g.user_id
LEFT JOIN categories c ON c.id = g.category_id AND c.user_id = g.user_id`

// giftRow is the flat scan target for giftSelect.
type giftRow struct {
	ID            int64          `db:"id"`
	UserID        int64          `db:"user_id"`
	Title         string         `db:"title"`
	Memo          string         `db:"memo"`
	GiverID       sql.NullInt64  `db:"giver_id"`
	CategoryID    sql.NullInt64  `db:"category_id"`
	ReceivedDate  string         `db:"received_date"`
	ThankYouSent  bool           `db:"thank_you_sent"`
	ReturnDueDate sql.NullString `db:"return_due_date"`
	ReturnDone    bool           `db:"return_done"`
	Amount        sql.NullInt64  `db:"amount"`
	GiverName     sql.NullString `db:"giver_name"`
	GiverContact  sql.NullString `db:"giver_contact"`
	CategoryName  sql.NullString `db:"category_name"`
}

func (r *giftRow) toModel() (models.Gift, error) {
	received, err := time.Parse(models.DateLayout, r.ReceivedDate)
	if err != nil {
		return models.Gift{}, fmt.Errorf("gift %d has invalid received_date %q: %w", r.ID, r.ReceivedDate, err)
	}

	g := models.Gift{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		Memo:         r.Memo,
		ReceivedDate: received,
		ThankYouSent: r.ThankYouSent,
		ReturnDone:   r.ReturnDone,
	}
	if r.GiverID.Valid {
		id := r.GiverID.Int64
		g.GiverID = &id
		if r.GiverName.Valid {
			g.Giver = &models.Giver{ID: id, UserID: r.UserID, Name: r.GiverName.String, Contact: r.GiverContact.String}
		}
	}
	if r.CategoryID.Valid {
		id := r.CategoryID.Int64
		g.CategoryID = &id
		if r.CategoryName.Valid {
			g.Category = &models.Category{ID: id, UserID: r.UserID, Name: r.CategoryName.String}
		}
	}
	if r.ReturnDueDate.Valid {
		due, err := time.Parse(models.DateLayout, r.ReturnDueDate.String)
		if err != nil {
			return models.Gift{}, fmt.Errorf("gift %d has invalid return_due_date %q: %w", r.ID, r.ReturnDueDate.String, err)
		}
		g.ReturnDueDate = &due
	}
	if r.Amount.Valid {
		amount := r.Amount.Int64
		g.Amount = &amount
	}
	return g, nil
}

// nullableDate converts an optional date to its column value.
func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(models.DateLayout)
}

// nullableInt converts an optional integer to its column value.
func nullableInt(n *int64) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

// CreateGift persists a new gift and sets gift.ID.
func (s *SQLiteStore) CreateGift(ctx context.Context, gift *models.Gift) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO gifts (
			user_id, title, memo, giver_id, category_id,
			received_date, thank_you_sent, return_due_date, return_done, amount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gift.UserID, gift.Title, gift.Memo, nullableInt(gift.GiverID), nullableInt(gift.CategoryID),
		gift.ReceivedDate.Format(models.DateLayout), gift.ThankYouSent,
		nullableDate(gift.ReturnDueDate), gift.ReturnDone, nullableInt(gift.Amount),
	)
	if err != nil {
		return fmt.Errorf("failed to insert gift: %w", err)
	}
	if gift.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read gift id: %w", err)
	}
	return nil
}

// UpdateGift overwrites an existing gift owned by gift.UserID.
func (s *SQLiteStore) UpdateGift(ctx context.Context, gift *models.Gift) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE gifts SET
			title = ?, memo = ?, giver_id = ?, category_id = ?,
			received_date = ?, thank_you_sent = ?, return_due_date = ?,
			return_done = ?, amount = ?
		WHERE id = ? AND user_id = ?`,
		gift.Title, gift.Memo, nullableInt(gift.GiverID), nullableInt(gift.CategoryID),
		gift.ReceivedDate.Format(models.DateLayout), gift.ThankYouSent,
		nullableDate(gift.ReturnDueDate), gift.ReturnDone, nullableInt(gift.Amount),
		gift.ID, gift.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update gift %d: %w", gift.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("gift %d: %w", gift.ID, storage.ErrNotFound)
	}
	return nil
}

// GetGift retrieves one of the user's gifts.
func (s *SQLiteStore) GetGift(ctx context.Context, userID, giftID int64) (*models.Gift, error) {
	var row giftRow
	err := s.db.GetContext(ctx, &row, giftSelect+" WHERE g.id = ? AND g.user_id = ?", giftID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("gift %d: %w", giftID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gift: %w", err)
	}

	gift, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &gift, nil
}

// QueryGifts returns the user's gifts matching filter.
func (s *SQLiteStore) QueryGifts(ctx context.Context, userID int64, filter query.Filter) ([]models.Gift, error) {
	q, args := buildGiftQuery(userID, filter)
	return s.selectGifts(ctx, q, args...)
}

// CountGifts returns the number of gifts owned by the user.
func (s *SQLiteStore) CountGifts(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM gifts WHERE user_id = ?", userID); err != nil {
		return 0, fmt.Errorf("failed to count gifts: %w", err)
	}
	return count, nil
}

// ListObligations returns gifts with a return due date that is not done.
func (s *SQLiteStore) ListObligations(ctx context.Context, userID int64) ([]models.Gift, error) {
	return s.selectGifts(ctx,
		giftSelect+" WHERE g.user_id = ? AND g.return_due_date IS NOT NULL AND g.return_done = 0 ORDER BY g.id",
		userID,
	)
}

func (s *SQLiteStore) selectGifts(ctx context.Context, q string, args ...interface{}) ([]models.Gift, error) {
	var rows []giftRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query gifts: %w", err)
	}

	gifts := make([]models.Gift, 0, len(rows))
	for i := range rows {
		g, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, nil
}

// buildGiftQuery turns a filter into a WHERE clause. Every condition is
// ANDed with the owner check.
func buildGiftQuery(userID int64, f query.Filter) (string, []interface{}) {
	conditions := []string{"g.user_id = ?"}
	args := []interface{}{userID}

	if f.Text != "" {
		conditions = append(conditions, `g.title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Text)+"%")
	}
	if f.GiverID != nil {
		conditions = append(conditions, "g.giver_id = ?")
		args = append(args, *f.GiverID)
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "g.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.TodoOnly {
		conditions = append(conditions, "g.return_due_date IS NOT NULL AND g.return_done = 0")
	}
	if f.RestrictsAmount() {
		conditions = append(conditions, "g.amount IS NOT NULL")
	}
	if f.MinAmount != nil {
		conditions = append(conditions, "g.amount >= ?")
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		conditions = append(conditions, "g.amount <= ?")
		args = append(args, *f.MaxAmount)
	}

	q := giftSelect + " WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY g.received_date DESC, g.id ASC"
	return q, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
