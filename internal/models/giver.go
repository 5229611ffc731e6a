package models

// Giver is a person who gave one or more gifts.
// Givers are append-only: there is no edit or delete flow.
type Giver struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`

	// Name is the display name (required).
	Name string `db:"name"`

	// Contact is an optional free-form contact string (phone, address, ...).
	Contact string `db:"contact"`
}

// Category is a gift classification label owned by one user.
type Category struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Name   string `db:"name"`
}
