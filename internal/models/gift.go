package models

import "time"

// DateLayout is the persisted and form representation of a calendar date.
const DateLayout = "2006-01-02"

// Gift is a gift received by the owning user.
type Gift struct {
	ID     int64
	UserID int64

	// Title is the required short description of the gift.
	Title string

	// Memo is free text.
	Memo string

	// GiverID and CategoryID are nil when no giver/category was recorded.
	GiverID    *int64
	CategoryID *int64

	// Giver and Category are the resolved references, populated on reads.
	Giver    *Giver
	Category *Category

	// ReceivedDate defaults to the day the gift was recorded.
	ReceivedDate time.Time

	// ThankYouSent records whether a thank-you was sent.
	ThankYouSent bool

	// ReturnDueDate is the date a return gift is due, if any.
	ReturnDueDate *time.Time

	// ReturnDone marks the return obligation as fulfilled.
	ReturnDone bool

	// Amount is an optional value in whole currency units.
	Amount *int64
}

// HasOpenObligation reports whether the gift has a return due that has not
// been marked done.
func (g *Gift) HasOpenObligation() bool {
	return g.ReturnDueDate != nil && !g.ReturnDone
}

// GiverName returns the resolved giver's name, or "" when there is none.
func (g *Gift) GiverName() string {
	if g.Giver == nil {
		return ""
	}
	return g.Giver.Name
}

// CategoryName returns the resolved category's name, or "" when there is none.
func (g *Gift) CategoryName() string {
	if g.Category == nil {
		return ""
	}
	return g.Category.Name
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string. It returns nil for empty or
// malformed input.
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
