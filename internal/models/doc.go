// Package models defines the core domain models for GiftLog.
//
// # Models
//
//   - User: a registered account; owns everything else
//   - Giver: a person who gave a gift
//   - Category: a free-form gift classification label
//   - Gift: the central record, optionally linked to a Giver and a Category
//
// # Ownership
//
// Every Giver, Category and Gift carries the UserID of its owner. Storage
// queries always filter by that column, so a record belonging to another
// user is indistinguishable from a missing one.
//
// # Dates
//
// Received and return-due dates are calendar dates without a time of day.
// They are held as time.Time values at midnight UTC and persisted as
// YYYY-MM-DD text (see DateLayout).
package models
