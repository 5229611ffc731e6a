// Package query holds the gift list filter and the aggregates computed over
// a filtered result set.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter is the typed set of optional gift list filters. All supplied
// filters are combined with AND. A nil pointer or zero value means the
// filter is absent.
type Filter struct {
	// Text matches as a substring of the title. The match is
	// case-insensitive for ASCII letters and exact otherwise.
	Text string

	GiverID    *int64
	CategoryID *int64

	// TodoOnly keeps gifts with an open return obligation.
	TodoOnly bool

	MinAmount  *int64
	MaxAmount  *int64
	AmountOnly bool
}

// RestrictsAmount reports whether the filter excludes gifts without an amount.
func (f Filter) RestrictsAmount() bool {
	return f.AmountOnly || f.MinAmount != nil || f.MaxAmount != nil
}

// IsEmpty reports whether no filter is set.
func (f Filter) IsEmpty() bool {
	return f.Text == "" && f.GiverID == nil && f.CategoryID == nil &&
		!f.TodoOnly && !f.RestrictsAmount()
}

// ParseFilter reads filters from query parameters.
//
// Malformed numbers are treated as absent rather than rejected, and so are
// ids that are not positive and amounts beyond AmountLimit. Flags are set only by the value "1".
func ParseFilter(v url.Values) Filter {
	return Filter{
		Text:       strings.TrimSpace(v.Get("q")),
		GiverID:    parseID(v.Get("giver_id")),
		CategoryID: parseID(v.Get("category_id")),
		TodoOnly:   v.Get("todo") == "1",
		MinAmount:  ParseAmount(v.Get("min_amount")),
		MaxAmount:  ParseAmount(v.Get("max_amount")),
		AmountOnly: v.Get("amount_only") == "1",
	}
}

// Values is the inverse of ParseFilter, used to build list links.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Text != "" {
		v.Set("q", f.Text)
	}
	if f.GiverID != nil {
		v.Set("giver_id", strconv.FormatInt(*f.GiverID, 10))
	}
	if f.CategoryID != nil {
		v.Set("category_id", strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.TodoOnly {
		v.Set("todo", "1")
	}
	if f.MinAmount != nil {
		v.Set("min_amount", strconv.FormatInt(*f.MinAmount, 10))
	}
	if f.MaxAmount != nil {
		v.Set("max_amount", strconv.FormatInt(*f.MaxAmount, 10))
	}
	if f.AmountOnly {
		v.Set("amount_only", "1")
	}
	return v
}

// ParseInt parses a base-10 integer, returning nil for empty or malformed
// input.
func ParseInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// AmountLimit is the largest magnitude accepted for an amount. It keeps
// sums over a user's gifts well inside int64.
const AmountLimit = 1_000_000_000_000_000

// BoundAmount returns p, or nil when its magnitude exceeds AmountLimit.
func BoundAmount(p *int64) *int64 {
	if p == nil || *p > AmountLimit || *p < -AmountLimit {
		return nil
	}
	return p
}

// ParseAmount parses an amount like ParseInt. Out-of-range values are
// treated as absent.
func ParseAmount(s string) *int64 {
	return BoundAmount(ParseInt(s))
}

func parseID(s string) *int64 {
	n := ParseInt(s)
	if n == nil || *n <= 0 {
		return nil
	}
	return n
}
