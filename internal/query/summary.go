package query

import (
	"sort"

	"github.com/reiharu06171214-ux/giftlog/internal/models"
)

// Summary holds the aggregates of a filtered gift list. Gifts without an
// amount contribute to none of them.
type Summary struct {
	// Total is the sum of present amounts, 0 when there are none.
	Total int64

	// Average is the mean of present amounts rounded half to even, nil when
	// there are none.
	Average *int64

	// CategoryTotals maps a category name to the sum of amounts of gifts in
	// that category. Gifts without a category are left out.
	CategoryTotals map[string]int64
}

// CategoryTotal is one entry of Summary.CategoryTotals.
type CategoryTotal struct {
	Name  string
	Total int64
}

// Summarize computes the aggregates over gifts.
func Summarize(gifts []models.Gift) Summary {
	s := Summary{CategoryTotals: make(map[string]int64)}

	var count int64
	for i := range gifts {
		g := &gifts[i]
		if g.Amount == nil {
			continue
		}
		s.Total += *g.Amount
		count++
		if g.Category != nil {
			s.CategoryTotals[g.Category.Name] += *g.Amount
		}
	}

	if count > 0 {
		avg := divRoundHalfEven(s.Total, count)
		s.Average = &avg
	}
	return s
}

// divRoundHalfEven divides in integers, rounding ties to the even quotient.
func divRoundHalfEven(total, count int64) int64 {
	q, r := total/count, total%count
	if r == 0 {
		return q
	}
	sign := int64(1)
	if r < 0 {
		sign, r = -1, -r
	}
	switch twice := 2 * r; {
	case twice > count, twice == count && q%2 != 0:
		q += sign
	}
	return q
}

// Categories returns the category totals ordered by name.
func (s Summary) Categories() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(s.CategoryTotals))
	for name, total := range s.CategoryTotals {
		out = append(out, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
