package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/reiharu06171214-ux/giftlog/internal/ledger"
	"github.com/reiharu06171214-ux/giftlog/internal/models"
	"github.com/reiharu06171214-ux/giftlog/internal/query"
)

// giftForm holds the gift form fields as submitted, so an invalid post can
// be shown again unchanged.
type giftForm struct {
	Title         string
	Memo          string
	GiverID       string
	CategoryID    string
	ReceivedDate  string
	ThankYouSent  bool
	ReturnDueDate string
	ReturnDone    bool
	Amount        string
}

func readGiftForm(r *http.Request) giftForm {
	return giftForm{
		Title:         strings.TrimSpace(r.PostFormValue("title")),
		Memo:          strings.TrimSpace(r.PostFormValue("memo")),
		GiverID:       r.PostFormValue("giver_id"),
		CategoryID:    r.PostFormValue("category_id"),
		ReceivedDate:  r.PostFormValue("received_date"),
		ThankYouSent:  r.PostFormValue("thank_you_sent") == "on",
		ReturnDueDate: r.PostFormValue("return_due_date"),
		ReturnDone:    r.PostFormValue("return_done") == "on",
		Amount:        r.PostFormValue("amount"),
	}
}

func giftFormFrom(g *models.Gift) giftForm {
	f := giftForm{
		Title:        g.Title,
		Memo:         g.Memo,
		GiverID:      optInt(g.GiverID),
		CategoryID:   optInt(g.CategoryID),
		ReceivedDate: formatDate(g.ReceivedDate),
		ThankYouSent: g.ThankYouSent,
		ReturnDone:   g.ReturnDone,
		Amount:       optInt(g.Amount),
	}
	if g.ReturnDueDate != nil {
		f.ReturnDueDate = formatDate(g.ReturnDueDate)
	}
	return f
}

// input converts the form. Malformed numbers and dates become absent.
func (f giftForm) input() ledger.GiftInput {
	return ledger.GiftInput{
		Title:         f.Title,
		Memo:          f.Memo,
		GiverID:       query.ParseInt(f.GiverID),
		CategoryID:    query.ParseInt(f.CategoryID),
		ReceivedDate:  models.ParseDate(f.ReceivedDate),
		ThankYouSent:  f.ThankYouSent,
		ReturnDueDate: models.ParseDate(f.ReturnDueDate),
		ReturnDone:    f.ReturnDone,
		Amount:        query.ParseAmount(f.Amount),
	}
}

// selects reports whether id is the option chosen in value.
func selects(value string, id int64) bool {
	return value == strconv.FormatInt(id, 10)
}
