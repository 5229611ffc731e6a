// Package calendar renders return obligations as an iCalendar document.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/reiharu06171214-ux/giftlog/internal/models"
)

const (
	// ContentType is the media type of a rendered feed.
	ContentType = "text/calendar; charset=utf-8"

	// Filename is the suggested download name.
	Filename = "giftlog.ics"

	crlf = "\r\n"
)

var header = []string{
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//GiftLog//EN",
	"CALSCALE:GREGORIAN",
	"METHOD:PUBLISH",
}

// Escape escapes text for a SUMMARY or DESCRIPTION value. Backslash must be
// replaced first so later substitutions are not escaped twice.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, ";", `\;`)
	return s
}

// EventUID returns the stable event identifier for a gift.
func EventUID(giftID int64) string {
	return fmt.Sprintf("giftlog-%d@local", giftID)
}

// Build renders one all-day event per gift, in the order given, stamped
// with stamp. Gifts without a return-due date are skipped.
func Build(gifts []models.Gift, stamp time.Time) string {
	lines := make([]string, 0, len(header)+len(gifts)*8+1)
	lines = append(lines, header...)

	dtstamp := stamp.UTC().Format("20060102T150405Z")
	for i := range gifts {
		g := &gifts[i]
		if g.ReturnDueDate == nil {
			continue
		}
		due := g.ReturnDueDate.Format("20060102")
		summary := "Return gift: " + g.Title
		desc := fmt.Sprintf("Giver: %s / Category: %s", g.GiverName(), g.CategoryName())

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+EventUID(g.ID),
			"DTSTAMP:"+dtstamp,
			"SUMMARY:"+Escape(summary),
			"DESCRIPTION:"+Escape(desc),
			"DTSTART;VALUE=DATE:"+due,
			"DTEND;VALUE=DATE:"+due,
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, crlf)
}
