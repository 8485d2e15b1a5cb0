// Package format renders registration values for display.
package format

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcoot/chessclub/internal/model"
)

// NoRating is shown for players without a regular rating
const NoRating = "Unr."

// NoValue is shown for absent optional values
const NoValue = "-"

var printer = message.NewPrinter(language.AmericanEnglish)

// Fee formats a whole-dollar amount, e.g. "$40" or "$1,000"
func Fee(dollars int) string {
	return printer.Sprintf("$%d", dollars)
}

// SectionFee returns the section's fee, or the event-level entry fee when the
// section has none
func SectionFee(section *model.Section, event *model.Event) string {
	if section != nil && section.EntryFee != nil {
		return Fee(*section.EntryFee)
	}
	if event != nil {
		return event.EntryFee
	}
	return ""
}

// DraftFee returns the fee recorded for the chosen section, falling back to the event fee
func DraftFee(draft *model.Draft, event *model.Event) string {
	if draft.SectionFee != nil {
		return Fee(*draft.SectionFee)
	}
	if event != nil {
		return event.EntryFee
	}
	return ""
}

// Rating formats a rating, or "Unr." when absent
func Rating(rating *int) string {
	if rating == nil || *rating == 0 {
		return NoRating
	}
	return strconv.Itoa(*rating)
}

// ExpirationDate formats a membership expiration date ("2006-01-02") as
// "Jan 2, 2026". Absent dates render as "-"; unparseable ones are returned as given.
func ExpirationDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return NoValue
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// EventDate formats an event date for listings, e.g. "Saturday, March 2, 2024"
func EventDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// OrNone returns the value, or "-" when it is empty
func OrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoValue
	}
	return s
}

// PlayerSummary is the collapsed player step line,
// e.g. "John Smith (12345678) • Rating: 1500"
func PlayerSummary(draft *model.Draft) string {
	return draft.PlayerName + " (" + draft.PlayerID + ") • Rating: " + Rating(draft.Rating)
}

// ContactSummary is the collapsed contact step line, e.g. "john@example.com • 555-0100"
func ContactSummary(draft *model.Draft) string {
	if draft.Phone == "" {
		return draft.Email
	}
	return draft.Email + " • " + draft.Phone
}

// SectionSummary is the collapsed section step line, e.g. "Open Section • $40"
func SectionSummary(draft *model.Draft) string {
	name := draft.DisplaySectionName()
	if draft.SectionFee == nil || *draft.SectionFee == 0 {
		return name
	}
	return name + " • " + Fee(*draft.SectionFee)
}

// ByeSummary is the collapsed bye step line, e.g. "Byes requested: Rounds 1, 3"
func ByeSummary(byes model.ByeRounds) string {
	s, ok := byes.Serialize()
	if !ok {
		return "No byes requested"
	}
	label := "Round"
	if len(byes) > 1 {
		label = "Rounds"
	}
	return "Byes requested: " + label + " " + strings.ReplaceAll(s, ",", ", ")
}
