package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/mcoot/chessclub/internal/api/response"
	"github.com/mcoot/chessclub/internal/format"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	case []response.Event:
		o.printEvents(v)
	case response.EventDetail:
		o.printEventDetail(v)
	case []response.Candidate:
		o.printCandidates(v)
	case response.Candidate:
		o.printCandidate(v)
	case response.Wizard:
		o.printWizard(v)
	case []response.Registration:
		o.printRegistrations(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(f string, args ...any) {
	_, _ = fmt.Fprintf(o.w, f, args...)
}

func (o *Output) printEvents(events []response.Event) {
	if len(events) == 0 {
		o.printf("No upcoming events\n")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tTITLE\tREGISTRATION")
	for _, e := range events {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.EventDate.Format("2006-01-02"), e.Title, e.RegistrationStatus)
	}
	_ = tw.Flush()
}

func (o *Output) printEventDetail(e response.EventDetail) {
	o.printf("Event: %s (%s)\n", e.Title, e.ID)
	o.printf("Date: %s\n", format.EventDate(e.EventDate))
	if e.Location != "" {
		o.printf("Location: %s\n", e.Location)
	}
	if e.TimeControl != "" {
		o.printf("Time control: %s\n", e.TimeControl)
	}
	if e.EntryFee != "" {
		o.printf("Entry fee: %s\n", e.EntryFee)
	}
	o.printf("Rounds: %d\n", e.Rounds)
	o.printf("Registration: %s\n", e.RegistrationStatus)
	o.printf("Sections (%d):\n", len(e.Sections))
	for _, s := range e.Sections {
		id := s.ID
		if id == "" {
			id = "-"
		}
		o.printf("  - %s: %s%s%s\n", id, s.Name, feeSuffix(s.EntryFee), bandSuffix(s.MinRating, s.MaxRating))
	}
}

func feeSuffix(fee string) string {
	if fee == "" {
		return ""
	}
	return " (" + fee + ")"
}

func bandSuffix(minRating, maxRating *int) string {
	switch {
	case minRating != nil && maxRating != nil:
		return fmt.Sprintf(" [%d-%d]", *minRating, *maxRating)
	case minRating != nil:
		return fmt.Sprintf(" [%d+]", *minRating)
	case maxRating != nil:
		return fmt.Sprintf(" [under %d]", *maxRating)
	default:
		return ""
	}
}

func (o *Output) printCandidates(cs []response.Candidate) {
	if len(cs) == 0 {
		o.printf("No players found\n")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MEMBER ID\tNAME\tSTATE\tRATING\tEXPIRES")
	for _, c := range cs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.MemberID, c.Name, format.OrNone(c.State), format.Rating(c.Rating), format.ExpirationDate(c.ExpirationDate))
	}
	_ = tw.Flush()
}

func (o *Output) printCandidate(c response.Candidate) {
	o.printf("Player: %s (%s)\n", c.Name, c.MemberID)
	if c.Title != "" {
		o.printf("Title: %s\n", c.Title)
	}
	o.printf("State: %s\n", format.OrNone(c.State))
	o.printf("Rating: %s\n", format.Rating(c.Rating))
	o.printf("Membership expires: %s\n", format.ExpirationDate(c.ExpirationDate))
}

func (o *Output) printWizard(w response.Wizard) {
	d := w.Draft
	if w.RegistrationID != "" {
		o.printf("Registration complete: %s\n", w.RegistrationID)
	} else {
		o.printf("Session: %s (step %d: %s)\n", w.ID, w.Step, w.StepTitle)
	}
	o.printf("Event: %s\n", w.EventID)
	if d.PlayerID != "" {
		o.printf("Player: %s (%s) • Rating: %s\n", d.PlayerName, d.PlayerID, format.Rating(d.Rating))
	}
	if d.Email != "" {
		o.printf("Email: %s\n", d.Email)
	}
	if d.SectionName != "" {
		o.printf("Section: %s\n", d.SectionName)
	}
	o.printf("%s\n", format.ByeSummary(d.ByeRounds))
	if w.SubmitError != "" {
		o.printf("Error: %s\n", w.SubmitError)
	}
}

func (o *Output) printRegistrations(regs []response.Registration) {
	if len(regs) == 0 {
		o.printf("No registrations\n")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tPLAYER\tMEMBER ID\tRATING\tSECTION\tBYES\tREGISTERED")
	for _, r := range regs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.PlayerName, r.PlayerID, format.Rating(r.Rating), format.OrNone(r.SectionID),
			format.OrNone(strings.ReplaceAll(r.ByeRounds, ",", ", ")), r.RegisteredAt.Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}
