package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/chessclub/internal/format"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/services/ratings"
	"github.com/mcoot/chessclub/internal/web/templates/markup"
)

// WizardView is everything needed to render a wizard session
type WizardView struct {
	Wizard    *model.Wizard
	Event     *model.Event
	Sections  []model.Section
	TermsHTML string
	Error     string // Inline message for the active step
}

// RegisterPath returns the base path of an event's registration wizard
func RegisterPath(eventID model.EventID) string {
	return "/events/" + string(eventID) + "/register"
}

// Wizard renders the #wizard container: visible steps, or the confirmation once submitted
func Wizard(v WizardView) templ.Component {
	return markup.Func(func(ctx context.Context, m *markup.Writer) {
		w := v.Wizard
		m.Rawf(`<div id="wizard" class="wizard" hx-target="#wizard" hx-swap="outerHTML" data-step="%d">`, w.Step)
		if w.IsSubmitted() {
			m.Component(ctx, Confirmation(v))
			m.Raw(`</div>`)
			return
		}
		for _, step := range model.WizardSteps {
			if !w.IsVisible(step) {
				continue
			}
			if w.IsActive(step) {
				activeStep(ctx, m, v, step)
			} else {
				collapsedStep(m, w, step)
			}
		}
		m.Raw(`</div>`)
	})
}

func stepHeader(m *markup.Writer, step model.Step) {
	m.Rawf(`<div class="step-header"><span class="step-number">%d</span><h2>`, step)
	m.Text(step.Title())
	m.Raw(`</h2></div>`)
}

// postForm opens a form that posts to the wizard, with htmx and plain fallbacks
func postForm(m *markup.Writer, action, class string) {
	m.Raw(`<form method="post" action="`)
	m.Text(action)
	m.Raw(`" hx-post="`)
	m.Text(action)
	m.Raw(`"`)
	if class != "" {
		m.Raw(` class="`)
		m.Text(class)
		m.Raw(`"`)
	}
	m.Raw(`>`)
}

func collapsedStep(m *markup.Writer, w *model.Wizard, step model.Step) {
	base := RegisterPath(w.EventID)
	m.Rawf(`<section id="step-%d" class="step step-collapsed" data-step="%d">`, step, step)
	stepHeader(m, step)
	m.Raw(`<p class="step-summary">`)
	m.Text(stepSummary(w, step))
	m.Raw(`</p>`)
	switch {
	case step == model.StepPlayer:
		postForm(m, base+"/player/clear", "step-edit")
		m.Raw(`<button type="submit" class="btn btn-link">Change</button></form>`)
	case w.CanReopen(step):
		postForm(m, base+"/steps/"+strconv.Itoa(int(step))+"/edit", "step-edit")
		m.Raw(`<button type="submit" class="btn btn-link">Edit</button></form>`)
	}
	m.Raw(`</section>`)
}

func stepSummary(w *model.Wizard, step model.Step) string {
	d := &w.Draft
	switch step {
	case model.StepPlayer:
		return format.PlayerSummary(d)
	case model.StepContact:
		return format.ContactSummary(d)
	case model.StepSection:
		return format.SectionSummary(d)
	case model.StepByes:
		return format.ByeSummary(d.ByeRounds)
	case model.StepTerms:
		if d.AcceptedTerms {
			return "Terms accepted"
		}
		return "Terms not yet accepted"
	default:
		return ""
	}
}

func activeStep(ctx context.Context, m *markup.Writer, v WizardView, step model.Step) {
	m.Rawf(`<section id="step-%d" class="step step-active" data-step="%d">`, step, step)
	stepHeader(m, step)
	if v.Error != "" {
		m.Raw(`<p class="form-error" role="alert">`)
		m.Text(v.Error)
		m.Raw(`</p>`)
	}
	switch step {
	case model.StepPlayer:
		playerStep(ctx, m, v.Wizard)
	case model.StepContact:
		contactStep(m, v.Wizard)
	case model.StepSection:
		sectionStep(m, v)
	case model.StepByes:
		byeStep(m, v)
	case model.StepTerms:
		termsStep(m, v)
	}
	m.Raw(`</section>`)
}

func playerStep(ctx context.Context, m *markup.Writer, w *model.Wizard) {
	base := RegisterPath(w.EventID)
	m.Raw(`<p class="step-help">Search by name or USCF ID.</p>`)
	postForm(m, base+"/search", "player-search")
	m.Raw(`<input type="search" name="query" autocomplete="off" placeholder="e.g. Smith or 12345678" value="`)
	m.Text(w.Search.Query)
	m.Raw(`" hx-post="`)
	m.Text(base + "/search")
	m.Raw(`" hx-trigger="input changed, search" hx-target="#search-results" hx-swap="outerHTML">`)
	m.Raw(`<noscript><button type="submit" class="btn">Search</button></noscript></form>`)
	m.Component(ctx, SearchResults(w, false))
}

// SearchResults renders the #search-results fragment. With oob set it is
// marked for an out-of-band swap, as pushed over the session's event stream.
func SearchResults(w *model.Wizard, oob bool) templ.Component {
	return markup.Func(func(ctx context.Context, m *markup.Writer) {
		s := &w.Search
		m.Raw(`<div id="search-results" class="search-results" aria-live="polite"`)
		if oob {
			m.Raw(` hx-swap-oob="true"`)
		}
		m.Raw(`>`)
		switch {
		case s.Searching:
			m.Raw(`<p class="search-status">Searching...</p>`)
		case !validQuery(s.Query):
			if s.Query != "" {
				m.Raw(`<p class="search-hint">Type at least 2 characters to search.</p>`)
			}
		case len(s.Results) == 0:
			m.Raw(`<p class="search-empty">No players found for &quot;`)
			m.Text(s.Query)
			m.Raw(`&quot;.</p>`)
		default:
			candidateList(m, w)
		}
		m.Raw(`</div>`)
	})
}

func validQuery(q string) bool {
	_, ok := ratings.NormalizeQuery(q)
	return ok
}

func candidateList(m *markup.Writer, w *model.Wizard) {
	base := RegisterPath(w.EventID)
	m.Raw(`<ul class="candidates">`)
	for i := range w.Search.Results {
		c := &w.Search.Results[i]
		m.Raw(`<li class="candidate" data-member-id="`)
		m.Text(c.ID)
		m.Raw(`">`)
		m.Raw(`<form method="post" action="`)
		m.Text(base + "/player")
		m.Raw(`" hx-post="`)
		m.Text(base + "/player")
		m.Raw(`" hx-target="#wizard" hx-swap="outerHTML"><input type="hidden" name="member_id" value="`)
		m.Text(c.ID)
		m.Raw(`"><button type="submit" class="candidate-select"><span class="candidate-name">`)
		m.Text(c.FullName())
		m.Raw(`</span> <span class="candidate-id">`)
		m.Text(c.ID)
		m.Raw(`</span> <span class="candidate-state">`)
		m.Text(format.OrNone(c.StateRep))
		m.Raw(`</span> <span class="candidate-rating">`)
		m.Text(format.Rating(c.RegularRating()))
		m.Raw(`</span> <span class="candidate-expiration">`)
		m.Text(format.ExpirationDate(c.ExpirationDate))
		m.Raw(`</span></button></form></li>`)
	}
	m.Raw(`</ul>`)
}

func textField(m *markup.Writer, name, label, kind, value string, required bool) {
	m.Raw(`<label class="field"><span>`)
	m.Text(label)
	m.Raw(`</span><input type="`)
	m.Text(kind)
	m.Raw(`" name="`)
	m.Text(name)
	m.Raw(`" value="`)
	m.Text(value)
	m.Raw(`"`)
	if required {
		m.Raw(` required`)
	}
	m.Raw(`></label>`)
}

func contactStep(m *markup.Writer, w *model.Wizard) {
	d := &w.Draft
	postForm(m, RegisterPath(w.EventID)+"/contact", "contact-form")
	textField(m, "email", "Email", "email", d.Email, true)
	textField(m, "phone", "Phone", "tel", d.Phone, false)
	textField(m, "street", "Street address", "text", d.Address.Street, false)
	textField(m, "city", "City", "text", d.Address.City, false)
	textField(m, "state", "State", "text", d.Address.State, false)
	textField(m, "zip", "ZIP code", "text", d.Address.Zip, false)

	m.Raw(`<fieldset class="notification-preference"><legend>Notifications</legend>`)
	for _, p := range model.NotificationPreferences {
		m.Raw(`<label><input type="radio" name="notification_preference" value="`)
		m.Text(string(p))
		m.Raw(`"`)
		if d.NotificationPreference == p {
			m.Raw(` checked`)
		}
		m.Raw(`> `)
		m.Text(p.Label())
		m.Raw(`</label>`)
	}
	m.Raw(`</fieldset>`)
	m.Raw(`<button type="submit" class="btn btn-primary">Continue</button></form>`)
}

func sectionStep(m *markup.Writer, v WizardView) {
	w := v.Wizard
	d := &w.Draft
	base := RegisterPath(w.EventID)
	m.Raw(`<ul class="sections">`)
	for i := range v.Sections {
		sec := &v.Sections[i]
		class := "section-option"
		if d.SectionSelected && d.SectionID == sec.ID {
			class += " selected"
		}
		eligibility := sec.Eligibility(d.Rating)
		if eligibility == model.EligibilityOutside {
			class += " outside-band"
		}
		m.Raw(`<li class="`)
		m.Text(class)
		m.Raw(`" data-section-id="`)
		m.Text(string(sec.ID))
		m.Raw(`">`)
		postForm(m, base+"/section", "")
		m.Raw(`<input type="hidden" name="section_id" value="`)
		m.Text(string(sec.ID))
		m.Raw(`"><button type="submit" class="section-select"><span class="section-name">`)
		m.Text(sec.Name)
		m.Raw(`</span>`)
		if fee := format.SectionFee(sec, v.Event); fee != "" {
			m.Raw(` <span class="section-fee">`)
			m.Text(fee)
			m.Raw(`</span>`)
		}
		if band := sec.RatingBand(); band != "" {
			m.Raw(` <span class="section-band">`)
			m.Text(band)
			m.Raw(`</span>`)
		}
		if eligibility == model.EligibilityOutside {
			m.Raw(` <span class="eligibility-warning">Your rating is outside this section&#39;s band</span>`)
		}
		m.Raw(`</button></form></li>`)
	}
	m.Raw(`</ul>`)
}

func byeStep(m *markup.Writer, v WizardView) {
	w := v.Wizard
	base := RegisterPath(w.EventID)
	rounds := model.DefaultRoundCount
	if v.Event != nil {
		rounds = v.Event.Rounds()
	}
	m.Raw(`<p class="step-help">Select any rounds you cannot play. Byes are optional.</p><div class="bye-rounds">`)
	for round := 1; round <= rounds; round++ {
		selected := w.Draft.ByeRounds.Contains(round)
		class := "bye-round"
		if selected {
			class += " selected"
		}
		postForm(m, base+"/byes/"+strconv.Itoa(round), "")
		m.Rawf(`<button type="submit" class="%s" data-round="%d" aria-pressed="%t">Round %d</button></form>`,
			class, round, selected, round)
	}
	m.Raw(`</div><p class="bye-summary">`)
	m.Text(format.ByeSummary(w.Draft.ByeRounds))
	m.Raw(`</p>`)
	postForm(m, base+"/byes/continue", "")
	m.Raw(`<button type="submit" class="btn btn-primary">Continue</button></form>`)
}

func termsStep(m *markup.Writer, v WizardView) {
	w := v.Wizard
	base := RegisterPath(w.EventID)
	m.Raw(`<div class="terms">`)
	m.Raw(v.TermsHTML)
	m.Raw(`</div>`)

	m.Raw(`<form method="post" action="`)
	m.Text(base + "/terms")
	m.Raw(`" hx-post="`)
	m.Text(base + "/terms")
	m.Raw(`" hx-trigger="change" class="terms-form"><label><input type="checkbox" name="accepted" value="true"`)
	if w.Draft.AcceptedTerms {
		m.Raw(` checked`)
	}
	m.Raw(`> I have read and accept the tournament terms</label>`)
	m.Raw(`<noscript><button type="submit" class="btn">Save</button></noscript></form>`)

	if w.SubmitError != "" {
		m.Raw(`<p class="submit-error" role="alert">`)
		m.Text(w.SubmitError)
		m.Raw(`</p>`)
	}
	postForm(m, base+"/submit", "submit-form")
	switch {
	case w.Submitting:
		m.Raw(`<button type="submit" class="btn btn-primary" disabled>Submitting...</button>`)
	case w.CanSubmit():
		m.Raw(`<button type="submit" class="btn btn-primary">Complete Registration</button>`)
	default:
		m.Raw(`<button type="submit" class="btn btn-primary" disabled>Complete Registration</button>`)
	}
	m.Raw(`</form>`)
}

// Confirmation renders the submitted registration
func Confirmation(v WizardView) templ.Component {
	return markup.Func(func(ctx context.Context, m *markup.Writer) {
		w := v.Wizard
		d := &w.Draft
		m.Raw(`<section class="confirmation" data-registration-id="`)
		m.Text(string(w.RegistrationID))
		m.Raw(`"><h2>`)
		m.Text(model.StepSubmitted.Title())
		m.Raw(`</h2><p>Thank you, `)
		m.Text(d.PlayerName)
		m.Raw(`! You are registered`)
		if v.Event != nil {
			m.Raw(` for `)
			m.Text(v.Event.Title)
		}
		m.Raw(`.</p><dl class="confirmation-details">`)
		detail(m, "Registration ID", string(w.RegistrationID))
		detail(m, "Player", format.PlayerSummary(d))
		detail(m, "Email", d.Email)
		detail(m, "Section", d.DisplaySectionName())
		if fee := format.DraftFee(d, v.Event); fee != "" {
			detail(m, "Entry fee", fee)
		}
		detail(m, "Byes", format.ByeSummary(d.ByeRounds))
		m.Raw(`</dl>`)
		m.Raw(`<form method="post" action="`)
		m.Text(RegisterPath(w.EventID) + "/restart")
		m.Raw(`"><button type="submit" class="btn">Register another player</button></form>`)
		m.Raw(`</section>`)
	})
}

func detail(m *markup.Writer, term, value string) {
	m.Raw(`<dt>`)
	m.Text(term)
	m.Raw(`</dt><dd>`)
	m.Text(value)
	m.Raw(`</dd>`)
}
