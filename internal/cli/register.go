package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mcoot/chessclub/internal/api/request"
	"github.com/mcoot/chessclub/internal/api/response"
)

// registerOptions are the answers to each registration step
type registerOptions struct {
	eventID     string
	memberID    string
	contact     request.ContactRequest
	sectionID   string
	byes        []int
	acceptTerms bool
}

func newRegisterCmd() *cobra.Command {
	var opts registerOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a player for an event",
		Long: `Register a USCF member for a tournament by completing each registration
step in order: player, contact details, section, bye requests and terms.

When --section is omitted the event's first section is chosen.`,
		Example: `  chessreg register --event winter-open --member 12345678 \
    --email john@example.com --section u1600 --bye 2 --accept-terms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.acceptTerms {
				return errors.New("the tournament terms must be accepted with --accept-terms")
			}

			wiz, err := register(opts)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(wiz)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.eventID, "event", "", "Event ID (required)")
	cmd.Flags().StringVar(&opts.memberID, "member", "", "USCF member ID (required)")
	cmd.Flags().StringVar(&opts.contact.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.contact.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&opts.contact.Street, "street", "", "Street address")
	cmd.Flags().StringVar(&opts.contact.City, "city", "", "City")
	cmd.Flags().StringVar(&opts.contact.State, "state", "", "State")
	cmd.Flags().StringVar(&opts.contact.Zip, "zip", "", "ZIP code")
	cmd.Flags().StringVar(&opts.contact.NotificationPreference, "notify", "email", "Notifications: email, text, both, none")
	cmd.Flags().StringVar(&opts.sectionID, "section", "", "Section ID")
	cmd.Flags().IntSliceVar(&opts.byes, "bye", nil, "Round to request a bye for (repeatable)")
	cmd.Flags().BoolVar(&opts.acceptTerms, "accept-terms", false, "Accept the tournament terms")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// register drives a registration session through every step and submits it
func register(opts registerOptions) (response.Wizard, error) {
	var wiz response.Wizard

	// Each request toggles a bye, so repeated rounds are collapsed
	slices.Sort(opts.byes)
	opts.byes = slices.Compact(opts.byes)

	if opts.sectionID == "" {
		var event response.EventDetail
		if err := client.Get("/api/v1/events/"+pathEscape(opts.eventID), &event); err != nil {
			return wiz, err
		}
		if len(event.Sections) > 0 {
			opts.sectionID = event.Sections[0].ID
		}
	}

	if err := client.Post("/api/v1/events/"+pathEscape(opts.eventID)+"/wizards", nil, &wiz); err != nil {
		return wiz, err
	}
	base := "/api/v1/wizards/" + pathEscape(wiz.ID)

	steps := []struct {
		name string
		run  func() error
	}{
		{"player", func() error {
			return client.Post(base+"/player", request.SelectPlayerRequest{MemberID: opts.memberID}, &wiz)
		}},
		{"contact", func() error {
			return client.Put(base+"/contact", opts.contact, &wiz)
		}},
		{"section", func() error {
			return client.Put(base+"/section", request.SectionRequest{SectionID: opts.sectionID}, &wiz)
		}},
		{"byes", func() error {
			for _, round := range opts.byes {
				if err := client.Post(fmt.Sprintf("%s/byes/%d", base, round), nil, &wiz); err != nil {
					return err
				}
			}
			return client.Post(base+"/byes/continue", nil, &wiz)
		}},
		{"terms", func() error {
			return client.Put(base+"/terms", request.TermsRequest{Accepted: opts.acceptTerms}, &wiz)
		}},
		{"submit", func() error {
			return client.Post(base+"/submit", nil, &wiz)
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return wiz, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return wiz, nil
}
