package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/chessclub/internal/api/response"
)

func newRegistrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registrations",
		Short: "Registration listing commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <eventID>",
		Short: "List an event's registrations, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Registration
			if err := client.Get("/api/v1/events/"+pathEscape(args[0])+"/registrations", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	return cmd
}
