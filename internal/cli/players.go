package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/chessclub/internal/api/response"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "USCF member lookup commands",
	}

	cmd.AddCommand(newPlayersSearchCmd())
	cmd.AddCommand(newPlayersShowCmd())

	return cmd
}

func newPlayersSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search members by name or member ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Candidate
			if err := client.Get("/api/v1/players?query="+url.QueryEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <memberID>",
		Short: "Show a member's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Candidate
			if err := client.Get("/api/v1/players/"+pathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
