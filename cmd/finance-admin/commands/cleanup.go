package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-sessions",
		Short: "Delete expired user and admin sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			result, err := env.services.Sessions.CleanupExpired(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions and %d admin sessions\n", result.Sessions, result.AdminSessions)
			return nil
		},
	}
}
