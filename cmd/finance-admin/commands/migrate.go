package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and create the default group",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Database migrated (%s)\n", env.cfg.DB.Driver)
			return nil
		},
	}
}
