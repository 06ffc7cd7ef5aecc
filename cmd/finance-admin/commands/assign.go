package commands

import (
	"errors"
	"fmt"
	"strings"

	groupdomain "finance-app-go/internal/domain/group"
	"github.com/spf13/cobra"
)

func newAssignCommand() *cobra.Command {
	var (
		username string
		groupID  int64
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Add a user to a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" || groupID <= 0 {
				return fmt.Errorf("both --user and --group are required")
			}

			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			account, err := env.services.Users.GetByUsername(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("find user %s: %w", username, err)
			}

			_, err = env.services.Groups.AssignUser(cmd.Context(), account.ID, groupID)
			if errors.Is(err, groupdomain.ErrAlreadyMember) {
				fmt.Fprintf(cmd.OutOrStdout(), "User %s is already in group %d\n", account.Username, groupID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("assign: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %s added to group %d\n", account.Username, groupID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().Int64VarP(&groupID, "group", "g", 0, "group id")
	return cmd
}
