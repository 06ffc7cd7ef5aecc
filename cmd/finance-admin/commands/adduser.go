package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	authdomain "finance-app-go/internal/domain/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAddUserCommand() *cobra.Command {
	var (
		username string
		password string
		isAdmin  bool
		groupID  int64
	)

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user, prompting for the password when it is not given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" {
				return fmt.Errorf("missing required flag: --user")
			}

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			env, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			input := authdomain.CreateUserInput{
				Username: username,
				Password: password,
				IsAdmin:  isAdmin,
			}
			if groupID > 0 {
				input.GroupID = &groupID
			}

			created, err := env.services.Auth.CreateUser(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %s created with ID %d\n", created.Username, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "grant admin privileges")
	cmd.Flags().Int64VarP(&groupID, "group", "g", 0, "add the user to this group")
	return cmd
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
