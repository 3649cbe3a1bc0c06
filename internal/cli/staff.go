package cli

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCreateStaffCmd() *cobra.Command {
	var (
		username string
		password string
		isStaff  bool
	)
	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create an account that can sign in to the management API",
		Example: `  lander create-staff --username admin
  lander create-staff --username ops --password "$OPS_PASSWORD"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = promptNewPassword()
				if err != nil {
					return err
				}
			}

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			u, err := rt.svc.Auth.CreateStaff(cmd.Context(), username, password, isStaff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %s, staff %t)\n", u.Username, u.ID, u.IsStaff)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password; prompted for when omitted")
	cmd.Flags().BoolVar(&isStaff, "staff", true, "grant access to the management API")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func promptNewPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}
	first, err := readPassword("Password: ")
	if err != nil {
		return "", err
	}
	second, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

// readPassword reads a line from stdin without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
