package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"library_backend/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword prompts on stderr and reads without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// promptNewPassword asks twice and requires both entries to match.
func promptNewPassword() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no terminal to prompt on; pass --password")
	}
	first, err := readPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	second, err := readPassword("Repeat password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

func newCreateAdminCmd(a *app) *cobra.Command {
	var acct service.AdminAccount
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: "Creates an account with the admin role. This is the only way to " +
			"obtain one; self-registration always yields a member.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if acct.Password == "" {
				pw, err := promptNewPassword()
				if err != nil {
					return err
				}
				acct.Password = pw
			}
			created, err := a.seeder().EnsureAdmin(cmd.Context(), acct)
			if err != nil {
				return err
			}
			return reportAdmin(cmd.OutOrStdout(), acct, created)
		},
	}
	cmd.Flags().StringVar(&acct.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&acct.Username, "username", "", "unique username (required)")
	cmd.Flags().StringVar(&acct.Name, "name", "", "display name")
	cmd.Flags().StringVar(&acct.Password, "password", "", "password; prompted for when omitted")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func reportAdmin(w io.Writer, acct service.AdminAccount, created bool) error {
	if !created {
		_, err := fmt.Fprintf(w, "An account with email %s or username %s already exists; nothing changed.\n",
			acct.Email, acct.Username)
		return err
	}
	_, err := fmt.Fprintf(w, "Admin %s <%s> created.\n", acct.Username, acct.Email)
	return err
}
