package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/evidenthq/evident/internal/cli/formatter"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, pw, err := resolveCredentials(args, password)
			if err != nil {
				return err
			}
			if err := app.Session.Login(context.Background(), email, pw); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", formatter.Bold(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register [email]",
		Short: "Create an account and sign in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, pw, err := resolveCredentials(args, password)
			if err != nil {
				return err
			}
			if err := app.Session.Register(context.Background(), email, pw); err != nil {
				return err
			}
			fmt.Printf("Account created for %s\n", formatter.Bold(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout(context.Background())
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.RefreshUser(context.Background()); err != nil {
				return err
			}
			sess := app.Session.Snapshot()
			if !sess.Authenticated() {
				fmt.Println(formatter.Dim("Not signed in. Run 'evident login' first."))
				return nil
			}
			u := sess.User
			fmt.Printf("%s\n", formatter.Bold(u.Email))
			fmt.Printf("  subscription: %s\n", u.SubscriptionStatus)
			fmt.Printf("  exports:      %d\n", u.ExportCount)
			return nil
		},
	}
}

// resolveCredentials derives an email from args or an interactive prompt,
// and a password from the flag or a no-echo terminal prompt.
func resolveCredentials(args []string, passwordFlag string) (string, string, error) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Print("Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	password := passwordFlag
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	return email, password, nil
}
