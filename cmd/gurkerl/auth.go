package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}
	cmd.AddCommand(newLoginCmd(a), newLogoutCmd(a), newWhoamiCmd(a))
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: "Log in to gurkerl.at. Without --email the stored credentials are used " +
			"(keychain, .env file, then GURKERL_EMAIL/GURKERL_PASSWORD); otherwise the " +
			"password is prompted for or read from stdin.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if email == "" && !passwordStdin {
				sess, cred, err := a.auth.LoginResolved(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Logged in as %s (credentials from %s)\n", sess.Email, cred.Source)
				fmt.Fprintf(a.out, "Session expires: %s\n", sess.ExpiresAt.Format("2006-01-02"))
				return nil
			}

			if email == "" {
				var err error
				if email, err = a.prompt("Email"); err != nil {
					return err
				}
			}
			password, err := a.readPassword(passwordStdin)
			if err != nil {
				return err
			}
			sess, err := a.auth.Login(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", sess.Email)
			fmt.Fprintf(a.out, "Session expires: %s\n", sess.ExpiresAt.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

// readPassword reads without echo on a terminal and a plain line otherwise.
func (a *app) readPassword(fromStdin bool) (string, error) {
	if f, ok := stdinFile(a.stdin); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.errOut, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", usageError{fmt.Errorf("password required: %w", err)}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.auth.Logout(); err != nil {
				return err
			}
			if forget {
				if err := a.keychain.Forget(); err != nil {
					a.logger.Warn("could not remove keychain credentials", "error", err)
				}
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "forget", false, "Also remove credentials from the keychain")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := a.auth.Whoami()
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, map[string]any{
					"email":     sess.Email,
					"createdAt": sess.CreatedAt,
					"expiresAt": sess.ExpiresAt,
				})
			}
			who := sess.Email
			if who == "" {
				who = "unknown user"
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", who)
			fmt.Fprintf(a.out, "Session created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(a.out, "Session expires: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
