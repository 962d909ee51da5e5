package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"venue-cli/form"
	"venue-cli/session"

	"github.com/spf13/cobra"
)

type signInOptions struct {
	email    string
	password string
	authFile string
}

func signInCmd(a *App) *cobra.Command {
	opts := signInOptions{}
	authFileDefault := os.Getenv("VENUE_AUTH_FILE")

	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSignIn(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password")
	cmd.Flags().StringVar(&opts.authFile, "auth-file", authFileDefault, "Load credentials from file (default: $VENUE_AUTH_FILE)")
	return routed(cmd, session.RouteSignIn)
}

func (a *App) runSignIn(cmd *cobra.Command, opts signInOptions) error {
	if err := a.openSession(); err != nil {
		return err
	}

	if opts.authFile != "" {
		fileEmail, filePassword, err := readAuthFile(opts.authFile)
		if err != nil {
			return err
		}
		if opts.email == "" {
			opts.email = fileEmail
		}
		if opts.password == "" {
			opts.password = filePassword
		}
	}

	p := newPrompter(cmd)
	if opts.email == "" {
		value, err := p.line("Email: ")
		if err != nil {
			return err
		}
		opts.email = value
	}
	if opts.password == "" {
		value, err := p.secret("Password: ")
		if err != nil {
			return err
		}
		opts.password = value
	}

	f := form.SignIn{Email: opts.email, Password: opts.password}
	if err := f.Validate(); err != nil {
		return err
	}

	if _, err := a.Client.Login(cmd.Context(), f.Email, f.Password); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", f.Email)
	return nil
}

func signOutCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-out",
		Short: "Sign out and clear the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	return routed(cmd, "sign-out")
}

type statusOutput struct {
	SignedIn bool               `json:"signed_in"`
	Token    *session.TokenInfo `json:"token,omitempty"`
	Expired  bool               `json:"expired,omitempty"`
}

func statusCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := statusOutput{SignedIn: a.Session.Authenticated()}
			if info, ok := session.DescribeToken(a.Session.CurrentToken()); ok {
				out.Token = &info
				out.Expired = info.ExpiresAt != nil && info.ExpiresAt.Before(a.Now())
			}

			if a.outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			if out.Token == nil {
				fmt.Fprintln(w, "Signed in.")
				return nil
			}
			if a.outputCompact {
				fmt.Fprintf(w, "signed-in %s %s\n", out.Token.Email, out.Token.Role)
				return nil
			}

			tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "Signed in.")
			if out.Token.Email != "" {
				fmt.Fprintf(tw, "Email:\t%s\n", out.Token.Email)
			}
			if out.Token.Subject != "" {
				fmt.Fprintf(tw, "User:\t%s\n", out.Token.Subject)
			}
			if out.Token.Role != "" {
				fmt.Fprintf(tw, "Role:\t%s\n", out.Token.Role)
			}
			if out.Token.ExpiresAt != nil {
				label := out.Token.ExpiresAt.Local().Format(time.RFC1123)
				if out.Expired {
					label += " (expired)"
				}
				fmt.Fprintf(tw, "Expires:\t%s\n", label)
			}
			return tw.Flush()
		},
	}
	return routed(cmd, "status")
}

func readAuthFile(path string) (string, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var email string
	var password string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "[username]", "[email]":
			if scanner.Scan() {
				email = strings.TrimSpace(scanner.Text())
			}
		case "[password]":
			if scanner.Scan() {
				password = strings.TrimSpace(scanner.Text())
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	return email, password, nil
}
