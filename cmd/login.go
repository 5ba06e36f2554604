package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"contestctl/internal/adapters/browser"
	"contestctl/internal/application"
	"contestctl/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var platformName string
	var username string
	var useBrowser bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log into a platform and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.platform(cmd.Context(), platformName)
			if err != nil {
				return err
			}

			if p.Session().IsValid(cmd.Context()) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Already logged into %s\n", p.Name())
				return err
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				username, err = readLine(reader)
				if err != nil {
					return err
				}
			}
			password, err := readPassword(cmd, reader)
			if err != nil {
				return err
			}
			defer wipe(password)

			attempt := func() error {
				return loginAttempt(cmd.Context(), p, username, password)
			}

			err = attempt()
			if errors.Is(err, domain.ErrRobotCheck) && useBrowser {
				err = loginThroughBrowser(cmd, app, attempt, reader)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged into %s\n", p.Name())
			return err
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	cmd.Flags().StringVar(&username, "username", "", "Username (prompted when omitted)")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Open a browser to solve a robot check, then retry")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

// loginAttempt hands Login a copy of the secret. Login scrubs the slice it
// is given, so the caller's copy survives for a retry and is wiped once the
// command is done with it.
func loginAttempt(ctx context.Context, p *application.Platform, username string, secret []byte) error {
	return p.Session().Login(ctx, username, append([]byte(nil), secret...))
}

// loginThroughBrowser starts a scoped browser so the user can solve the
// anti-automation challenge, then retries the login exactly once.
func loginThroughBrowser(cmd *cobra.Command, app *app, retry func() error, reader *bufio.Reader) error {
	handle, err := browser.Start(cmd.Context(), browser.Options{Binary: app.cfg.BrowserBinary})
	if err != nil {
		return fmt.Errorf("start browser for robot check: %w", err)
	}
	defer func() { _ = handle.Stop() }()

	fmt.Fprintf(cmd.OutOrStdout(),
		"A robot check is blocking the login. Solve it in the opened browser, then press Enter to retry.\n")
	if _, err := readLine(reader); err != nil {
		return err
	}

	return retry()
}

func newLogoutCmd(app *app) *cobra.Command {
	var platformName string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session for a platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.rawPlatform(platformName)
			if err != nil {
				return err
			}
			// Idempotent: logging out without a session still succeeds.
			p.Session().Logout(cmd.Context())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged out from %s\n", p.Name())
			return err
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform name")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword keeps the secret out of immutable strings so it can be zeroed
// after use. Terminal input is read without echo; anything else falls back
// to a plain line read.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) ([]byte, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return secret, nil
	}

	line, err := reader.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return bytes.TrimSpace(line), nil
}

func wipe(secret []byte) {
	for i := range secret {
		secret[i] = 0
	}
}
