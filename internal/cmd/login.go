package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scenetic/cli/internal/auth"
	"github.com/scenetic/cli/internal/config"
)

// credentials prompts for an email and a password. The password is read
// without echo when in is a terminal.
func credentials(in io.Reader, out io.Writer) (string, string, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Fprint(out, "password: ")
	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	} else {
		line, _ := reader.ReadString('\n')
		password = strings.TrimRight(line, "\r\n")
	}

	if email == "" || password == "" {
		return "", "", auth.ErrMissingCredentials
	}
	return email, password, nil
}

// RunInteractiveLogin prompts for credentials, signs in, and persists the session.
func RunInteractiveLogin(ctx context.Context, env *Env, in io.Reader, out io.Writer) error {
	if err := env.RequireAccounts(); err != nil {
		return err
	}
	email, password, err := credentials(in, out)
	if err != nil {
		return err
	}

	session, err := env.Identity.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := env.Config.SetSession(session); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in as %s\n", session.Email)
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// RunInteractiveRegister creates an account and asks the user to verify it.
func RunInteractiveRegister(ctx context.Context, env *Env, in io.Reader, out io.Writer) error {
	if err := env.RequireAccounts(); err != nil {
		return err
	}
	email, password, err := credentials(in, out)
	if err != nil {
		return err
	}
	if err := env.Identity.SignUp(ctx, email, password); err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	fmt.Fprintf(out, "verification email sent to %s\n", email)
	fmt.Fprintln(out, "verify it, then run 'scenetic login'")
	return nil
}

// LoginCmd returns the `scenetic login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to your Scenetic account",
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			return RunInteractiveLogin(c.Context(), env, c.InOrStdin(), c.OutOrStdout())
		},
	}
}

// RegisterCmd returns the `scenetic register` command.
func RegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a Scenetic account",
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			return RunInteractiveRegister(c.Context(), env, c.InOrStdin(), c.OutOrStdout())
		},
	}
}

// LogoutCmd returns the `scenetic logout` command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			if env.Config.Session == nil {
				fmt.Fprintln(c.OutOrStdout(), "not logged in")
				return nil
			}
			if err := env.Identity.SignOut(c.Context()); err != nil {
				return err
			}
			if err := env.Config.SetSession(nil); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(c.OutOrStdout(), "logged out")
			return nil
		},
	}
}
