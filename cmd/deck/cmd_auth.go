package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"careerdeck/internal/career"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

// loginCmd exchanges credentials for a token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Logs in with email and password. The token is saved in the local store
and used by the interactive interface and every other command.

If --password is omitted it is read from stdin.`,
	RunE: withEnv(runLogin),
}

// signupCmd creates an account
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store the session token",
	RunE:  withEnv(runSignup),
}

// logoutCmd forgets the stored session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: withEnv(func(_ context.Context, e *env, _ []string) error {
		if err := e.local.ClearSession(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email (required)")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (read from stdin if empty)")
		_ = c.MarkFlagRequired("email")
	}
	signupCmd.Flags().StringVarP(&authName, "name", "n", "", "Full name (required)")
	_ = signupCmd.MarkFlagRequired("name")
}

func readPassword(r io.Reader) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", fmt.Errorf("password required")
	}
	return pw, nil
}

func runLogin(ctx context.Context, e *env, _ []string) error {
	if err := career.ValidateEmail(authEmail); err != nil {
		return err
	}
	pw, err := readPassword(os.Stdin)
	if err != nil {
		return err
	}
	res, err := e.client.Login(ctx, authEmail, pw)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return saveSession(e, res.Token, res.User.Name, res.User.Email)
}

func runSignup(ctx context.Context, e *env, _ []string) error {
	if err := career.ValidateEmail(authEmail); err != nil {
		return err
	}
	pw, err := readPassword(os.Stdin)
	if err != nil {
		return err
	}
	res, err := e.client.Signup(ctx, authName, authEmail, pw)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return saveSession(e, res.Token, res.User.Name, res.User.Email)
}

func saveSession(e *env, token, name, email string) error {
	if token == "" {
		return fmt.Errorf("server returned no token")
	}
	if name == "" {
		name = email
	}
	if err := e.local.SaveSession(token, name, email); err != nil {
		return err
	}
	logger.Info("session saved", zap.String("user", email))
	fmt.Printf("✓ Logged in as %s\n", name)
	return nil
}

