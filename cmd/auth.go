package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your Faraday account",
	Long: `Sign in with your teacher account email and password.

The granted token is stored locally so future runs stay signed in. Widgets
added as a guest remain on the dashboard after signing in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		creds, err := promptCredentials(false)
		if err != nil {
			return err
		}

		session, err := ctrl.Gate.Login(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("Signed in as %s\n", session.User.Name)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a Faraday teacher account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		creds, err := promptCredentials(true)
		if err != nil {
			return err
		}

		session, err := ctrl.Gate.Register(cmd.Context(), creds)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Printf("Account created. Signed in as %s\n", session.User.Name)
		return nil
	},
}

var logoutForce bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored token",
	Long: `Sign out of your Faraday account.

Only the stored token is cleared; local widget state stays on disk and the
dashboard keeps working in guest mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if ctrl.Session.Guest {
			fmt.Println("Not signed in.")
			return nil
		}
		if !logoutForce && !confirm(fmt.Sprintf("Sign out %s?", ctrl.Session.User.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := ctrl.Gate.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out. Continuing as guest.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		if ctrl.Session.Guest {
			fmt.Println("Guest (not signed in)")
			return nil
		}
		fmt.Println(ctrl.Session.User.Name)
		if ctrl.Session.User.Email != "" {
			fmt.Println(ctrl.Session.User.Email)
		}
		return nil
	},
}

// promptCredentials reads email/password (and name for registration) from
// the terminal. The password is read without echo when stdin is a TTY.
func promptCredentials(register bool) (internal.Credentials, error) {
	reader := bufio.NewReader(os.Stdin)
	creds := internal.Credentials{}

	if register {
		fmt.Print("Name: ")
		name, err := reader.ReadString('\n')
		if err != nil {
			return creds, err
		}
		creds.Name = strings.TrimSpace(name)
	}

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return creds, err
	}
	creds.Email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return creds, err
		}
		creds.Password = string(pw)
	} else {
		pw, err := reader.ReadString('\n')
		if err != nil {
			return creds, err
		}
		creds.Password = strings.TrimSpace(pw)
	}

	return creds, nil
}

// confirm asks a yes/no question on stdin
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	logoutCmd.Flags().BoolVarP(&logoutForce, "force", "f", false, "Skip confirmation")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
