package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerEmail    string
	registerRole     string
	loginEmail       string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create an account on the server and store the resulting session.

Example:
  trackctl register --username alice --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		user, err := session.Register(registerUsername, registerEmail, password, registerRole)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Printf("Registered and signed in as %s <%s> (role %s)\n", user.Username, user.Email, user.Role)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the server",
	Long: `Sign in and store the session token and user locally.

Example:
  trackctl login --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		user, err := session.Login(loginEmail, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Signed in as %s <%s> (role %s)\n", user.Username, user.Email, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	Long: `Clear the locally stored token and user. The token itself stays
valid on the server until it expires; there is no server-side revocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		session.Logout()
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		if !session.Authenticated() {
			fmt.Println("Not signed in.")
			return nil
		}

		fmt.Printf("%s <%s> (role %s)\n", session.User.Username, session.User.Email, session.User.Role)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "display name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address (required)")
	registerCmd.Flags().StringVar(&registerRole, "role", "", "account role (defaults to user)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address (required)")
	loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
