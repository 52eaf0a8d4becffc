package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/token"
	"github.com/opsdesk/deskctl/internal/tui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication credentials",
	Long: `Manage authentication credentials for the support desk platform.

Credentials are stored in ~/.deskctl/credentials.json.

Subcommands:
  login            Log in with email and password
  logout           Log out and remove credentials
  register         Register a new user account
  status           Show current authentication status
  forgot-password  Request a password reset email

Examples:
  deskctl auth login --email user@example.com
  deskctl auth status
  deskctl auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// authLoginCmd handles user login
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the platform",
	Long: `Log in to the support desk platform with your email and password.

After logging in, your access token is saved locally and attached to every
subsequent request. Missing flags are prompted for interactively.

Examples:
  deskctl auth login --email user@example.com
  deskctl auth login --email user@example.com --password mypass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" || password == "" {
			email, password, err = tui.PromptCredentials(email)
			if err != nil {
				return err
			}
		}

		auth := api.NewAuth(env.client)

		res := auth.Login(cmd.Context(), email, password)
		if !res.OK {
			return fmt.Errorf("login failed: %s", res.Message)
		}

		// The login response alone is not trusted for profile data
		profile := auth.Me(cmd.Context())
		if !profile.OK {
			return fmt.Errorf("login succeeded but profile fetch failed: %s", profile.Message)
		}

		user := profile.Data
		fmt.Printf("Logged in as %s (%s)\n", user.FullName(), user.Role)
		return nil
	},
}

// authLogoutCmd handles user logout
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove credentials",
	Long: `Log out and remove stored authentication credentials.

Logging out while already logged out is a no-op.

Examples:
  deskctl auth logout
  deskctl auth logout --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		if _, ok := env.tokens.Access(cmd.Context()); !ok {
			fmt.Println("Not logged in.")
			return nil
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			confirmed, err := tui.PromptForConfirmation("Log out and remove stored credentials?", true)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Aborted.")
				return nil
			}
		}

		res := api.NewAuth(env.client).Logout(cmd.Context())
		if !res.OK {
			return fmt.Errorf("logout failed: %s", res.Message)
		}

		fmt.Println("Logged out.")
		return nil
	},
}

// authRegisterCmd registers a new user
var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user account",
	Long: `Register a new user account with the support desk platform.

Registration does not log the new account in; run 'deskctl auth login'
afterwards.

Examples:
  deskctl auth register --email user@example.com --first-name Ada --last-name Lovelace`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")

		if email == "" || password == "" {
			email, password, err = tui.PromptCredentials(email)
			if err != nil {
				return err
			}
		}

		res := api.NewAuth(env.client).Register(cmd.Context(), api.RegisterInput{
			Email:           email,
			Password:        password,
			PasswordConfirm: password,
			FirstName:       firstName,
			LastName:        lastName,
		})
		if !res.OK {
			return fmt.Errorf("registration failed: %s", res.Message)
		}

		fmt.Printf("Account created for %s.\n", email)
		fmt.Println("Run 'deskctl auth login' to sign in.")
		return nil
	},
}

// authStatusCmd shows current auth status
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show the current authentication status and user information.

Examples:
  deskctl auth status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		access, ok := env.tokens.Access(cmd.Context())
		if !ok {
			fmt.Println("Not logged in.")
			fmt.Println("Use 'deskctl auth login' to authenticate.")
			return nil
		}

		profile := api.NewAuth(env.client).Me(cmd.Context())
		if !profile.OK {
			fmt.Println("Stored token was rejected by the platform.")
			fmt.Println("Use 'deskctl auth login' to re-authenticate.")
			return nil
		}

		user := profile.Data
		fmt.Println("Logged in")
		fmt.Printf("User ID:    %d\n", user.ID)
		fmt.Printf("Email:      %s\n", user.Email)
		fmt.Printf("Name:       %s\n", user.FullName())
		fmt.Printf("Role:       %s\n", user.Role)
		if user.DepartmentName != "" {
			fmt.Printf("Department: %s\n", user.DepartmentName)
		}
		if expiry, ok := token.InspectExpiry(access); ok {
			fmt.Printf("Token expires: %s\n", expiry.Format(time.RFC1123))
		}
		return nil
	},
}

// authForgotCmd requests a password reset
var authForgotCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset email",
	Long: `Request a password reset email from the platform.

Examples:
  deskctl auth forgot-password --email user@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			email, err = tui.PromptForString("Email", "you@example.com", true)
			if err != nil {
				return err
			}
		}

		res := api.NewAuth(env.client).ForgotPassword(cmd.Context(), email)
		if !res.OK {
			return fmt.Errorf("request failed: %s", res.Message)
		}

		fmt.Printf("If an account exists for %s, a reset email is on its way.\n", email)
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authForgotCmd)

	authLoginCmd.Flags().String("email", "", "Email address")
	authLoginCmd.Flags().String("password", "", "Password (prompted if omitted)")

	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Password (prompted if omitted)")
	authRegisterCmd.Flags().String("first-name", "", "First name")
	authRegisterCmd.Flags().String("last-name", "", "Last name")

	authLogoutCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	authForgotCmd.Flags().String("email", "", "Email address")

	rootCmd.AddCommand(authCmd)
}
