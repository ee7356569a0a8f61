package cmd

import (
	"fmt"

	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in, register or log out",
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in with email and password",
	Example: `  proof auth login --email user@test.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}

		reader := input(cmd)
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			email = prompt(cmd, reader, "Email: ")
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = promptPassword(cmd, reader, "Password: ")
		}

		res, err := application.Auth.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		cmd.Printf("✓ Welcome back, %s\n", res.Name)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("Create your ProoF account"))
		reader := input(cmd)

		p := models.Profile{
			Name:            prompt(cmd, reader, "Name: "),
			Email:           prompt(cmd, reader, "Email: "),
			Password:        promptPassword(cmd, reader, "Password (8+ characters): "),
			ConfirmPassword: promptPassword(cmd, reader, "Confirm password: "),
			University:      prompt(cmd, reader, "University (optional): "),
			Major:           prompt(cmd, reader, "Major (optional): "),
			StudentID:       prompt(cmd, reader, "Student ID (optional): "),
			TargetJob:       prompt(cmd, reader, "Target job (optional): "),
		}

		res, err := application.Auth.Register(cmd.Context(), p)
		if err != nil {
			return err
		}
		cmd.Println(titleStyle.Render(fmt.Sprintf("✓ Account created. Welcome, %s!", res.Name)))
		cmd.Println("Next steps:")
		cmd.Println("  1. Set how you feel lately: proof mood set neutral")
		cmd.Println("  2. Write your first reflection: proof reflect new --template kpt")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		if err := application.Auth.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		cmd.Println("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		printField(cmd, "User ID:", application.Session.UserID())
		printField(cmd, "Backend:", application.API.BaseURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
}
