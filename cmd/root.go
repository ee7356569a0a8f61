package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/proofhq/proof/internal/app"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "proof",
	Short: "Career reflection journal and growth story CLI",
	Long: `ProoF helps you write regular reflections on your career activities,
see how your mood and activities add up into a growth story, discover
which jobs fit you, and share the journey with a team space.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp(cmd.Context(), app.Options{
			Verbose: verbose,
			Navigate: func(route string) {
				cmd.Printf("→ %s\n", route)
			},
		})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application := app.GetAppFromContext(cmd.Context()); application != nil {
			application.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(os.Stdout)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if cmd != nil {
		// PersistentPostRun is skipped when RunE fails
		if application := app.GetAppFromContext(cmd.Context()); application != nil {
			application.Close()
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ ")+err.Error())
		stop()
		os.Exit(1)
	}
}

// mustApp returns the App stored by PersistentPreRunE.
func mustApp(cmd *cobra.Command) (*app.App, error) {
	application := app.GetAppFromContext(cmd.Context())
	if application == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return application, nil
}

// loggedIn is mustApp for commands that need credentials.
func loggedIn(cmd *cobra.Command) (*app.App, error) {
	return app.RequireLogin(cmd.Context())
}

func printField(cmd *cobra.Command, label, value string) {
	cmd.Printf("%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
