package cmd

import (
	"github.com/proofhq/proof/internal/mood"
	"github.com/spf13/cobra"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Show or set your baseline mood",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		current := application.Mood.Current()
		if current == "" {
			cmd.Println("No baseline mood set. Choose one with 'proof mood set <mood>':")
			for _, b := range mood.Baselines {
				cmd.Printf("  %s %s\n", labelStyle.Render(string(b)), b.Label())
			}
			return nil
		}
		printField(cmd, "Baseline mood:", current.Label())
		return nil
	},
}

var setMoodCmd = &cobra.Command{
	Use:       "set <tired|neutral|positive>",
	Short:     "Set your baseline mood",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(mood.Tired), string(mood.Neutral), string(mood.Positive)},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		b := mood.Baseline(args[0])
		if err := application.Mood.Set(cmd.Context(), b); err != nil {
			return err
		}
		cmd.Printf("✓ Baseline mood: %s\n", b.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moodCmd)
	moodCmd.AddCommand(setMoodCmd)
}
