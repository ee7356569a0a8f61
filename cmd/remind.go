package cmd

import (
	"time"

	"github.com/proofhq/proof/internal/remind"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run reflection reminders in the foreground",
	Long: `Prints a reminder to write a reflection on the configured cycle
(reminder_cycle, reminder_time) until interrupted. --cycle and --at
override the configuration for this run.`,
	Example: `  proof remind
  proof remind --cycle daily --at 22:30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		if !application.Config.ReminderEnabled && !cmd.Flags().Changed("cycle") && !cmd.Flags().Changed("at") {
			cmd.Println("Reminders are disabled. Enable them with 'proof config set --key reminder_enabled --value true'")
			return nil
		}
		s, err := newScheduler(cmd)
		if err != nil {
			return err
		}

		cmd.Printf("Reminders running (%s). Next: %s. Press Ctrl+C to stop.\n",
			s.Spec(), s.Next(now()).Format("2006-01-02 15:04"))
		return s.Run(cmd.Context())
	},
}

var nextReminderCmd = &cobra.Command{
	Use:   "next",
	Short: "Show when the next reminder fires",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScheduler(cmd)
		if err != nil {
			return err
		}
		printField(cmd, "Next reminder:", s.Next(now()).Format("2006-01-02 (Mon) 15:04"))
		return nil
	},
}

var now = time.Now

func newScheduler(cmd *cobra.Command) (*remind.Scheduler, error) {
	application, err := mustApp(cmd)
	if err != nil {
		return nil, err
	}
	cycle := application.Config.ReminderCycle
	if c, _ := cmd.Flags().GetString("cycle"); c != "" {
		cycle = c
	}
	at := application.Config.ReminderTime
	if a, _ := cmd.Flags().GetString("at"); a != "" {
		at = a
	}

	return remind.New(models.Cycle(cycle), at, func(r remind.Reminder) {
		cmd.Printf("\n%s %s\n", titleStyle.Render("⏰ "+r.At.Format("15:04")), r.Message)
		cmd.Println("   proof reflect new --cycle " + string(r.Cycle))
	}, application.Logger.Named("remind"))
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.AddCommand(nextReminderCmd)

	remindCmd.PersistentFlags().String("cycle", "", "daily, weekly, biweekly or monthly")
	remindCmd.PersistentFlags().String("at", "", "time of day, HH:MM")
}
