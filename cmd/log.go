package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/proofhq/proof/internal/activitylog"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Dated notes on your activities",
}

var listLogsCmd = &cobra.Command{
	Use:     "list",
	Short:   "List activity logs",
	Example: `  proof log list --activity a1 --from 2026-10-01 --to 2026-10-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		f := activitylog.Filter{}
		f.ActivityID, _ = cmd.Flags().GetString("activity")
		f.StartDate, _ = cmd.Flags().GetString("from")
		f.EndDate, _ = cmd.Flags().GetString("to")
		f.Page, _ = cmd.Flags().GetInt("page")
		f.Limit, _ = cmd.Flags().GetInt("limit")

		logs, err := application.Logs.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			cmd.Println("No logs yet. Write one with 'proof log new'")
			return nil
		}

		cmd.Println(titleStyle.Render("Activity Logs"))
		for _, l := range logs {
			cmd.Printf("\n%s %s\n", labelStyle.Render(l.Date), summarize(l.Content, 60))
			cmd.Printf("   %s %s  %s %s\n",
				labelStyle.Render("ID:"), l.ID,
				labelStyle.Render("Activity:"), l.ActivityID)
			if len(l.Tags) > 0 {
				cmd.Printf("   %s %s\n", labelStyle.Render("Tags:"), strings.Join(l.Tags, ", "))
			}
		}
		return nil
	},
}

var showLogCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an activity log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		l, err := application.Logs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Println(titleStyle.Render("Log " + l.ID))
		printField(cmd, "Date:", l.Date)
		printField(cmd, "Activity:", l.ActivityID)
		if len(l.Tags) > 0 {
			printField(cmd, "Tags:", strings.Join(l.Tags, ", "))
		}
		cmd.Printf("\n%s\n%s\n", labelStyle.Render("Content:"), l.Content)
		if l.Reflections != "" {
			cmd.Printf("\n%s\n%s\n", labelStyle.Render("Reflections:"), l.Reflections)
		}
		return nil
	},
}

var newLogCmd = &cobra.Command{
	Use:   "new <activity-id>",
	Short: "Write a log for an activity",
	Long: `Saves a dated note for an activity. Without --content the note is
read from the prompt. The saved log id can be passed to
'proof reflect new --log' to reflect on it.`,
	Example: `  proof log new a1 --content "발표 자료 초안 완성" --tags 발표,기획
  proof log new a1 --date 2026-10-14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		e := activitylog.Entry{ActivityID: args[0]}
		e.Content, _ = cmd.Flags().GetString("content")
		e.Reflections, _ = cmd.Flags().GetString("reflections")
		e.Tags, _ = cmd.Flags().GetStringSlice("tags")
		e.Date, _ = cmd.Flags().GetString("date")
		if e.Content == "" {
			e.Content = prompt(cmd, input(cmd), "오늘 한 일: ")
		}

		created, err := application.Logs.Create(cmd.Context(), e)
		if errors.Is(err, activitylog.ErrEmptyContent) {
			return errors.New(activitylog.MsgEmptyContent)
		}
		if err != nil {
			return err
		}
		cmd.Printf("✓ Log saved (ID: %s)\n", created.ID)
		return nil
	},
}

var editLogCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Change an activity log",
	Example: `  proof log edit l1 --content "발표 자료 최종본" --tags 발표`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		req := models.LogRequest{}
		flags := cmd.Flags()
		for name, field := range map[string]**string{
			"activity":    &req.ActivityID,
			"content":     &req.Content,
			"reflections": &req.Reflections,
			"date":        &req.Date,
		} {
			if flags.Changed(name) {
				v, _ := flags.GetString(name)
				*field = &v
			}
		}
		if flags.Changed("tags") {
			tags, _ := flags.GetStringSlice("tags")
			req.Tags = &tags
		}

		updated, err := application.Logs.Update(cmd.Context(), args[0], req)
		switch {
		case errors.Is(err, activitylog.ErrNoChanges):
			return fmt.Errorf("nothing to change; pass --content, --reflections, --tags, --date or --activity")
		case errors.Is(err, activitylog.ErrEmptyContent):
			return errors.New(activitylog.MsgEmptyContent)
		case err != nil:
			return err
		}
		cmd.Printf("✓ Log %s updated\n", updated.ID)
		return nil
	},
}

var deleteLogCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := application.Logs.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Log %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(listLogsCmd)
	logCmd.AddCommand(showLogCmd)
	logCmd.AddCommand(newLogCmd)
	logCmd.AddCommand(editLogCmd)
	logCmd.AddCommand(deleteLogCmd)

	listLogsCmd.Flags().String("activity", "", "only logs of this activity")
	listLogsCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	listLogsCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	listLogsCmd.Flags().Int("page", 0, "page number")
	listLogsCmd.Flags().Int("limit", 20, "maximum number to show")

	for _, c := range []*cobra.Command{newLogCmd, editLogCmd} {
		c.Flags().String("content", "", "what you did")
		c.Flags().String("reflections", "", "thoughts on it")
		c.Flags().StringSlice("tags", nil, "comma separated tags")
		c.Flags().String("date", "", "date of the log (YYYY-MM-DD, defaults to today)")
	}
	editLogCmd.Flags().String("activity", "", "move the log to another activity")
}
