package cmd

import (
	"fmt"
	"strings"

	"github.com/proofhq/proof/internal/activity"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Recommended activities and bookmarks",
}

var listActivitiesCmd = &cobra.Command{
	Use:   "list",
	Short: "List recommended activities",
	Example: `  proof activity list --category contest --sort deadline
  proof activity list --search 데이터`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		f := activity.Filter{}
		f.Category, _ = cmd.Flags().GetString("category")
		f.Field, _ = cmd.Flags().GetString("field")
		f.Sort, _ = cmd.Flags().GetString("sort")
		f.Search, _ = cmd.Flags().GetString("search")
		f.Limit, _ = cmd.Flags().GetInt("limit")

		items, err := application.Activities.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			cmd.Println("No activities match.")
			return nil
		}

		cmd.Println(titleStyle.Render("Recommended Activities"))
		for i, a := range items {
			mark := "☆"
			if a.IsBookmarked {
				mark = "★"
			}
			cmd.Printf("\n%s %s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), mark, a.Title)
			cmd.Printf("   %s %s  %s %s\n",
				labelStyle.Render("ID:"), a.ID,
				labelStyle.Render("Type:"), categoryLabel(a.Category))
			if a.Organizer != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Organizer:"), a.Organizer)
			}
			if a.EndDate != nil {
				cmd.Printf("   %s %s\n", labelStyle.Render("Deadline:"), a.EndDate.Format("2006-01-02"))
			}
			if len(a.Tags) > 0 {
				cmd.Printf("   %s %s\n", labelStyle.Render("Tags:"), strings.Join(a.Tags, ", "))
			}
		}
		return nil
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <activity-id>",
	Short: "Bookmark an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := application.Activities.Bookmark(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("★ Bookmarked %s\n", args[0])
		return nil
	},
}

var unbookmarkCmd = &cobra.Command{
	Use:   "unbookmark <activity-id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := application.Activities.Unbookmark(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("☆ Removed bookmark %s\n", args[0])
		return nil
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		items, err := application.Activities.Bookmarks(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			cmd.Println("No bookmarks yet. Add one with 'proof activity bookmark <id>'")
			return nil
		}

		cmd.Println(titleStyle.Render("Bookmarks"))
		for _, b := range items {
			deadline := "-"
			if b.Deadline != nil {
				deadline = b.Deadline.Format("2006-01-02")
			}
			cmd.Printf("  ★ %s %s  %s %s\n", b.Title,
				valueStyle.Render("("+categoryLabel(b.Type)+")"),
				labelStyle.Render("Deadline:"), deadline)
		}
		return nil
	},
}

func categoryLabel(c string) string {
	if l, ok := activity.CategoryLabels[c]; ok {
		return l
	}
	return c
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.AddCommand(listActivitiesCmd)
	activityCmd.AddCommand(bookmarkCmd)
	activityCmd.AddCommand(unbookmarkCmd)
	activityCmd.AddCommand(bookmarksCmd)

	listActivitiesCmd.Flags().String("category", "", "contest, project, club, study, internship or volunteer")
	listActivitiesCmd.Flags().String("field", "", "job field")
	listActivitiesCmd.Flags().String("sort", "recommended", "recommended, latest, deadline or popular")
	listActivitiesCmd.Flags().String("search", "", "search text")
	listActivitiesCmd.Flags().Int("limit", 20, "maximum number to show")
}
