package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/proofhq/proof/internal/app"
	"github.com/proofhq/proof/internal/reflection"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
)

var reflectCmd = &cobra.Command{
	Use:     "reflect",
	Aliases: []string{"reflection"},
	Short:   "Write and review reflections",
}

var newReflectionCmd = &cobra.Command{
	Use:   "new",
	Short: "Write a reflection",
	Long: `Walks through the questions of a template, then asks for the overall
content, mood and progress. A rejected submission is kept as a local
draft that can be sent again with 'proof reflect retry'.`,
	Example: `  proof reflect new --template kpt --cycle weekly
  proof reflect new --content "Finished the portfolio draft" --mood great --progress 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		templateID, _ := cmd.Flags().GetString("template")
		cycle, _ := cmd.Flags().GetString("cycle")
		spaceID, _ := cmd.Flags().GetString("space")
		projectID, _ := cmd.Flags().GetString("project")
		logID, _ := cmd.Flags().GetString("log")
		content, _ := cmd.Flags().GetString("content")
		mood, _ := cmd.Flags().GetString("mood")
		progress, _ := cmd.Flags().GetInt("progress")

		d := reflection.NewDraft()
		if mood != "" {
			if err := d.SetMood(models.Mood(mood)); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("progress") {
			d.SetProgress(progress)
		}

		if content == "" {
			reader := input(cmd)
			questions := application.Reflections.Questions(ctx, templateID)

			cmd.Println(titleStyle.Render("새 회고"))
			for i, q := range questions {
				answer := prompt(cmd, reader, fmt.Sprintf("%d. %s ", i+1, q))
				if answer != "" {
					d.SetAnswer(q, answer)
				}
			}
			content = prompt(cmd, reader, "회고 내용: ")
			if mood == "" {
				if m := prompt(cmd, reader, moodPrompt()); m != "" {
					if err := d.SetMood(models.Mood(m)); err != nil {
						return err
					}
				}
			}
			if !cmd.Flags().Changed("progress") {
				if p := prompt(cmd, reader, "진척도 (1-10, 기본 5): "); p != "" {
					n, err := strconv.Atoi(p)
					if err != nil {
						return fmt.Errorf("%w: progress %q", app.ErrInvalidArgument, p)
					}
					d.SetProgress(n)
				}
			}
		}
		d.Content = content

		if spaceID == "" {
			spaceID = application.Session.Get(session.KeyCurrentSpaceID)
		}

		created, err := application.Reflections.Submit(ctx, d, reflection.Context{
			LogID:      logID,
			ProjectID:  projectID,
			SpaceID:    spaceID,
			TemplateID: templateID,
			Cycle:      models.Cycle(cycle),
		})
		if errors.Is(err, reflection.ErrEmptyContent) {
			return errors.New(reflection.MsgEmptyContent)
		}
		var failure *reflection.Failure
		if errors.As(err, &failure) && failure.DraftID != 0 {
			return fmt.Errorf("%s (saved as draft #%d, send it again with 'proof reflect retry %d')",
				failure.Msg, failure.DraftID, failure.DraftID)
		}
		if err != nil {
			return err
		}

		cmd.Printf("✓ Reflection saved (ID: %s)\n", created.ID)
		if created.AIFeedback != "" {
			cmd.Println(labelStyle.Render("\nAI 피드백:"))
			printMarkdown(cmd, created.AIFeedback)
		}
		return nil
	},
}

var listReflectionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your reflections",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		spaceID, _ := cmd.Flags().GetString("space")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := application.Reflections.List(cmd.Context(), reflection.ListFilter{SpaceID: spaceID, Limit: limit})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			cmd.Println("No reflections yet. Write one with 'proof reflect new'")
			return nil
		}

		cmd.Println(titleStyle.Render("Your Reflections"))
		for i, r := range items {
			cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), summarize(r.Content, 60))
			cmd.Printf("   %s %s  %s %s  %s %d/10\n",
				labelStyle.Render("Date:"), r.CreatedAt.Format("2006-01-02"),
				labelStyle.Render("Mood:"), r.Mood.Label(),
				labelStyle.Render("Progress:"), r.ProgressScore)
			cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), r.ID)
		}
		return nil
	},
}

var showReflectionCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a reflection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		r, err := application.Reflections.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("Reflection " + r.ID))
		printField(cmd, "Date:", r.CreatedAt.Format("2006-01-02 15:04"))
		printField(cmd, "Cycle:", string(r.Cycle))
		printField(cmd, "Mood:", r.Mood.Label())
		printField(cmd, "Progress:", fmt.Sprintf("%d/10", r.ProgressScore))
		if r.TemplateID != "" {
			printField(cmd, "Template:", r.TemplateID)
		}
		for _, a := range r.Answers {
			cmd.Printf("\n%s\n%s\n", labelStyle.Render(a.Question), a.Answer)
		}
		cmd.Printf("\n%s\n%s\n", labelStyle.Render("Content:"), r.Content)
		if r.AIFeedback != "" {
			cmd.Println(labelStyle.Render("\nAI 피드백:"))
			printMarkdown(cmd, r.AIFeedback)
		}
		if len(r.AIKeywords) > 0 {
			printField(cmd, "Keywords:", strings.Join(r.AIKeywords, ", "))
		}
		return nil
	},
}

var deleteReflectionCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a reflection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := application.Reflections.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Reflection %s deleted\n", args[0])
		return nil
	},
}

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List reflections that could not be sent",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		drafts, err := application.Reflections.Drafts(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch drafts: %w", err)
		}
		if len(drafts) == 0 {
			cmd.Println("No drafts.")
			return nil
		}

		cmd.Println(titleStyle.Render("Unsent Drafts"))
		for _, d := range drafts {
			cmd.Printf("\n%s %s\n", labelStyle.Render(fmt.Sprintf("#%d", d.ID)), summarize(d.Content, 60))
			cmd.Printf("   %s %s\n", labelStyle.Render("Saved:"), d.CreatedAt.Format("2006-01-02 15:04"))
			if d.LastError != "" {
				cmd.Printf("   %s %s\n", labelStyle.Render("Error:"), d.LastError)
			}
		}
		return nil
	},
}

var retryDraftCmd = &cobra.Command{
	Use:   "retry <draft-id>",
	Short: "Send a kept draft again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: draft id %q", app.ErrInvalidArgument, args[0])
		}
		created, err := application.Reflections.Retry(cmd.Context(), id)
		if err != nil {
			var failure *reflection.Failure
			if errors.As(err, &failure) && failure.DraftID != 0 {
				return fmt.Errorf("%s (kept as draft #%d)", failure.Msg, failure.DraftID)
			}
			return err
		}
		cmd.Printf("✓ Draft #%d sent (ID: %s)\n", id, created.ID)
		return nil
	},
}

func moodPrompt() string {
	opts := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		opts[i] = fmt.Sprintf("%s=%s", m, m.Label())
	}
	return "기분 (" + strings.Join(opts, ", ") + "): "
}

// summarize cuts s to n runes on one line.
func summarize(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func init() {
	rootCmd.AddCommand(reflectCmd)
	reflectCmd.AddCommand(newReflectionCmd)
	reflectCmd.AddCommand(listReflectionsCmd)
	reflectCmd.AddCommand(showReflectionCmd)
	reflectCmd.AddCommand(deleteReflectionCmd)
	reflectCmd.AddCommand(draftsCmd)
	reflectCmd.AddCommand(retryDraftCmd)

	newReflectionCmd.Flags().String("template", "", "template id (see 'proof template list')")
	newReflectionCmd.Flags().String("cycle", "weekly", "daily, weekly, biweekly or monthly")
	newReflectionCmd.Flags().String("space", "", "space id (defaults to the current space)")
	newReflectionCmd.Flags().String("project", "", "project id")
	newReflectionCmd.Flags().String("log", "", "activity log id")
	newReflectionCmd.Flags().String("content", "", "reflection content; skips the interactive questions")
	newReflectionCmd.Flags().String("mood", "", "great, good, normal, bad or terrible")
	newReflectionCmd.Flags().Int("progress", 5, "progress score 1-10")

	listReflectionsCmd.Flags().String("space", "", "only reflections of this space")
	listReflectionsCmd.Flags().Int("limit", 20, "maximum number to show")
}
