package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"

	"github.com/proofhq/proof/internal/app"
	"github.com/proofhq/proof/internal/reflection"
	"github.com/spf13/cobra"
)

var microCmd = &cobra.Command{
	Use:   "micro",
	Short: "Quick daily records of how an activity felt",
}

var newMicroCmd = &cobra.Command{
	Use:   "new",
	Short: "Record how today's activity felt",
	Long: `Asks which activity you did, a short memo and whether it felt worse,
the same or better than usual. Better and worse days ask for a reason.
Tags are suggested from the memo when the backend can.`,
	Example: `  proof reflect micro new
  proof reflect micro new --activity club --memo "세션 발표" --compare better --reason communication`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		reader := input(cmd)

		m := reflection.Micro{}
		m.ActivityType, _ = cmd.Flags().GetString("activity")
		m.Memo, _ = cmd.Flags().GetString("memo")
		m.MoodCompare, _ = cmd.Flags().GetString("compare")
		m.Reason, _ = cmd.Flags().GetString("reason")

		if m.ActivityType == "" {
			id, err := choose(cmd, reader, "활동", reflection.MicroActivities)
			if err != nil {
				return err
			}
			m.ActivityType = id
		}
		if m.Memo == "" && !cmd.Flags().Changed("memo") {
			m.Memo = prompt(cmd, reader, "한 줄 메모 (선택): ")
		}
		if m.MoodCompare == "" {
			id, err := choose(cmd, reader, "평소 대비", []reflection.Option{
				{ID: reflection.Worse, Label: "평소보다 더 별로였다"},
				{ID: reflection.Same, Label: "평소랑 비슷했다"},
				{ID: reflection.Better, Label: "평소보다 더 좋았다"},
			})
			if err != nil {
				return err
			}
			m.MoodCompare = id
		}
		if m.Reason == "" && m.MoodCompare != reflection.Same {
			if reasons := reflection.Reasons(m.MoodCompare); reasons != nil {
				id, err := choose(cmd, reader, "이유", reasons)
				if err != nil {
					return err
				}
				m.Reason = id
			}
		}
		if m.Memo != "" {
			m.Tags = application.Reflections.SuggestTags(ctx, m.ActivityType, m.Memo)
		}

		created, err := application.Reflections.SubmitMicro(ctx, m)
		if err != nil {
			var failure *reflection.Failure
			if errors.As(err, &failure) {
				return errors.New(failure.Msg)
			}
			return err
		}
		cmd.Printf("✓ 오늘의 활동이 기록되었습니다 (ID: %s)\n", created.ID)
		return nil
	},
}

var listMicroCmd = &cobra.Command{
	Use:   "list",
	Short: "List micro records",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		items, err := application.Reflections.ListMicro(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			cmd.Println("No micro records yet. Add one with 'proof reflect micro new'")
			return nil
		}

		cmd.Println(titleStyle.Render("Micro Records"))
		for _, m := range items {
			cmd.Printf("\n%s %s %s\n", labelStyle.Render(m.Date.Format("2006-01-02")),
				optionLabel(reflection.MicroActivities, m.ActivityType), summarize(m.Memo, 50))
			cmd.Printf("   %s %s  %s %s\n",
				labelStyle.Render("ID:"), m.ID,
				labelStyle.Render("Compared:"), m.MoodCompare)
		}
		return nil
	},
}

var deleteMicroCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a micro record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := application.Reflections.DeleteMicro(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Record %s deleted\n", args[0])
		return nil
	},
}

// choose lists opts and reads a 1-based selection.
func choose(cmd *cobra.Command, reader *bufio.Reader, label string, opts []reflection.Option) (string, error) {
	for i, o := range opts {
		cmd.Printf("  %d. %s\n", i+1, o.Label)
	}
	answer := prompt(cmd, reader, label+": ")
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(opts) {
		return "", fmt.Errorf("%w: selection %q", app.ErrInvalidArgument, answer)
	}
	return opts[n-1].ID, nil
}

func optionLabel(opts []reflection.Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

func init() {
	reflectCmd.AddCommand(microCmd)
	microCmd.AddCommand(newMicroCmd)
	microCmd.AddCommand(listMicroCmd)
	microCmd.AddCommand(deleteMicroCmd)

	newMicroCmd.Flags().String("activity", "", "lecture, club, contest, intern, study or other")
	newMicroCmd.Flags().String("memo", "", "one line about the day")
	newMicroCmd.Flags().String("compare", "", "worse, same or better than usual")
	newMicroCmd.Flags().String("reason", "", "why it felt better or worse")

	listMicroCmd.Flags().Int("limit", 30, "maximum number to show")
}
