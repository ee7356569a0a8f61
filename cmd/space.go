package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/proofhq/proof/internal/app"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/internal/space"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Team spaces and invitations",
}

var listSpacesCmd = &cobra.Command{
	Use:   "list",
	Short: "List your spaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		spaces, err := application.Spaces.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(spaces) == 0 {
			cmd.Println("No spaces yet.")
			return nil
		}

		current := application.Session.Get(session.KeyCurrentSpaceID)
		cmd.Println(titleStyle.Render("Your Spaces"))
		for i, sp := range spaces {
			marker := ""
			if sp.ID == current {
				marker = " " + labelStyle.Render("(current)")
			}
			cmd.Printf("\n%s %s%s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), sp.Name, marker)
			cmd.Printf("   %s %s  %s %d  %s %s\n",
				labelStyle.Render("ID:"), sp.ID,
				labelStyle.Render("Members:"), sp.MemberCount,
				labelStyle.Render("Status:"), titleCase(sp.Status))
		}
		return nil
	},
}

var showSpaceCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a space and make it the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		sp, err := application.Spaces.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Println(titleStyle.Render(sp.Name))
		printField(cmd, "ID:", sp.ID)
		printField(cmd, "Status:", titleCase(sp.Status))
		printField(cmd, "Members:", fmt.Sprint(sp.MemberCount))
		printField(cmd, "Invite link:", space.InviteLink(application.Config.AppOrigin, sp.ID))
		return nil
	},
}

var createSpaceCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a space and make it the current one",
	Example: `  proof space create "캡스톤 디자인" --start 2026-09-01 --end 2026-12-15
  proof space create 마케팅학회 --type club --cycle biweekly --no-reminders`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		req := models.SpaceRequest{Name: args[0]}
		req.Description, _ = cmd.Flags().GetString("description")
		req.Type, _ = cmd.Flags().GetString("type")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")
		cycle, _ := cmd.Flags().GetString("cycle")
		req.ReflectionSettings.Cycle = models.Cycle(cycle)
		noReminders, _ := cmd.Flags().GetBool("no-reminders")
		req.ReflectionSettings.Enabled = !noReminders

		sp, err := application.Spaces.Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		cmd.Printf("✓ Space %s created\n", sp.Name)
		printField(cmd, "ID:", sp.ID)
		printField(cmd, "Type:", space.TypeLabels[req.Type])
		printField(cmd, "Invite link:", space.InviteLink(application.Config.AppOrigin, sp.ID))
		return nil
	},
}

var deleteSpaceCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		if err := application.Spaces.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cmd.Printf("✓ Space %s deleted\n", args[0])
		return nil
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List members of the current space",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		spaceID, err := spaceFlag(cmd, application)
		if err != nil {
			return err
		}
		members, err := application.Spaces.Members(cmd.Context(), spaceID)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("Members"))
		for _, m := range members {
			line := m.Name
			if m.Email != "" {
				line += " <" + m.Email + ">"
			}
			cmd.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-7s", titleCase(m.Role))), line)
		}
		return nil
	},
}

var inviteCmd = &cobra.Command{
	Use:   "invite <email>...",
	Short: "Invite people to the current space",
	Long: `Invites every argument that looks like an email address. Comma
separated lists work too. Invitees show up in 'proof space members'
right away and are removed again if the invitation fails.`,
	Example: `  proof space invite kim@test.com lee@test.com
  proof space invite --space sp-1 "kim@test.com, lee@test.com"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		spaceID, err := spaceFlag(cmd, application)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			if sp, err := application.Spaces.Get(cmd.Context(), spaceID); err == nil {
				name = sp.Name
			}
		}

		var emails []string
		for _, a := range args {
			emails = append(emails, strings.Split(a, ",")...)
		}

		invited, err := application.Spaces.Invite(cmd.Context(), spaceID, name, emails)
		if errors.Is(err, space.ErrNoValidEmails) {
			return errors.New(space.MsgNoValidEmails)
		}
		if err != nil {
			return err
		}
		for _, m := range invited {
			cmd.Printf("✓ Invited %s\n", m.Email)
		}
		return nil
	},
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print the invite link of the current space",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		spaceID, err := spaceFlag(cmd, application)
		if err != nil {
			return err
		}
		cmd.Println(space.InviteLink(application.Config.AppOrigin, spaceID))
		return nil
	},
}

// spaceFlag returns --space or the remembered current space.
func spaceFlag(cmd *cobra.Command, application *app.App) (string, error) {
	id, _ := cmd.Flags().GetString("space")
	if id == "" {
		id = application.Session.Get(session.KeyCurrentSpaceID)
	}
	if id == "" {
		return "", app.ErrNoSpace
	}
	return id, nil
}

// titleCase converts a string to title case using proper locale-aware capitalization
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func init() {
	rootCmd.AddCommand(spaceCmd)
	spaceCmd.AddCommand(listSpacesCmd)
	spaceCmd.AddCommand(showSpaceCmd)
	spaceCmd.AddCommand(createSpaceCmd)
	spaceCmd.AddCommand(deleteSpaceCmd)
	spaceCmd.AddCommand(membersCmd)
	spaceCmd.AddCommand(inviteCmd)
	spaceCmd.AddCommand(linkCmd)

	for _, c := range []*cobra.Command{membersCmd, inviteCmd, linkCmd} {
		c.Flags().String("space", "", "space id (defaults to the current space)")
	}
	inviteCmd.Flags().String("name", "", "space name shown in the invitation")

	createSpaceCmd.Flags().String("description", "", "what the space is for")
	createSpaceCmd.Flags().String("type", "contest", "contest, project, club or internship")
	createSpaceCmd.Flags().String("start", time.Now().Format(time.DateOnly), "start date (YYYY-MM-DD)")
	createSpaceCmd.Flags().String("end", "", "end date (YYYY-MM-DD)")
	createSpaceCmd.Flags().String("cycle", "weekly", "reflection cycle: daily, weekly, biweekly or monthly")
	createSpaceCmd.Flags().Bool("no-reminders", false, "turn off reflection reminders for the space")
}
