package cmd

import (
	"context"
	"fmt"

	"github.com/proofhq/proof/internal/app"
	"github.com/proofhq/proof/internal/reflection"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/internal/story"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const recentReflections = 5

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"dashboard"},
	Short:   "Overview of your reflections, story, spaces and bookmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		d := loadDashboard(cmd.Context(), application)
		printDashboard(cmd, application, d)
		return nil
	},
}

// dashboard holds each section with its own error so one failing
// endpoint does not hide the others.
type dashboard struct {
	reflections    []models.Reflection
	reflectionsErr error
	story          *story.Story
	storyErr       error
	spaces         []models.Space
	spacesErr      error
	bookmarks      []models.Bookmark
	bookmarksErr   error
	drafts         []*models.Draft
	draftsErr      error
}

func loadDashboard(ctx context.Context, a *app.App) *dashboard {
	d := &dashboard{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() error {
		d.reflections, d.reflectionsErr = a.Reflections.List(ctx, reflection.ListFilter{Limit: recentReflections})
		return nil
	})
	g.Go(func() error {
		d.story, d.storyErr = a.Stories.Fetch(ctx, story.Month)
		return nil
	})
	g.Go(func() error {
		d.spaces, d.spacesErr = a.Spaces.List(ctx)
		return nil
	})
	g.Go(func() error {
		d.bookmarks, d.bookmarksErr = a.Activities.Bookmarks(ctx)
		return nil
	})
	g.Go(func() error {
		d.drafts, d.draftsErr = a.Reflections.Drafts(ctx)
		return nil
	})
	_ = g.Wait()
	return d
}

func printDashboard(cmd *cobra.Command, a *app.App, d *dashboard) {
	cmd.Println(titleStyle.Render("ProoF Dashboard"))
	if m := a.Mood.Current(); m != "" {
		printField(cmd, "Baseline mood:", m.Label())
	}
	if job := a.Session.Get(session.KeySelectedJob); job != "" {
		printField(cmd, "Selected job:", job)
	}

	cmd.Println(labelStyle.Render("\nRecent reflections"))
	switch {
	case d.reflectionsErr != nil:
		sectionError(cmd, d.reflectionsErr)
	case len(d.reflections) == 0:
		cmd.Println("  none yet, write one with 'proof reflect new'")
	default:
		for _, r := range d.reflections {
			cmd.Printf("  %s %-6s %s\n", r.CreatedAt.Format("01-02"), r.Mood.Label(), summarize(r.Content, 50))
		}
	}
	if d.draftsErr == nil && len(d.drafts) > 0 {
		cmd.Printf("  %s %d unsent, see 'proof reflect drafts'\n", labelStyle.Render("Drafts:"), len(d.drafts))
	}

	cmd.Println(labelStyle.Render("\nThis month"))
	switch {
	case d.storyErr != nil:
		sectionError(cmd, d.storyErr)
	case d.story.State == story.Insufficient:
		cmd.Println("  not enough reflections for a story yet")
	default:
		cmd.Printf("  %s\n  %d days, 긍정 %d / 부정 %d\n",
			d.story.Data.IntroTitle, d.story.Data.TotalDays, d.story.Data.PositiveCount, d.story.Data.NegativeCount)
	}

	cmd.Println(labelStyle.Render("\nSpaces"))
	switch {
	case d.spacesErr != nil:
		sectionError(cmd, d.spacesErr)
	case len(d.spaces) == 0:
		cmd.Println("  none")
	default:
		current := a.Session.Get(session.KeyCurrentSpaceID)
		for _, sp := range d.spaces {
			marker := " "
			if sp.ID == current {
				marker = "*"
			}
			cmd.Printf(" %s %s (%d members, %s)\n", marker, sp.Name, sp.MemberCount, titleCase(sp.Status))
		}
	}

	cmd.Println(labelStyle.Render("\nBookmarks"))
	switch {
	case d.bookmarksErr != nil:
		sectionError(cmd, d.bookmarksErr)
	default:
		cmd.Printf("  %d saved activities\n", len(d.bookmarks))
	}
}

func sectionError(cmd *cobra.Command, err error) {
	cmd.Println("  " + errorStyle.Render(fmt.Sprintf("unavailable: %v", err)))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
