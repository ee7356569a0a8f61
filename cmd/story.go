package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/proofhq/proof/internal/querycache"
	"github.com/proofhq/proof/internal/story"
	"github.com/spf13/cobra"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Your growth story over a period",
}

var showStoryCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the growth story",
	Example: `  proof story show --period quarter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStory(cmd)
		if err != nil {
			return err
		}
		return story.Render(cmd.OutOrStdout(), s)
	},
}

var exportStoryCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the growth story as PDF or HTML",
	Long: `Writes the story to --out. A .html file is written directly; anything
else is printed to PDF with headless Chrome.`,
	Example: `  proof story export --period month --out story.pdf
  proof story export --out story.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return fmt.Errorf("--out is required")
		}

		s, err := loadStory(cmd)
		if err != nil {
			return err
		}

		var data []byte
		if isHTML(out) {
			var buf bytes.Buffer
			if err := story.WriteHTML(&buf, s); err != nil {
				return err
			}
			data = buf.Bytes()
		} else {
			cmd.Println("Printing PDF with headless Chrome...")
			if data, err = application.Printer.StoryPDF(cmd.Context(), s); err != nil {
				return err
			}
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		cmd.Printf("✓ Story exported to %s\n", out)
		return nil
	},
}

// loadStory fetches the story, or reads the cached copy with --offline.
func loadStory(cmd *cobra.Command) (*story.Story, error) {
	period, _ := cmd.Flags().GetString("period")
	offline, _ := cmd.Flags().GetBool("offline")

	if offline {
		application, err := mustApp(cmd)
		if err != nil {
			return nil, err
		}
		s, err := application.Stories.Cached(cmd.Context(), story.Period(period))
		if errors.Is(err, querycache.ErrMiss) {
			return nil, fmt.Errorf("no cached story for %s, run without --offline first", period)
		}
		return s, err
	}

	application, err := loggedIn(cmd)
	if err != nil {
		return nil, err
	}
	return application.Stories.Fetch(cmd.Context(), story.Period(period))
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(storyCmd)
	storyCmd.AddCommand(showStoryCmd)
	storyCmd.AddCommand(exportStoryCmd)

	for _, c := range []*cobra.Command{showStoryCmd, exportStoryCmd} {
		c.Flags().String("period", string(story.Month), "week, month or quarter")
		c.Flags().Bool("offline", false, "use the last fetched story")
	}
	exportStoryCmd.Flags().String("out", "", "output file (.pdf or .html)")
}
