package cmd

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// printMarkdown renders model output, which usually arrives as markdown.
// Plain text is printed as is when rendering fails.
func printMarkdown(cmd *cobra.Command, text string) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if out, err := renderer.Render(text); err == nil {
			cmd.Print(out)
			return
		}
	}
	cmd.Println(strings.TrimSpace(text))
}
