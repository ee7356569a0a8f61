package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/proofhq/proof/internal/catalog"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse templates interactively",
	Long:  "Launch the interactive template browser: filter by category, read the questions and start a reflection",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		return runTUI(cmd, application.Catalog)
	},
}

func runTUI(cmd *cobra.Command, cat *catalog.Catalog) error {
	reader := input(cmd)
	categories := cat.Categories()
	category := catalog.AllCategories

	for {
		templates := cat.ByCategory(category)

		cmd.Println(titleStyle.Render("Template Browser · " + category))
		cmd.Println("Enter a template number, 'c' to change category, or 'q' to quit")
		for i, t := range templates {
			printTemplateLine(cmd, i+1, t)
		}

		cmd.Print("\n> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			return nil
		}

		switch strings.ToLower(line) {
		case "q":
			return nil
		case "c":
			for i, c := range categories {
				cmd.Printf("%d. %s\n", i+1, c)
			}
			cmd.Print("category> ")
			choice, _ := reader.ReadString('\n')
			n, err := strconv.Atoi(strings.TrimSpace(choice))
			if err != nil || n < 1 || n > len(categories) {
				cmd.Println("Invalid selection")
				continue
			}
			category = categories[n-1]
			continue
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(templates) {
			cmd.Println("Invalid selection")
			continue
		}
		if write := displayTemplate(cmd, templates[n-1], reader); write {
			return startReflection(cmd, templates[n-1].ID)
		}
	}
}

// displayTemplate shows t until the user goes back or chooses to write.
func displayTemplate(cmd *cobra.Command, t models.Template, reader *bufio.Reader) bool {
	for {
		cmd.Println("\n" + strings.Repeat("=", 60))
		printTemplate(cmd, t)

		cmd.Println("\nOptions:")
		cmd.Println("  [w] Write a reflection with this template")
		cmd.Println("  [b] Back to list")
		cmd.Print("\n> ")

		choice, err := reader.ReadString('\n')
		switch strings.TrimSpace(strings.ToLower(choice)) {
		case "w":
			return true
		case "b":
			return false
		default:
			if err != nil {
				return false
			}
			cmd.Println("Invalid choice")
		}
	}
}

func startReflection(cmd *cobra.Command, templateID string) error {
	if err := newReflectionCmd.Flags().Set("template", templateID); err != nil {
		return fmt.Errorf("select template: %w", err)
	}
	newReflectionCmd.SetContext(cmd.Context())
	newReflectionCmd.SetOut(cmd.OutOrStdout())
	newReflectionCmd.SetIn(cmd.InOrStdin())
	return newReflectionCmd.RunE(newReflectionCmd, nil)
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
