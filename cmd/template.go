package cmd

import (
	"fmt"

	"github.com/proofhq/proof/internal/catalog"
	"github.com/proofhq/proof/pkg/models"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Browse reflection templates",
}

var listTemplatesCmd = &cobra.Command{
	Use:     "list",
	Short:   "List templates, optionally by category",
	Example: `  proof template list --category 감정`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")

		templates := application.Catalog.ByCategory(category)
		if len(templates) == 0 {
			cmd.Printf("No templates in category '%s'. Categories: %v\n", category, application.Catalog.Categories())
			return nil
		}

		cmd.Println(titleStyle.Render("Reflection Templates"))
		for i, t := range templates {
			printTemplateLine(cmd, i+1, t)
		}
		return nil
	},
}

var showTemplateCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a template and its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		t, err := application.Catalog.Get(args[0])
		if err != nil {
			return err
		}
		printTemplate(cmd, t)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List template categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		for _, c := range application.Catalog.Categories() {
			cmd.Println(c)
		}
		return nil
	},
}

func printTemplateLine(cmd *cobra.Command, n int, t models.Template) {
	badge := ""
	if t.IsAIRecommended {
		badge = " " + labelStyle.Render("[AI 추천]")
	}
	cmd.Printf("\n%s %s%s\n", labelStyle.Render(fmt.Sprintf("%d.", n)), t.Name, badge)
	cmd.Printf("   %s %s  %s %s  %s %d\n",
		labelStyle.Render("ID:"), t.ID,
		labelStyle.Render("Category:"), t.Category,
		labelStyle.Render("Used:"), t.UsageCount)
}

func printTemplate(cmd *cobra.Command, t models.Template) {
	cmd.Println(titleStyle.Render(t.Name))
	printField(cmd, "ID:", t.ID)
	printField(cmd, "Category:", t.Category)
	if t.Description != "" {
		printField(cmd, "Description:", t.Description)
	}
	if len(t.RecommendedFor) > 0 {
		printField(cmd, "Recommended for:", fmt.Sprint(t.RecommendedFor))
	}
	cmd.Println(labelStyle.Render("\nQuestions:"))
	for i, q := range t.Questions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(listTemplatesCmd)
	templateCmd.AddCommand(showTemplateCmd)
	templateCmd.AddCommand(categoriesCmd)

	listTemplatesCmd.Flags().String("category", catalog.AllCategories, "category to show")
}
