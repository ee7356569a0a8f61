package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/proofhq/proof/internal/ai"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate an AI career analysis from job scores",
	Long: `Sends your job scores to Gemini and prints a short coaching message
about the best fitting job. Requires gemini_api_key (or GEMINI_API_KEY).`,
	Example: `  proof analyze --scores MKT=80,PM=65,DATA=72,DEV=55,DESIGN=40,PEOPLE=60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("scores")
		scores, err := ai.ParseScores(raw)
		if err != nil {
			return err
		}

		analyzer, err := application.Analyzer(cmd.Context())
		if errors.Is(err, ai.ErrNoAPIKey) {
			return fmt.Errorf("%w: set it with 'proof config set --key gemini_api_key --value ...'", err)
		}
		if err != nil {
			return err
		}

		top := scores.Top()
		cmd.Println(titleStyle.Render("AI 커리어 분석 · " + ai.JobLabels[top]))
		printScores(cmd, scores)

		text, err := analyzer.CareerAnalysis(cmd.Context(), top, scores)
		if err != nil {
			return err
		}
		cmd.Println()
		printMarkdown(cmd, text)
		return nil
	},
}

func printScores(cmd *cobra.Command, scores ai.Scores) {
	codes := append([]string(nil), ai.JobCodes...)
	sort.SliceStable(codes, func(i, j int) bool { return scores[codes[i]] > scores[codes[j]] })
	for _, code := range codes {
		cmd.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", ai.JobLabels[code])), valueStyle.Render(fmt.Sprintf("%g", scores[code])))
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("scores", "", "CODE=SCORE pairs for MKT, PM, DATA, DEV, DESIGN and PEOPLE")
	_ = analyzeCmd.MarkFlagRequired("scores")
}
