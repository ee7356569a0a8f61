package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/proofhq/proof/internal/app"
	"github.com/proofhq/proof/internal/survey"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Career survey and job selection",
}

var submitSurveyCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit survey answers and show the result",
	Long: `Reads answers from a YAML or JSON file (question id → answer), submits
them and shows the preference and fit rankings. --select picks a job
right away: 'recommended', 'preference:N' or 'fit:N'.`,
	Example: `  proof survey submit --file answers.yaml
  proof survey submit --file answers.json --select fit:2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loggedIn(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		path, _ := cmd.Flags().GetString("file")
		surveyID, _ := cmd.Flags().GetString("survey")
		selection, _ := cmd.Flags().GetString("select")

		answers, err := readAnswers(path)
		if err != nil {
			return err
		}

		res, err := application.Surveys.Submit(ctx, surveyID, application.Session.UserID(), answers)
		if err != nil {
			return err
		}

		var selectErr error
		r := &survey.Renderer{OnSelectJob: func(jobID string) {
			route, err := application.Surveys.SelectJob(ctx, jobID)
			if err != nil {
				selectErr = err
				return
			}
			cmd.Printf("✓ Selected %s\n→ %s\n", jobID, route)
		}}
		if err := r.Render(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if selection == "" {
			cmd.Println("\nPick a job with 'proof survey select <job-id>'")
			return nil
		}
		if err := applySelection(r, selection); err != nil {
			return err
		}
		return selectErr
	},
}

var selectJobCmd = &cobra.Command{
	Use:   "select <job-id>",
	Short: "Choose a job to continue with",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := mustApp(cmd)
		if err != nil {
			return err
		}
		route, err := application.Surveys.SelectJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("✓ Selected %s\n→ %s\n", args[0], route)
		return nil
	},
}

// readAnswers decodes a YAML (or JSON) answers file.
func readAnswers(path string) (map[string]any, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --file is required", app.ErrInvalidArgument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var answers map[string]any
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	return answers, nil
}

// applySelection understands recommended, preference:N and fit:N.
func applySelection(r *survey.Renderer, selection string) error {
	if selection == "recommended" {
		return r.SelectRecommended()
	}
	kind, rank, ok := strings.Cut(selection, ":")
	if !ok {
		return fmt.Errorf("%w: --select %q", app.ErrInvalidArgument, selection)
	}
	n, err := strconv.Atoi(rank)
	if err != nil {
		return fmt.Errorf("%w: rank %q", app.ErrInvalidArgument, rank)
	}
	return r.SelectRanked(survey.Kind(kind), n)
}

func init() {
	rootCmd.AddCommand(surveyCmd)
	surveyCmd.AddCommand(submitSurveyCmd)
	surveyCmd.AddCommand(selectJobCmd)

	submitSurveyCmd.Flags().String("file", "", "answers file (YAML or JSON)")
	submitSurveyCmd.Flags().String("survey", survey.DefaultSurveyID, "survey id")
	submitSurveyCmd.Flags().String("select", "", "recommended, preference:N or fit:N")
}
