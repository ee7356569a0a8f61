// Package survey submits the career survey and presents its result. All
// scores and rankings come from the backend; nothing here sorts or scores.
package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/pkg/models"
	"go.uber.org/zap"
)

// DefaultSurveyID is the general career survey.
const DefaultSurveyID = "survey-general"

// MsgSubmitFailed is shown when the backend rejects a submission without detail.
const MsgSubmitFailed = "설문 제출 중 오류가 발생했습니다."

var ErrNoAnswers = errors.New("survey has no answers")

// Preferences is the local key/value state the survey writes to.
type Preferences interface {
	Set(ctx context.Context, key, value string) error
}

// SpecCheckRoute is the screen a selected job leads to.
func SpecCheckRoute(jobID string) string {
	return "/dashboard/spec-check/" + jobID
}

// Service submits surveys and records job choices.
type Service struct {
	client *api.Client
	prefs  Preferences
	logger *zap.Logger
}

// NewService returns a Service.
func NewService(client *api.Client, prefs Preferences, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, prefs: prefs, logger: logger}
}

type submission struct {
	SurveyID string         `json:"survey_id"`
	Answers  map[string]any `json:"answers"`
	UserID   string         `json:"user_id,omitempty"`
}

// Submit sends answers and returns the computed result. The recommended
// job is remembered locally; failing to remember it does not fail Submit.
func (s *Service) Submit(ctx context.Context, surveyID, userID string, answers map[string]any) (*models.SurveyResult, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}
	if surveyID == "" {
		surveyID = DefaultSurveyID
	}

	var res models.SurveyResult
	err := s.client.Post(ctx, "/api/v1/survey/submit", submission{SurveyID: surveyID, Answers: answers, UserID: userID}, &res)
	if err != nil {
		msg := api.Message(err)
		if msg == "" {
			msg = MsgSubmitFailed
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	if id := res.RecommendedJob.JobID; id != "" && s.prefs != nil {
		if err := s.prefs.Set(ctx, session.KeyRecommendedJob, id); err != nil {
			s.logger.Warn("failed to remember recommended job", zap.Error(err))
		}
	}
	return &res, nil
}

// SelectJob records jobID as both the selected and recommended job and
// returns the route to continue to.
func (s *Service) SelectJob(ctx context.Context, jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return "", errors.New("empty job id")
	}
	if s.prefs != nil {
		for _, key := range []string{session.KeySelectedJob, session.KeyRecommendedJob} {
			if err := s.prefs.Set(ctx, key, jobID); err != nil {
				return "", fmt.Errorf("save %s: %w", key, err)
			}
		}
	}
	return SpecCheckRoute(jobID), nil
}
