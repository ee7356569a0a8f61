// Package ai writes career feedback with Gemini.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// MsgAnalysisFailed is the user-facing text for any failed generation.
const MsgAnalysisFailed = "AI 분석 생성에 실패했습니다."

var ErrNoAPIKey = errors.New("gemini api key is not configured")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini client. An empty key fails with ErrNoAPIKey.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Generate sends one prompt and returns the response text.
func (g *Gemini) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Analyzer turns job scores into a coaching message.
type Analyzer struct {
	gen    Generator
	model  string
	logger *zap.Logger
}

// NewAnalyzer returns an Analyzer. An empty model means DefaultModel.
func NewAnalyzer(gen Generator, model string, logger *zap.Logger) *Analyzer {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{gen: gen, model: model, logger: logger}
}

// AnalysisError is a failed generation. Its message is always MsgAnalysisFailed.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return MsgAnalysisFailed }
func (e *AnalysisError) Unwrap() error { return e.Err }

// CareerAnalysis asks the model once for a message about topJob. There is
// no retry. The returned text is the model output, trimmed.
func (a *Analyzer) CareerAnalysis(ctx context.Context, topJob string, scores Scores) (string, error) {
	label, ok := JobLabels[topJob]
	if !ok {
		return "", fmt.Errorf("unknown job code %q", topJob)
	}
	if a.gen == nil {
		return "", &AnalysisError{Err: ErrNoAPIKey}
	}

	text, err := a.gen.Generate(ctx, a.model, BuildPrompt(label, scores))
	if err != nil {
		a.logger.Warn("gemini request failed", zap.String("model", a.model), zap.Error(err))
		return "", &AnalysisError{Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &AnalysisError{Err: errors.New("empty response")}
	}
	return text, nil
}
