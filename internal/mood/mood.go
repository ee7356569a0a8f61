// Package mood records the user's baseline mood, the everyday state that
// reflection moods are compared against.
package mood

import (
	"context"
	"fmt"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/session"
	"go.uber.org/zap"
)

// Baseline is the user's usual mood.
type Baseline string

const (
	Tired    Baseline = "tired"
	Neutral  Baseline = "neutral"
	Positive Baseline = "positive"
)

// Baselines in display order
var Baselines = []Baseline{Tired, Neutral, Positive}

var labels = map[Baseline]string{
	Tired:    "대체로 힘들고 지친 편",
	Neutral:  "그냥 쏘쏘",
	Positive: "나름 즐겁게 지내는 편",
}

// Label returns the display text.
func (b Baseline) Label() string { return labels[b] }

// Valid reports whether b is a known baseline.
func (b Baseline) Valid() bool {
	_, ok := labels[b]
	return ok
}

// Store is where the baseline is kept locally.
type Store interface {
	Get(key string) string
	Set(ctx context.Context, key, value string) error
}

// Service saves the baseline locally and reports it to the backend.
type Service struct {
	client *api.Client
	store  Store
	logger *zap.Logger
}

// NewService returns a Service.
func NewService(client *api.Client, store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, store: store, logger: logger}
}

// Current returns the stored baseline, or "" when none was set.
func (s *Service) Current() Baseline {
	return Baseline(s.store.Get(session.KeyBaselineMood))
}

// Set stores b locally, then posts it to the backend. Only the local
// write can fail Set; a backend failure is logged.
func (s *Service) Set(ctx context.Context, b Baseline) error {
	if !b.Valid() {
		return fmt.Errorf("unknown baseline mood %q", b)
	}
	if err := s.store.Set(ctx, session.KeyBaselineMood, string(b)); err != nil {
		return fmt.Errorf("save baseline mood: %w", err)
	}

	body := map[string]string{"baseline_mood": string(b)}
	if err := s.client.Post(ctx, "/api/user/baseline-mood", body, nil); err != nil {
		s.logger.Info("baseline mood not sent to backend", zap.Error(err))
	}
	return nil
}
