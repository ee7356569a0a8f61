// Package story fetches and presents the growth story: a precomputed
// summary of a period's reflections. Nothing is aggregated locally.
package story

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/querycache"
	"github.com/proofhq/proof/pkg/models"
	"go.uber.org/zap"
)

// Period is the time window of a story.
type Period string

const (
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
)

// Periods lists the accepted periods in display order.
var Periods = []Period{Week, Month, Quarter}

var ErrInvalidPeriod = errors.New("period must be week, month or quarter")

// Valid reports whether p is one of Periods.
func (p Period) Valid() bool {
	switch p {
	case Week, Month, Quarter:
		return true
	}
	return false
}

// Label is the period selector text.
func (p Period) Label() string {
	return "최근 " + p.Span()
}

// Span is the length of the period, e.g. "1개월".
func (p Period) Span() string {
	switch p {
	case Week:
		return "1주"
	case Quarter:
		return "3개월"
	}
	return "1개월"
}

// State says whether there is enough data to tell a story.
type State int

const (
	Insufficient State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "insufficient"
}

// Fallback texts for absent fields
const (
	FallbackIntroMessage = "ProoF에 기록된 경험을 분석해 보았어요."
	FallbackPeriodLabel  = "최근 활동 요약"
	FallbackStrength     = "아직 충분한 데이터가 없어요. 조금 더 기록해주세요!"
	FallbackSuggestion   = "더 많은 경험을 쌓아보세요!"
	EmptyActivities      = "아직 활동 기록이 없어요"
	EmptyPatterns        = "아직 패턴을 찾기에 데이터가 부족해요"
)

// FallbackIntroTitle is the title used when the backend sends none.
func FallbackIntroTitle(totalDays int) string {
	return fmt.Sprintf("지난 %d일 동안의 여정", totalDays)
}

// Story is a story ready for display. Data always has every text field
// filled, so renderers never need their own fallbacks.
type Story struct {
	State  State
	Period Period
	Data   models.StoryData
}

// New classifies data and fills absent fields. A nil data, or one with no
// activity summary, no patterns and no strength analysis, is Insufficient.
func New(period Period, data *models.StoryData) *Story {
	s := &Story{Period: period}
	if data != nil {
		s.Data = *data
		if len(data.ActivitySummary) > 0 || len(data.PositivePatterns) > 0 ||
			len(data.NegativePatterns) > 0 || data.StrengthAnalysis != "" {
			s.State = Ready
		}
	}
	s.Normalize()
	return s
}

// Normalize fills every absent text field with its fallback.
func (s *Story) Normalize() {
	d := &s.Data
	if d.IntroTitle == "" {
		d.IntroTitle = FallbackIntroTitle(d.TotalDays)
	}
	if d.IntroMessage == "" {
		d.IntroMessage = FallbackIntroMessage
	}
	if d.PeriodLabel == "" {
		d.PeriodLabel = FallbackPeriodLabel
	}
	if d.StrengthAnalysis == "" {
		d.StrengthAnalysis = FallbackStrength
	}
	if d.NextSuggestion == "" {
		d.NextSuggestion = FallbackSuggestion
	}
	if d.Period == "" {
		d.Period = string(s.Period)
	}
}

// Service fetches stories.
type Service struct {
	client *api.Client
	cache  *querycache.Cache
	logger *zap.Logger
}

// NewService returns a Service. cache may be nil.
func NewService(client *api.Client, cache *querycache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

func cacheKey(p Period) string {
	return querycache.Key("story-view", string(p))
}

// Fetch loads the story for period from the backend and keeps a copy in
// the cache.
func (s *Service) Fetch(ctx context.Context, period Period) (*Story, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	var data *models.StoryData
	q := url.Values{"period": {string(period)}}
	if err := s.client.Get(ctx, "/api/reflections/story", q, &data); err != nil {
		return nil, fmt.Errorf("fetch story: %w", err)
	}

	if s.cache != nil && data != nil {
		if err := s.cache.Set(ctx, cacheKey(period), data); err != nil {
			s.logger.Warn("failed to cache story", zap.Error(err))
		}
	}
	return New(period, data), nil
}

// Cached returns the last fetched story for period.
func (s *Service) Cached(ctx context.Context, period Period) (*Story, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	if s.cache == nil {
		return nil, querycache.ErrMiss
	}
	var data models.StoryData
	if err := s.cache.Get(ctx, cacheKey(period), &data); err != nil {
		return nil, err
	}
	return New(period, &data), nil
}
