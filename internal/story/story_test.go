package story

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/database"
	"github.com/proofhq/proof/internal/querycache"
	"github.com/proofhq/proof/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClassifiesState(t *testing.T) {
	tests := []struct {
		name string
		data *models.StoryData
		want State
	}{
		{"absent", nil, Insufficient},
		{"only intro", &models.StoryData{IntroTitle: "hi", TotalDays: 30}, Insufficient},
		{"activities", &models.StoryData{ActivitySummary: []models.ActivityCount{{Label: "공모전", Count: 2}}}, Ready},
		{"negative pattern", &models.StoryData{NegativePatterns: []models.Pattern{{Label: "야근", Count: 1}}}, Ready},
		{"strength only", &models.StoryData{StrengthAnalysis: "꾸준함"}, Ready},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(Month, tt.data).State)
		})
	}
}

func TestNormalizeFillsFallbacks(t *testing.T) {
	s := New(Week, &models.StoryData{TotalDays: 7, ActivitySummary: []models.ActivityCount{{Label: "스터디", Count: 3}}})

	assert.Equal(t, "지난 7일 동안의 여정", s.Data.IntroTitle)
	assert.Equal(t, FallbackIntroMessage, s.Data.IntroMessage)
	assert.Equal(t, FallbackPeriodLabel, s.Data.PeriodLabel)
	assert.Equal(t, FallbackStrength, s.Data.StrengthAnalysis)
	assert.Equal(t, FallbackSuggestion, s.Data.NextSuggestion)

	kept := New(Week, &models.StoryData{IntroTitle: "나의 한 주", StrengthAnalysis: "리더십"})
	assert.Equal(t, "나의 한 주", kept.Data.IntroTitle)
	assert.Equal(t, "리더십", kept.Data.StrengthAnalysis)

	assert.Equal(t, "지난 0일 동안의 여정", New(Month, nil).Data.IntroTitle)
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "1주", Week.Span())
	assert.Equal(t, "1개월", Month.Span())
	assert.Equal(t, "3개월", Quarter.Span())
	assert.Equal(t, "최근 3개월", Quarter.Label())
	assert.False(t, Period("year").Valid())
}

func TestRender(t *testing.T) {
	s := New(Quarter, &models.StoryData{
		TotalDays:        90,
		ActivitySummary:  []models.ActivityCount{{Label: "공모전", Icon: "🏆", Count: 4}},
		PositiveCount:    5,
		PositivePatterns: []models.Pattern{{Label: "팀 프로젝트", Count: 3}},
		SuggestedTracks:  []string{"PM", "데이터 분석"},
		RecommendedActivities: []models.SuggestedActivity{
			{Title: "해커톤 참가", Description: "협업 경험을 넓혀요"},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))
	out := buf.String()

	assert.Contains(t, out, "지난 90일 동안의 여정")
	assert.Contains(t, out, "공모전")
	assert.Contains(t, out, "4회 활동")
	assert.Contains(t, out, "평소보다 기분이 좋아진 활동 5회 중,")
	assert.Contains(t, out, "3회는 “팀 프로젝트”과 관련")
	assert.Contains(t, out, EmptyPatterns, "negative patterns are absent")
	assert.Contains(t, out, "다음 3개월 제안")
	assert.Contains(t, out, "해커톤 참가")
	assert.Contains(t, out, "협업 경험을 넓혀요")
}

func TestRenderInsufficient(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, New(Month, nil)))
	out := buf.String()

	assert.Contains(t, out, FallbackStrength)
	assert.Contains(t, out, FallbackSuggestion)
	assert.NotContains(t, out, "내가 많이 했던 활동")
}

func TestWriteHTMLEscapes(t *testing.T) {
	s := New(Week, &models.StoryData{StrengthAnalysis: "<script>alert(1)</script>"})
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, s))

	assert.Contains(t, buf.String(), "다음 1주 제안")
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestFetch(t *testing.T) {
	var periods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reflections/story", r.URL.Path)
		periods = append(periods, r.URL.Query().Get("period"))
		if r.URL.Query().Get("period") == "week" {
			w.Write([]byte(`{"success":true,"data":null}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"total_days":30,"strength_analysis":"끈기","suggested_tracks":["PM"]}}`))
	}))
	defer srv.Close()

	db, err := database.Open(filepath.Join(t.TempDir(), "proof.db"))
	require.NoError(t, err)
	defer db.Close()
	cache := querycache.New(database.NewRepository(db))
	svc := NewService(api.New(srv.URL, nil), cache, nil)
	ctx := context.Background()

	s, err := svc.Fetch(ctx, Month)
	require.NoError(t, err)
	assert.Equal(t, Ready, s.State)
	assert.Equal(t, "끈기", s.Data.StrengthAnalysis)

	s, err = svc.Fetch(ctx, Week)
	require.NoError(t, err)
	assert.Equal(t, Insufficient, s.State)

	_, err = svc.Fetch(ctx, "year")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.Equal(t, []string{"month", "week"}, periods, "invalid period sends nothing")

	cached, err := svc.Cached(ctx, Month)
	require.NoError(t, err)
	assert.Equal(t, []string{"PM"}, cached.Data.SuggestedTracks)

	_, err = svc.Cached(ctx, Week)
	assert.ErrorIs(t, err, querycache.ErrMiss)
}
