package reflection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/proofhq/proof/pkg/models"
	"go.uber.org/zap"
)

// How an activity felt compared with usual.
const (
	Worse  = "worse"
	Same   = "same"
	Better = "better"
)

// MsgMicroSaveFailed is shown when a micro reflection is rejected.
const MsgMicroSaveFailed = "저장에 실패했습니다"

var ErrReasonRequired = errors.New("a reason is required unless the day felt the same")

// Option is one selectable answer.
type Option struct {
	ID    string
	Label string
}

// MicroActivities are the activity types a micro reflection is about.
var MicroActivities = []Option{
	{"lecture", "강의 / 팀플"},
	{"club", "학회 / 동아리"},
	{"contest", "공모전 / 프로젝트"},
	{"intern", "인턴 / 아르바이트"},
	{"study", "자격증 / 공부"},
	{"other", "기타"},
}

// PositiveReasons explain a better than usual day.
var PositiveReasons = []Option{
	{"communication", "사람들과 의견 주고받는 게 재밌었다"},
	{"creativity", "아이디어가 떠오르는 게 짜릿했다"},
	{"problem_solving", "문제가 깔끔하게 해결되는 게 시원했다"},
	{"helping", "누군가에게 도움이 된 느낌이 좋았다"},
	{"achievement", "결과/성과가 나오는 게 뿌듯했다"},
}

// NegativeReasons explain a worse than usual day.
var NegativeReasons = []Option{
	{"conflict", "사람들 사이 조율/갈등"},
	{"no_idea", "아이디어가 안 떠오름"},
	{"data_work", "숫자·자료 처리"},
	{"time_energy", "시간·체력 소모"},
	{"no_meaning", "내가 왜 이걸 해야 하는지 모르겠는 느낌"},
}

func hasOption(opts []Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Reasons returns the reasons offered for compare, or nil for Same.
func Reasons(compare string) []Option {
	switch compare {
	case Better:
		return PositiveReasons
	case Worse:
		return NegativeReasons
	}
	return nil
}

// Micro is a micro reflection being written.
type Micro struct {
	ActivityType string
	Memo         string
	MoodCompare  string
	Reason       string
	Tags         []string
}

// Validate checks m. A Same day carries no reason; a better or worse day
// needs one from the matching list.
func (m *Micro) Validate() error {
	if !hasOption(MicroActivities, m.ActivityType) {
		return fmt.Errorf("%w: activity type %q", ErrInvalid, m.ActivityType)
	}
	switch m.MoodCompare {
	case Same:
		m.Reason = ""
	case Better, Worse:
		if m.Reason == "" {
			return ErrReasonRequired
		}
		if !hasOption(Reasons(m.MoodCompare), m.Reason) {
			return fmt.Errorf("%w: reason %q for %s", ErrInvalid, m.Reason, m.MoodCompare)
		}
	default:
		return fmt.Errorf("%w: mood compare %q", ErrInvalid, m.MoodCompare)
	}
	return nil
}

// SuggestTags asks the backend for tags fitting the memo. Any failure
// yields no tags; the flow goes on without them.
func (s *Service) SuggestTags(ctx context.Context, activityType, memo string) []string {
	body := map[string]string{"activityType": activityType, "memo": memo}
	var out struct {
		Tags []string `json:"tags"`
	}
	if err := s.client.Post(ctx, "/api/ai/suggest-tags", body, &out); err != nil {
		s.logger.Debug("tag suggestion skipped", zap.Error(err))
		return nil
	}
	return out.Tags
}

// SubmitMicro validates and saves a micro reflection dated now.
func (s *Service) SubmitMicro(ctx context.Context, m Micro) (*models.MicroReflection, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	body := map[string]any{
		"activity_type": m.ActivityType,
		"memo":          strings.TrimSpace(m.Memo),
		"mood_compare":  m.MoodCompare,
		"reason":        m.Reason,
		"tags":          tags,
		"date":          time.Now().UTC().Format(time.RFC3339),
	}

	var created models.MicroReflection
	if err := s.client.Post(ctx, "/api/reflections/micro", body, &created); err != nil {
		return nil, &Failure{Msg: MsgMicroSaveFailed, Err: err}
	}
	return &created, nil
}

// ListMicro fetches micro reflections, newest first. limit <= 0 leaves
// the page size to the backend.
func (s *Service) ListMicro(ctx context.Context, limit int) ([]models.MicroReflection, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var page struct {
		Logs []models.MicroReflection `json:"logs"`
	}
	if err := s.client.Get(ctx, "/api/v1/reflections/micro", q, &page); err != nil {
		return nil, fmt.Errorf("list micro reflections: %w", err)
	}
	return page.Logs, nil
}

// DeleteMicro removes a micro reflection.
func (s *Service) DeleteMicro(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/v1/reflections/micro/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete micro reflection %s: %w", id, err)
	}
	return nil
}
