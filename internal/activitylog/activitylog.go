// Package activitylog keeps dated notes written against an activity.
package activitylog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/pkg/models"
)

// MsgEmptyContent is the validation notice for a blank log.
const MsgEmptyContent = "로그 내용을 입력해주세요"

var (
	ErrInvalid      = errors.New("invalid activity log")
	ErrEmptyContent = errors.New("activity log content is empty")
	ErrNoChanges    = errors.New("nothing to update")
)

// Filter narrows List. Zero values mean no filter.
type Filter struct {
	Page       int
	Limit      int
	ActivityID string
	StartDate  string
	EndDate    string
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.ActivityID != "" {
		q.Set("activityId", f.ActivityID)
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	return q
}

// Entry is a new log.
type Entry struct {
	ActivityID  string
	Content     string
	Reflections string
	Tags        []string
	Date        string // 2006-01-02, today when blank
}

// Service talks to the log endpoints.
type Service struct {
	client *api.Client
	now    func() time.Time
}

// NewService returns a Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client, now: time.Now}
}

func logPath(id string) string {
	return "/logs/" + url.PathEscape(id)
}

// List returns logs matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]models.ActivityLog, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/logs", f.query(), &raw); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return decodeList(raw)
}

// decodeList accepts a bare array or an object with a logs field.
func decodeList(raw json.RawMessage) ([]models.ActivityLog, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var logs []models.ActivityLog
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &logs); err != nil {
			return nil, fmt.Errorf("decode logs: %w", err)
		}
		return logs, nil
	}
	var page struct {
		Logs []models.ActivityLog `json:"logs"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	return page.Logs, nil
}

// Get fetches one log.
func (s *Service) Get(ctx context.Context, id string) (*models.ActivityLog, error) {
	var l models.ActivityLog
	if err := s.client.Get(ctx, logPath(id), nil, &l); err != nil {
		return nil, fmt.Errorf("get log %s: %w", id, err)
	}
	return &l, nil
}

// Create validates and saves a new log. Nothing is sent when the content
// is blank or the activity is missing.
func (s *Service) Create(ctx context.Context, e Entry) (*models.ActivityLog, error) {
	e.ActivityID = strings.TrimSpace(e.ActivityID)
	if e.ActivityID == "" {
		return nil, fmt.Errorf("%w: activity id is required", ErrInvalid)
	}
	if strings.TrimSpace(e.Content) == "" {
		return nil, ErrEmptyContent
	}
	if e.Date == "" {
		e.Date = s.now().Format(time.DateOnly)
	}
	if err := checkDate(e.Date); err != nil {
		return nil, err
	}

	tags := Tags(e.Tags)
	req := models.LogRequest{
		ActivityID: &e.ActivityID,
		Content:    &e.Content,
		Date:       &e.Date,
		Tags:       &tags,
	}
	if e.Reflections != "" {
		req.Reflections = &e.Reflections
	}

	var created models.ActivityLog
	if err := s.client.Post(ctx, "/logs", req, &created); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	return &created, nil
}

// Update sends only the fields set in req.
func (s *Service) Update(ctx context.Context, id string, req models.LogRequest) (*models.ActivityLog, error) {
	if req == (models.LogRequest{}) {
		return nil, ErrNoChanges
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if req.Date != nil {
		if err := checkDate(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		tags := Tags(*req.Tags)
		req.Tags = &tags
	}

	var updated models.ActivityLog
	if err := s.client.Put(ctx, logPath(id), req, &updated); err != nil {
		return nil, fmt.Errorf("update log %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a log.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, logPath(id), nil); err != nil {
		return fmt.Errorf("delete log %s: %w", id, err)
	}
	return nil
}

// Tags trims, drops blanks and removes repeats, keeping first-seen order.
func Tags(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := []string{}
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func checkDate(d string) error {
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalid, d)
	}
	return nil
}
