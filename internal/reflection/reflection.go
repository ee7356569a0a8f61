// Package reflection writes, submits and reads back reflections.
package reflection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/catalog"
	"github.com/proofhq/proof/pkg/models"
	"go.uber.org/zap"
)

// MsgSaveFailed is shown when the backend rejects a reflection without a message.
const MsgSaveFailed = "회고 저장에 실패했습니다"

// MsgEmptyContent is the validation notice for blank content.
const MsgEmptyContent = "회고 내용을 입력해주세요"

var (
	ErrEmptyContent = errors.New("reflection content is empty")
	ErrInvalid      = errors.New("invalid reflection")
)

// DefaultQuestions are asked when no template applies.
var DefaultQuestions = []string{
	"오늘 무엇을 했나요?",
	"어떤 어려움이 있었나요?",
	"내일 무엇을 할 건가요?",
}

// Route returns the screen showing reflection id.
func Route(id string) string {
	return "/dashboard/reflections/" + id
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(route string)
}

// DraftStore keeps reflections that could not be submitted.
type DraftStore interface {
	CreateDraft(ctx context.Context, d *models.Draft) error
	GetDraft(ctx context.Context, id int) (*models.Draft, error)
	ListDrafts(ctx context.Context) ([]*models.Draft, error)
	DeleteDraft(ctx context.Context, id int) error
}

// Context is where a reflection is being written from.
type Context struct {
	LogID      string
	ProjectID  string
	SpaceID    string
	TemplateID string
	Cycle      models.Cycle
}

// Failure is a submission the backend or network rejected. DraftID is the
// local draft the content was saved to, or 0.
type Failure struct {
	Msg     string
	DraftID int
	Err     error
}

func (e *Failure) Error() string { return e.Msg }
func (e *Failure) Unwrap() error { return e.Err }

// ListFilter narrows List.
type ListFilter struct {
	SpaceID string
	Limit   int
}

// Service talks to the reflection endpoints.
type Service struct {
	client  *api.Client
	drafts  DraftStore
	catalog *catalog.Catalog
	nav     Navigator
	logger  *zap.Logger
}

// NewService returns a Service. drafts, cat and nav may be nil.
func NewService(client *api.Client, drafts DraftStore, cat *catalog.Catalog, nav Navigator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, drafts: drafts, catalog: cat, nav: nav, logger: logger}
}

// Questions resolves the prompt questions for templateID: the backend
// first, then the local catalog, then DefaultQuestions.
func (s *Service) Questions(ctx context.Context, templateID string) []string {
	lookups := []Lookup{s.backendTemplate}
	if s.catalog != nil {
		lookups = append(lookups, func(_ context.Context, id string) (models.Template, error) {
			return s.catalog.Get(id)
		})
	}
	return ResolveQuestions(ctx, Chain(lookups...), templateID)
}

func (s *Service) backendTemplate(ctx context.Context, id string) (models.Template, error) {
	var t models.Template
	err := s.client.Get(ctx, "/api/templates/"+url.PathEscape(id), nil, &t)
	if err != nil {
		s.logger.Debug("template lookup failed", zap.String("template_id", id), zap.Error(err))
	}
	return t, err
}

// Submit validates and posts a reflection. Blank content fails with
// ErrEmptyContent before any request. On a rejected submission the draft
// is kept locally and a *Failure is returned.
func (s *Service) Submit(ctx context.Context, d *Draft, rc Context) (*models.Reflection, error) {
	if d.Empty() {
		return nil, ErrEmptyContent
	}
	if rc.Cycle == "" {
		rc.Cycle = models.CycleWeekly
	}
	if !rc.Cycle.Valid() {
		return nil, fmt.Errorf("%w: cycle %q", ErrInvalid, rc.Cycle)
	}

	req := models.ReflectionRequest{
		LogID:         rc.LogID,
		ProjectID:     rc.ProjectID,
		SpaceID:       rc.SpaceID,
		TemplateID:    rc.TemplateID,
		Cycle:         rc.Cycle,
		Content:       d.Content,
		Answers:       d.Answers(),
		Mood:          d.Mood,
		ProgressScore: d.ProgressScore,
	}

	var created models.Reflection
	if err := s.client.Post(ctx, "/api/reflections", req, &created); err != nil {
		msg := api.Message(err)
		if msg == "" {
			msg = MsgSaveFailed
		}
		return nil, &Failure{Msg: msg, DraftID: s.keepDraft(ctx, req, msg), Err: err}
	}

	if s.nav != nil {
		s.nav.Navigate(Route(created.ID))
	}
	return &created, nil
}

// keepDraft saves the request locally. Failing to save is logged only;
// the submission error is what the user needs to see.
func (s *Service) keepDraft(ctx context.Context, req models.ReflectionRequest, reason string) int {
	if s.drafts == nil {
		return 0
	}
	d := &models.Draft{
		LogID:         req.LogID,
		ProjectID:     req.ProjectID,
		SpaceID:       req.SpaceID,
		TemplateID:    req.TemplateID,
		Cycle:         req.Cycle,
		Content:       req.Content,
		Mood:          req.Mood,
		ProgressScore: req.ProgressScore,
		Answers:       req.Answers,
		LastError:     reason,
	}
	if err := s.drafts.CreateDraft(ctx, d); err != nil {
		s.logger.Warn("failed to keep draft", zap.Error(err))
		return 0
	}
	return d.ID
}

// Drafts lists locally kept reflections, newest first.
func (s *Service) Drafts(ctx context.Context) ([]*models.Draft, error) {
	if s.drafts == nil {
		return nil, nil
	}
	return s.drafts.ListDrafts(ctx)
}

// Retry submits a kept draft again and forgets it on success.
func (s *Service) Retry(ctx context.Context, draftID int) (*models.Reflection, error) {
	if s.drafts == nil {
		return nil, fmt.Errorf("no draft store")
	}
	saved, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("load draft %d: %w", draftID, err)
	}

	rc := Context{
		LogID:      saved.LogID,
		ProjectID:  saved.ProjectID,
		SpaceID:    saved.SpaceID,
		TemplateID: saved.TemplateID,
		Cycle:      saved.Cycle,
	}
	created, err := s.Submit(ctx, DraftFrom(saved), rc)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) && f.DraftID != 0 {
			// Submit kept a fresh copy; drop the old one so there is only one
			_ = s.drafts.DeleteDraft(ctx, draftID)
		}
		return nil, err
	}
	if err := s.drafts.DeleteDraft(ctx, draftID); err != nil {
		s.logger.Warn("failed to delete submitted draft", zap.Int("draft_id", draftID), zap.Error(err))
	}
	return created, nil
}

// Get fetches one reflection.
func (s *Service) Get(ctx context.Context, id string) (*models.Reflection, error) {
	var r models.Reflection
	if err := s.client.Get(ctx, "/api/reflections/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, fmt.Errorf("get reflection %s: %w", id, err)
	}
	return &r, nil
}

// List fetches reflections, newest first as the backend orders them.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Reflection, error) {
	q := url.Values{}
	if f.SpaceID != "" {
		q.Set("space_id", f.SpaceID)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var page struct {
		Reflections []models.Reflection `json:"reflections"`
	}
	if err := s.client.Get(ctx, "/api/v1/reflections", q, &page); err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	return page.Reflections, nil
}

// Delete removes a reflection.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/v1/reflections/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete reflection %s: %w", id, err)
	}
	return nil
}
