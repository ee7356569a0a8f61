// Package space manages collaboration spaces and their members.
package space

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/querycache"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/pkg/models"
	"go.uber.org/zap"
)

// Member roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Validation notices.
const (
	MsgNoValidEmails = "유효한 이메일을 입력해주세요"
	MsgNameRequired  = "스페이스 이름을 입력해주세요"
	MsgStartRequired = "시작일을 입력해주세요"
)

var (
	ErrNoValidEmails = errors.New("no valid email addresses")
	ErrClosed        = errors.New("space service closed")
	ErrInvalid       = errors.New("invalid space")
)

// Types a space can be created as.
var Types = []string{"contest", "project", "club", "internship"}

// TypeLabels for display
var TypeLabels = map[string]string{
	"contest":    "공모전",
	"project":    "프로젝트",
	"club":       "동아리",
	"internship": "인턴십",
}

// Preferences is the local key/value state the service writes to.
type Preferences interface {
	Set(ctx context.Context, key, value string) error
	UserID() string
}

// MembersKey is the cache key of a space's member list.
func MembersKey(spaceID string) string {
	return querycache.Key("space-members", spaceID)
}

// InviteLink is the shareable join link for a space.
func InviteLink(origin, spaceID string) string {
	return strings.TrimRight(origin, "/") + "/invite/" + spaceID
}

// ValidEmails keeps the trimmed entries that contain "@".
func ValidEmails(emails []string) []string {
	var out []string
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e != "" && strings.Contains(e, "@") {
			out = append(out, e)
		}
	}
	return out
}

// Service talks to the space endpoints. Member list writes for one space
// run one at a time on that space's writer goroutine; call Close to stop
// the writers.
type Service struct {
	client *api.Client
	cache  *querycache.Cache
	prefs  Preferences
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	writers map[string]chan op
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

type op struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// NewService returns a Service. prefs may be nil.
func NewService(client *api.Client, cache *querycache.Cache, prefs Preferences, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		cache:   cache,
		prefs:   prefs,
		logger:  logger,
		now:     time.Now,
		writers: map[string]chan op{},
		quit:    make(chan struct{}),
	}
}

// Close stops every writer and waits for running operations to finish.
func (s *Service) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		close(s.quit)
		s.mu.Unlock()
	})
	s.wg.Wait()
	return nil
}

// List returns the user's spaces.
func (s *Service) List(ctx context.Context) ([]models.Space, error) {
	var spaces []models.Space
	if err := s.client.Get(ctx, "/api/v1/spaces", nil, &spaces); err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return spaces, nil
}

// Validate normalizes req in place: a blank type becomes contest and a
// blank cycle weekly. Name and start date are required and dates use the
// 2006-01-02 layout.
func Validate(req *models.SpaceRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fmt.Errorf("%w: %s", ErrInvalid, MsgNameRequired)
	}
	if req.StartDate == "" {
		return fmt.Errorf("%w: %s", ErrInvalid, MsgStartRequired)
	}
	if req.Type == "" {
		req.Type = "contest"
	}
	if _, ok := TypeLabels[req.Type]; !ok {
		return fmt.Errorf("%w: type %q", ErrInvalid, req.Type)
	}
	if req.ReflectionSettings.Cycle == "" {
		req.ReflectionSettings.Cycle = models.CycleWeekly
	}
	if !req.ReflectionSettings.Cycle.Valid() {
		return fmt.Errorf("%w: cycle %q", ErrInvalid, req.ReflectionSettings.Cycle)
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start date %q", ErrInvalid, req.StartDate)
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end date %q", ErrInvalid, req.EndDate)
		}
		if end.Before(start) {
			return fmt.Errorf("%w: end date before start date", ErrInvalid)
		}
	}
	return nil
}

// Create validates and creates a space, then makes it the current space.
// Nothing is sent when validation fails.
func (s *Service) Create(ctx context.Context, req models.SpaceRequest) (*models.Space, error) {
	if err := Validate(&req); err != nil {
		return nil, err
	}
	var sp models.Space
	if err := s.client.Post(ctx, "/api/spaces", req, &sp); err != nil {
		return nil, fmt.Errorf("create space: %w", err)
	}
	if sp.Name == "" {
		sp.Name = req.Name
	}
	s.remember(ctx, sp.ID)
	return &sp, nil
}

// Get returns one space and remembers it as the current space.
func (s *Service) Get(ctx context.Context, id string) (*models.Space, error) {
	var sp models.Space
	if err := s.client.Get(ctx, "/api/v1/spaces/"+url.PathEscape(id), nil, &sp); err != nil {
		return nil, fmt.Errorf("get space %s: %w", id, err)
	}
	s.remember(ctx, id)
	return &sp, nil
}

func (s *Service) remember(ctx context.Context, id string) {
	if s.prefs == nil || id == "" {
		return
	}
	if err := s.prefs.Set(ctx, session.KeyCurrentSpaceID, id); err != nil {
		s.logger.Warn("failed to remember current space", zap.Error(err))
	}
}

// Delete removes a space and its cached members.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/v1/spaces/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete space %s: %w", id, err)
	}
	if err := s.cache.Invalidate(ctx, MembersKey(id)); err != nil {
		s.logger.Warn("failed to drop cached members", zap.String("space_id", id), zap.Error(err))
	}
	return nil
}

// Members returns the cached member list of a space. An empty list starts
// with the current user as owner.
func (s *Service) Members(ctx context.Context, spaceID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.cache.Get(ctx, MembersKey(spaceID), &members)
	if errors.Is(err, querycache.ErrMiss) || (err == nil && len(members) == 0) {
		return []models.TeamMember{s.owner()}, nil
	}
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Service) owner() models.TeamMember {
	userID := ""
	if s.prefs != nil {
		userID = s.prefs.UserID()
	}
	return models.TeamMember{ID: "1", UserID: userID, Name: "나", Role: RoleOwner, JoinedAt: s.now()}
}

// Invite sends invitations to the valid addresses in emails. The invitees
// are added to the member list before the request and removed again if
// the request fails. Without any valid address nothing is sent.
func (s *Service) Invite(ctx context.Context, spaceID, spaceName string, emails []string) ([]models.TeamMember, error) {
	valid := ValidEmails(emails)
	if len(valid) == 0 {
		return nil, ErrNoValidEmails
	}

	var invited []models.TeamMember
	err := s.enqueue(ctx, spaceID, func(ctx context.Context) error {
		invited = s.optimistic(valid)
		if err := s.appendMembers(ctx, spaceID, invited); err != nil {
			return err
		}

		body := map[string]any{"space_id": spaceID, "space_name": spaceName, "emails": valid}
		if err := s.client.Post(ctx, "/api/v1/invites", body, nil); err != nil {
			// the request context may be what failed; rollback must still land
			if rbErr := s.removeMembers(context.WithoutCancel(ctx), spaceID, invited); rbErr != nil {
				s.logger.Error("invite rollback failed", zap.String("space_id", spaceID), zap.Error(rbErr))
			}
			return fmt.Errorf("send invites: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invited, nil
}

func (s *Service) optimistic(emails []string) []models.TeamMember {
	now := s.now()
	members := make([]models.TeamMember, len(emails))
	for i, e := range emails {
		local, _, _ := strings.Cut(e, "@")
		members[i] = models.TeamMember{
			ID:       "temp-" + uuid.NewString(),
			UserID:   fmt.Sprintf("temp-user-%d", i),
			Name:     local,
			Email:    e,
			Role:     RoleMember,
			JoinedAt: now,
		}
	}
	return members
}

func (s *Service) appendMembers(ctx context.Context, spaceID string, add []models.TeamMember) error {
	return querycache.Update(ctx, s.cache, MembersKey(spaceID), func(cur []models.TeamMember) ([]models.TeamMember, error) {
		if len(cur) == 0 {
			cur = []models.TeamMember{s.owner()}
		}
		return append(cur, add...), nil
	})
}

func (s *Service) removeMembers(ctx context.Context, spaceID string, drop []models.TeamMember) error {
	ids := make(map[string]bool, len(drop))
	for _, m := range drop {
		ids[m.ID] = true
	}
	return querycache.Update(ctx, s.cache, MembersKey(spaceID), func(cur []models.TeamMember) ([]models.TeamMember, error) {
		kept := cur[:0]
		for _, m := range cur {
			if !ids[m.ID] {
				kept = append(kept, m)
			}
		}
		return kept, nil
	})
}

// enqueue runs fn on the writer of spaceID and waits for its result.
func (s *Service) enqueue(ctx context.Context, spaceID string, fn func(context.Context) error) error {
	ch, err := s.writer(spaceID)
	if err != nil {
		return err
	}

	o := op{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case ch <- o:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrClosed
	}

	// once accepted, the operation runs to completion so that a rollback
	// is never abandoned halfway
	return <-o.done
}

func (s *Service) writer(spaceID string) (chan op, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.quit:
		return nil, ErrClosed
	default:
	}

	ch, ok := s.writers[spaceID]
	if !ok {
		ch = make(chan op)
		s.writers[spaceID] = ch
		s.wg.Add(1)
		go s.run(ch)
	}
	return ch, nil
}

func (s *Service) run(ch chan op) {
	defer s.wg.Done()
	for {
		select {
		case o := <-ch:
			o.done <- o.fn(o.ctx)
		case <-s.quit:
			return
		}
	}
}
