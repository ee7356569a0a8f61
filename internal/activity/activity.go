// Package activity lists recommended extracurricular activities and the
// user's bookmarks.
package activity

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/pkg/models"
)

// Categories accepted by the backend.
var Categories = []string{"contest", "project", "club", "study", "internship", "volunteer"}

// Labels for display
var CategoryLabels = map[string]string{
	"contest":    "공모전",
	"project":    "프로젝트",
	"club":       "동아리",
	"study":      "스터디",
	"internship": "인턴십",
	"volunteer":  "봉사활동",
}

const defaultLimit = 20

// Filter narrows List. Zero values mean no filter.
type Filter struct {
	Category string
	Field    string
	Sort     string
	Search   string
	Limit    int
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Category != "" && f.Category != "all" {
		q.Set("category", f.Category)
	}
	if f.Field != "" && f.Field != "all" {
		q.Set("fields", f.Field)
	}
	sort := f.Sort
	if sort == "" {
		sort = "recommended"
	}
	q.Set("sort", sort)
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// Service talks to the recommendation endpoints.
type Service struct {
	client *api.Client
}

// NewService returns a Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List returns recommended activities.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Activity, error) {
	var page struct {
		Activities []models.Activity `json:"activities"`
	}
	if err := s.client.Get(ctx, "/api/recommendations/activities", f.query(), &page); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return page.Activities, nil
}

func bookmarkPath(id string) string {
	return "/api/recommendations/activities/" + url.PathEscape(id) + "/bookmark"
}

// Bookmark saves an activity.
func (s *Service) Bookmark(ctx context.Context, id string) error {
	if err := s.client.Post(ctx, bookmarkPath(id), nil, nil); err != nil {
		return fmt.Errorf("bookmark %s: %w", id, err)
	}
	return nil
}

// Unbookmark removes a saved activity.
func (s *Service) Unbookmark(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, bookmarkPath(id), nil); err != nil {
		return fmt.Errorf("unbookmark %s: %w", id, err)
	}
	return nil
}

// Toggle flips the bookmark of a and returns the new state.
func (s *Service) Toggle(ctx context.Context, a models.Activity) (bool, error) {
	if a.IsBookmarked {
		return false, s.Unbookmark(ctx, a.ID)
	}
	return true, s.Bookmark(ctx, a.ID)
}

// Bookmarks lists saved activities.
func (s *Service) Bookmarks(ctx context.Context) ([]models.Bookmark, error) {
	var out []models.Bookmark
	if err := s.client.Get(ctx, "/api/recommendations/bookmarks", nil, &out); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}
