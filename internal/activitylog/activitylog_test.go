package activitylog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, calls *atomic.Int32, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	svc := NewService(api.New(srv.URL, nil))
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestFilterQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"empty", Filter{}, ""},
		{"everything", Filter{Page: 2, Limit: 10, ActivityID: "a1", StartDate: "2026-10-01", EndDate: "2026-10-31"},
			"activityId=a1&endDate=2026-10-31&limit=10&page=2&startDate=2026-10-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.query().Encode())
		})
	}
}

func TestListAcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array", `{"success":true,"data":[{"id":"l1","activityId":"a1","content":"기획안 초안","date":"2026-10-14"}]}`},
		{"page", `{"success":true,"data":{"logs":[{"id":"l1","activityId":"a1","content":"기획안 초안","date":"2026-10-14"}],"total":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			svc := newService(t, &calls, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/logs", r.URL.Path)
				assert.Equal(t, "a1", r.URL.Query().Get("activityId"))
				w.Write([]byte(tt.body))
			})

			logs, err := svc.List(context.Background(), Filter{ActivityID: "a1"})
			require.NoError(t, err)
			want := []models.ActivityLog{{ID: "l1", ActivityID: "a1", Content: "기획안 초안", Date: "2026-10-14"}}
			if diff := cmp.Diff(want, logs); diff != "" {
				t.Errorf("logs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	var body map[string]any
	var calls atomic.Int32
	svc := newService(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/logs", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"data":{"id":"l9","activityId":"a1","content":"발표 리허설","date":"2026-10-15"}}`))
	})

	created, err := svc.Create(context.Background(), Entry{
		ActivityID: " a1 ",
		Content:    "발표 리허설",
		Tags:       []string{"발표", " ", "발표", "팀워크"},
	})
	require.NoError(t, err)
	assert.Equal(t, "l9", created.ID)

	assert.Equal(t, "a1", body["activityId"])
	assert.Equal(t, "2026-10-15", body["date"])
	assert.Equal(t, []any{"발표", "팀워크"}, body["tags"])
	assert.NotContains(t, body, "reflections")
}

func TestCreateRejectsBeforeSending(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  error
	}{
		{"no activity", Entry{Content: "x"}, ErrInvalid},
		{"blank content", Entry{ActivityID: "a1", Content: "  \n"}, ErrEmptyContent},
		{"bad date", Entry{ActivityID: "a1", Content: "x", Date: "15.10.2026"}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			svc := newService(t, &calls, func(w http.ResponseWriter, r *http.Request) {})

			_, err := svc.Create(context.Background(), tt.entry)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, calls.Load())
		})
	}
}

func TestUpdateSendsOnlySetFields(t *testing.T) {
	var body map[string]any
	var calls atomic.Int32
	svc := newService(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/logs/l1", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"data":{"id":"l1","content":"수정본"}}`))
	})
	ctx := context.Background()

	_, err := svc.Update(ctx, "l1", models.LogRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Zero(t, calls.Load())

	content := "수정본"
	updated, err := svc.Update(ctx, "l1", models.LogRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "수정본", updated.Content)
	assert.Equal(t, map[string]any{"content": "수정본"}, body)
}

func TestGetAndDelete(t *testing.T) {
	var calls atomic.Int32
	var seen []string
	svc := newService(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"id":"l1","content":"회의록"}}`))
	})
	ctx := context.Background()

	l, err := svc.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "회의록", l.Content)
	require.NoError(t, svc.Delete(ctx, "l1"))

	assert.Equal(t, []string{"GET /logs/l1", "DELETE /logs/l1"}, seen)
}

func TestDeleteSurfacesBackendError(t *testing.T) {
	var calls atomic.Int32
	svc := newService(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"LOG_NOT_FOUND","message":"로그를 찾을 수 없습니다"}}`))
	})

	err := svc.Delete(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, "LOG_NOT_FOUND", api.Code(err))
}
