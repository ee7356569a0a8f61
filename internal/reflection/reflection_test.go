package reflection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/catalog"
	"github.com/proofhq/proof/internal/database"
	"github.com/proofhq/proof/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type navRecorder struct{ routes []string }

func (n *navRecorder) Navigate(r string) { n.routes = append(n.routes, r) }

func newRepo(t *testing.T) *database.Repository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "proof.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewRepository(db)
}

func newServer(t *testing.T, calls *atomic.Int32, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return api.New(srv.URL, nil)
}

func TestDraftAnswersLastWriteWins(t *testing.T) {
	d := NewDraft()
	d.SetAnswer("q1", "first")
	d.SetAnswer("q2", "second")
	d.SetAnswer("q1", "updated")

	want := []models.Answer{
		{Question: "q1", Answer: "updated"},
		{Question: "q2", Answer: "second"},
	}
	if diff := cmp.Diff(want, d.Answers()); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestDraftDefaultsAndClamping(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, models.MoodGood, d.Mood)
	assert.Equal(t, 5, d.ProgressScore)

	d.SetProgress(0)
	assert.Equal(t, 1, d.ProgressScore)
	d.SetProgress(42)
	assert.Equal(t, 10, d.ProgressScore)

	assert.ErrorIs(t, d.SetMood("ecstatic"), ErrInvalid)
	require.NoError(t, d.SetMood(models.MoodBad))
	assert.Equal(t, models.MoodBad, d.Mood)
}

func TestResolveQuestions(t *testing.T) {
	ctx := context.Background()
	cat, err := catalog.Default()
	require.NoError(t, err)
	fromCatalog := Lookup(func(_ context.Context, id string) (models.Template, error) { return cat.Get(id) })
	empty := Lookup(func(context.Context, string) (models.Template, error) { return models.Template{ID: "x"}, nil })

	tests := []struct {
		name   string
		lookup Lookup
		id     string
		want   []string
	}{
		{"empty id", fromCatalog, "", DefaultQuestions},
		{"unknown id", fromCatalog, "does-not-exist", DefaultQuestions},
		{"template without questions", empty, "x", DefaultQuestions},
		{"nil lookup", nil, "kpt", DefaultQuestions},
		{"known id", fromCatalog, "kpt", []string{
			"계속 유지하고 싶은 것은? (Keep)",
			"문제라고 생각하는 것은? (Problem)",
			"다음에 시도해볼 것은? (Try)",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveQuestions(ctx, tt.lookup, tt.id))
		})
	}

	assert.Equal(t, []string{"오늘 무엇을 했나요?", "어떤 어려움이 있었나요?", "내일 무엇을 할 건가요?"}, DefaultQuestions)
}

func TestQuestionsFallsBackToCatalog(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/templates/remote":
			w.Write([]byte(`{"success":true,"data":{"id":"remote","name":"R","questions":["원격 질문"]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND"}}`))
		}
	})
	cat, err := catalog.Default()
	require.NoError(t, err)
	svc := NewService(client, nil, cat, nil, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"원격 질문"}, svc.Questions(ctx, "remote"))
	assert.Len(t, svc.Questions(ctx, "4f"), 4)
	assert.Equal(t, DefaultQuestions, svc.Questions(ctx, "nowhere"))
}

func TestSubmitEmptyContentSendsNothing(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {})
	nav := &navRecorder{}
	svc := NewService(client, nil, nil, nav, nil)

	d := NewDraft()
	d.Content = "   \n\t"
	_, err := svc.Submit(context.Background(), d, Context{})

	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Zero(t, calls.Load())
	assert.Empty(t, nav.routes)
}

func TestSubmitPostsAndNavigates(t *testing.T) {
	var calls atomic.Int32
	var got map[string]any
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reflections", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"data":{"id":"r-9","content":"오늘 배포함","cycle":"weekly"}}`))
	})
	nav := &navRecorder{}
	svc := NewService(client, nil, nil, nav, nil)

	d := NewDraft()
	d.Content = "오늘 배포함"
	d.SetAnswer("오늘 무엇을 했나요?", "배포")
	created, err := svc.Submit(context.Background(), d, Context{LogID: "log-1"})
	require.NoError(t, err)

	assert.Equal(t, "r-9", created.ID)
	assert.Equal(t, []string{"/dashboard/reflections/r-9"}, nav.routes)
	assert.Equal(t, "weekly", got["cycle"])
	assert.Equal(t, "good", got["mood"])
	assert.EqualValues(t, 5, got["progress_score"])
	assert.Equal(t, "log-1", got["log_id"])
	assert.Len(t, got["answers"], 1)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"backend message", `{"success":false,"error":{"code":"BAD","message":"내용이 너무 깁니다"}}`, "내용이 너무 깁니다"},
		{"no message", `{"success":false}`, MsgSaveFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})
			repo := newRepo(t)
			nav := &navRecorder{}
			svc := NewService(client, repo, nil, nav, nil)

			d := NewDraft()
			d.Content = "내용"
			_, err := svc.Submit(context.Background(), d, Context{Cycle: models.CycleDaily})

			var f *Failure
			require.ErrorAs(t, err, &f)
			assert.Equal(t, tt.wantMsg, f.Msg)
			assert.NotZero(t, f.DraftID)
			assert.Empty(t, nav.routes)

			drafts, err := svc.Drafts(context.Background())
			require.NoError(t, err)
			require.Len(t, drafts, 1)
			assert.Equal(t, "내용", drafts[0].Content)
			assert.Equal(t, models.CycleDaily, drafts[0].Cycle)
			assert.Equal(t, tt.wantMsg, drafts[0].LastError)
		})
	}
}

func TestRetrySubmitsAndForgetsDraft(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var bodies []models.ReflectionRequest
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		var req models.ReflectionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		bodies = append(bodies, req)
		mu.Unlock()
		if calls.Load() == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success":true,"data":{"id":"r-1"}}`))
	})
	repo := newRepo(t)
	ctx := context.Background()
	svc := NewService(client, repo, nil, nil, nil)

	d := NewDraft()
	d.Content = "다시"
	_, err := svc.Submit(ctx, d, Context{SpaceID: "sp-1", LogID: "log-1", ProjectID: "p-1"})
	var f *Failure
	require.ErrorAs(t, err, &f)
	require.NotZero(t, f.DraftID)

	saved, err := repo.GetDraft(ctx, f.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "sp-1", saved.SpaceID)
	assert.Equal(t, "log-1", saved.LogID)

	created, err := svc.Retry(ctx, f.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "r-1", created.ID)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, "sp-1", bodies[1].SpaceID)
	assert.Equal(t, "log-1", bodies[1].LogID)
	assert.Equal(t, "p-1", bodies[1].ProjectID)
	assert.Equal(t, "다시", bodies[1].Content)

	drafts, err := repo.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestList(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reflections", r.URL.Path)
		assert.Equal(t, "s1", r.URL.Query().Get("space_id"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"success":true,"data":{"reflections":[{"id":"a"},{"id":"b"}]}}`))
	})
	svc := NewService(client, nil, nil, nil, nil)

	got, err := svc.List(context.Background(), ListFilter{SpaceID: "s1", Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
}
