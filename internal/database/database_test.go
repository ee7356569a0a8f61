package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/proofhq/proof/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// createTestDB creates a temporary test database
func createTestDB(t testing.TB) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(createTestDB(t))

	if _, err := repo.GetItem(ctx, "access_token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := repo.SetItem(ctx, "access_token", "A"); err != nil {
		t.Fatalf("failed to set item: %v", err)
	}
	if err := repo.SetItem(ctx, "access_token", "A2"); err != nil {
		t.Fatalf("failed to overwrite item: %v", err)
	}

	got, err := repo.GetItem(ctx, "access_token")
	if err != nil {
		t.Fatalf("failed to get item: %v", err)
	}
	if got != "A2" {
		t.Errorf("expected last write to win, got %q", got)
	}

	if err := repo.RemoveItems(ctx, "access_token", "never-set"); err != nil {
		t.Fatalf("failed to remove items: %v", err)
	}
	if _, err := repo.GetItem(ctx, "access_token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("item should be gone, got %v", err)
	}
}

func TestSetItemsIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(createTestDB(t))

	items := map[string]string{"access_token": "A", "refresh_token": "B", "x-user-id": "U"}
	if err := repo.SetItems(ctx, items); err != nil {
		t.Fatalf("failed to set items: %v", err)
	}

	for k, want := range items {
		got, err := repo.GetItem(ctx, k)
		if err != nil || got != want {
			t.Errorf("%s = %q, %v; want %q", k, got, err, want)
		}
	}

	// A cancelled context must not leave a partial write behind
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := repo.SetItems(cancelled, map[string]string{"access_token": "X"}); err == nil {
		t.Fatal("expected error with cancelled context")
	}
	got, _ := repo.GetItem(ctx, "access_token")
	if got != "A" {
		t.Errorf("access_token changed to %q after failed write", got)
	}
}

func TestUpdateCache(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(createTestDB(t))

	err := repo.UpdateCache(ctx, "space-members/s1", func(old []byte) ([]byte, error) {
		if old != nil {
			t.Errorf("expected nil for absent key, got %q", old)
		}
		return []byte(`[1]`), nil
	})
	if err != nil {
		t.Fatalf("failed to update cache: %v", err)
	}

	err = repo.UpdateCache(ctx, "space-members/s1", func(old []byte) ([]byte, error) {
		return append(old[:len(old)-1], []byte(`,2]`)...), nil
	})
	if err != nil {
		t.Fatalf("failed to update cache: %v", err)
	}

	value, _, err := repo.GetCache(ctx, "space-members/s1")
	if err != nil {
		t.Fatalf("failed to get cache: %v", err)
	}
	if string(value) != `[1,2]` {
		t.Errorf("unexpected cache value %s", value)
	}

	// An error from fn leaves the entry untouched
	boom := errors.New("boom")
	err = repo.UpdateCache(ctx, "space-members/s1", func(old []byte) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	value, _, _ = repo.GetCache(ctx, "space-members/s1")
	if string(value) != `[1,2]` {
		t.Errorf("cache changed after failed update: %s", value)
	}

	if err := repo.DeleteCache(ctx, "space-members/s1"); err != nil {
		t.Fatalf("failed to delete cache: %v", err)
	}
	if _, _, err := repo.GetCache(ctx, "space-members/s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDrafts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(createTestDB(t))

	draft := &models.Draft{
		LogID:         "log-1",
		SpaceID:       "sp-1",
		TemplateID:    "kpt",
		Cycle:         models.CycleWeekly,
		Content:       "shipped the onboarding flow",
		Mood:          models.MoodGood,
		ProgressScore: 7,
		Answers:       []models.Answer{{Question: "Keep", Answer: "pairing"}},
		LastError:     "network",
	}
	if err := repo.CreateDraft(ctx, draft); err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}
	if draft.ID == 0 {
		t.Fatal("draft ID not set after creation")
	}

	got, err := repo.GetDraft(ctx, draft.ID)
	if err != nil {
		t.Fatalf("failed to get draft: %v", err)
	}
	if got.Content != draft.Content || len(got.Answers) != 1 || got.Answers[0].Answer != "pairing" {
		t.Errorf("retrieved draft doesn't match: %+v", got)
	}
	if got.LogID != "log-1" || got.SpaceID != "sp-1" || got.ProjectID != "" {
		t.Errorf("draft context ids not kept: %+v", got)
	}

	drafts, err := repo.ListDrafts(ctx)
	if err != nil {
		t.Fatalf("failed to list drafts: %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("expected 1 draft, got %d", len(drafts))
	}

	if err := repo.DeleteDraft(ctx, draft.ID); err != nil {
		t.Fatalf("failed to delete draft: %v", err)
	}
	if _, err := repo.GetDraft(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestMigrationsAddDraftContextColumns opens a database whose draft table
// predates the context id columns.
func TestMigrationsAddDraftContextColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	old, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	_, err = old.Exec(`CREATE TABLE reflection_drafts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		template_id TEXT,
		cycle TEXT NOT NULL DEFAULT 'weekly',
		content TEXT NOT NULL DEFAULT '',
		mood TEXT NOT NULL DEFAULT 'good',
		progress_score INTEGER NOT NULL DEFAULT 5,
		answers TEXT NOT NULL DEFAULT '[]',
		last_error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		t.Fatalf("failed to create legacy table: %v", err)
	}
	old.Close()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	defer db.Close()
	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrations not idempotent: %v", err)
	}

	repo := NewRepository(db)
	d := &models.Draft{SpaceID: "sp-9", Cycle: models.CycleDaily, Content: "x", Mood: models.MoodGood, ProgressScore: 5}
	if err := repo.CreateDraft(context.Background(), d); err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}
	got, err := repo.GetDraft(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("failed to get draft: %v", err)
	}
	if got.SpaceID != "sp-9" {
		t.Errorf("expected space id sp-9, got %q", got.SpaceID)
	}
}

// TestDraftConstraints verifies the mood and score checks are enforced
func TestDraftConstraints(t *testing.T) {
	db := createTestDB(t)

	_, err := db.Exec(`INSERT INTO reflection_drafts (mood, progress_score) VALUES ('ecstatic', 5)`)
	if err == nil {
		t.Error("should have failed due to mood check constraint")
	}

	_, err = db.Exec(`INSERT INTO reflection_drafts (mood, progress_score) VALUES ('good', 11)`)
	if err == nil {
		t.Error("should have failed due to progress score check constraint")
	}
}

func BenchmarkSetItem(b *testing.B) {
	repo := NewRepository(createTestDB(b))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		repo.SetItem(ctx, fmt.Sprintf("key-%d", i%16), "value")
	}
}
