package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/proofhq/proof/pkg/models"
)

// ErrNotFound is returned when a key or row does not exist
var ErrNotFound = errors.New("not found")

// Repository wraps the local SQLite database
type Repository struct {
	db *sql.DB
}

// NewRepository returns a Repository over db
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Local storage operations

func (r *Repository) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

func (r *Repository) SetItem(ctx context.Context, key, value string) error {
	query := `INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, key, value, time.Now())
	return err
}

// SetItems writes all pairs in one transaction, so either every key is
// stored or none is.
func (r *Repository) SetItems(ctx context.Context, items map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for k, v := range items {
		_, err := tx.ExecContext(ctx, `INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`, k, v, now)
		if err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (r *Repository) RemoveItems(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key=?`, k); err != nil {
			return err
		}
	}
	return nil
}

// Query cache operations

func (r *Repository) GetCache(ctx context.Context, key string) ([]byte, time.Time, error) {
	var value string
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `SELECT value, updated_at FROM query_cache WHERE key=?`, key).
		Scan(&value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return []byte(value), updatedAt, nil
}

func (r *Repository) SetCache(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO query_cache (key, value, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, key, string(value), time.Now())
	return err
}

// UpdateCache runs a read-modify-write of one cache entry inside a
// transaction. fn receives nil when the key is absent.
func (r *Repository) UpdateCache(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var old []byte
	var value string
	err = tx.QueryRowContext(ctx, `SELECT value FROM query_cache WHERE key=?`, key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return err
	default:
		old = []byte(value)
	}

	updated, err := fn(old)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO query_cache (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(updated), time.Now())
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) DeleteCache(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM query_cache WHERE key=?`, key)
	return err
}

// Draft operations

func (r *Repository) CreateDraft(ctx context.Context, d *models.Draft) error {
	answers, err := json.Marshal(d.Answers)
	if err != nil {
		return err
	}
	query := `INSERT INTO reflection_drafts (log_id, project_id, space_id, template_id, cycle, content,
			  mood, progress_score, answers, last_error)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, d.LogID, d.ProjectID, d.SpaceID, d.TemplateID, d.Cycle,
		d.Content, d.Mood, d.ProgressScore, string(answers), d.LastError)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	d.ID = int(id)
	return nil
}

func (r *Repository) GetDraft(ctx context.Context, id int) (*models.Draft, error) {
	query := `SELECT id, log_id, project_id, space_id, template_id, cycle, content, mood, progress_score, answers, last_error, created_at
			  FROM reflection_drafts WHERE id=?`
	d, err := scanDraft(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *Repository) ListDrafts(ctx context.Context) ([]*models.Draft, error) {
	query := `SELECT id, log_id, project_id, space_id, template_id, cycle, content, mood, progress_score, answers, last_error, created_at
			  FROM reflection_drafts ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drafts := []*models.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (r *Repository) DeleteDraft(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reflection_drafts WHERE id=?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*models.Draft, error) {
	d := &models.Draft{}
	var templateID, lastError sql.NullString
	var answers string
	err := s.Scan(&d.ID, &d.LogID, &d.ProjectID, &d.SpaceID, &templateID, &d.Cycle, &d.Content, &d.Mood, &d.ProgressScore,
		&answers, &lastError, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.TemplateID = templateID.String
	d.LastError = lastError.String
	if err := json.Unmarshal([]byte(answers), &d.Answers); err != nil {
		return nil, fmt.Errorf("decode draft answers: %w", err)
	}
	return d, nil
}
