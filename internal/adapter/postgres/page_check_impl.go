package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PageCheckRepoImpl provides a concrete implementation for the PageCheckRepository interface using PostgreSQL.
type PageCheckRepoImpl struct {
	db DBTX
}

// NewPageCheckRepo creates a new instance of PageCheckRepoImpl.
func NewPageCheckRepo(db DBTX) *PageCheckRepoImpl {
	return &PageCheckRepoImpl{db: db}
}

// Save stores or replaces the check for a URL.
func (r *PageCheckRepoImpl) Save(ctx context.Context, check *entity.PageCheck) error {
	query := `
		INSERT INTO page_checks (url, title, description, canonical, h1_tags, hreflangs, http_status_code, response_time_ms, failure_reason, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			canonical = EXCLUDED.canonical,
			h1_tags = EXCLUDED.h1_tags,
			hreflangs = EXCLUDED.hreflangs,
			http_status_code = EXCLUDED.http_status_code,
			response_time_ms = EXCLUDED.response_time_ms,
			failure_reason = EXCLUDED.failure_reason,
			checked_at = EXCLUDED.checked_at;
	`

	_, err := r.db.Exec(ctx, query,
		check.URL,
		check.Title,
		check.Description,
		check.Canonical,
		nonNil(check.H1Tags),
		nonNil(check.Hreflangs),
		check.HTTPStatusCode,
		check.ResponseTimeMS,
		check.FailureReason,
		check.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save page check for %s: %w", check.URL, err)
	}
	return nil
}

// FindByURL retrieves the latest check for a URL.
func (r *PageCheckRepoImpl) FindByURL(ctx context.Context, url string) (*entity.PageCheck, error) {
	query := `
		SELECT url, title, description, canonical, h1_tags, hreflangs, http_status_code, response_time_ms, failure_reason, checked_at
		FROM page_checks
		WHERE url = $1;
	`
	var check entity.PageCheck
	err := r.db.QueryRow(ctx, query, url).Scan(
		&check.URL,
		&check.Title,
		&check.Description,
		&check.Canonical,
		&check.H1Tags,
		&check.Hreflangs,
		&check.HTTPStatusCode,
		&check.ResponseTimeMS,
		&check.FailureReason,
		&check.CheckedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// nonNil keeps text[] columns NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
