package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
)

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.err
}

type fakeDB struct {
	execSQL  string
	execArgs []any
	execErr  error
	rowErr   error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = sql
	f.execArgs = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: f.rowErr}
}

func TestCommandLogEmitterWritesParamsAsJSON(t *testing.T) {
	db := &fakeDB{}
	emitter := NewCommandLogEmitter(db)
	issued := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	err := emitter.Emit(context.Background(), entity.Command{
		VisitorID: "v1",
		Kind:      entity.CommandEvent,
		Target:    "button_click",
		Params:    map[string]any{"event_category": "engagement"},
		IssuedAt:  issued,
	})
	require.NoError(t, err)

	require.Len(t, db.execArgs, 5)
	assert.Contains(t, db.execSQL, "INSERT INTO analytics_commands")
	assert.Equal(t, "v1", db.execArgs[0])
	assert.Equal(t, "event", db.execArgs[1])
	assert.Equal(t, "button_click", db.execArgs[2])

	var params map[string]any
	require.NoError(t, json.Unmarshal(db.execArgs[3].([]byte), &params))
	assert.Equal(t, "engagement", params["event_category"])
	assert.Equal(t, issued, db.execArgs[4])
}

func TestCommandLogEmitterWrapsExecError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection reset")}
	emitter := NewCommandLogEmitter(db)

	err := emitter.Emit(context.Background(), entity.Command{Kind: entity.CommandSet, Target: "user_properties"})
	assert.ErrorContains(t, err, "failed to log set command")
}

func TestPageCheckRepoSaveNormalizesArrays(t *testing.T) {
	db := &fakeDB{}
	repo := NewPageCheckRepo(db)

	err := repo.Save(context.Background(), &entity.PageCheck{URL: "https://example.com", HTTPStatusCode: 200})
	require.NoError(t, err)

	assert.Equal(t, []string{}, db.execArgs[4])
	assert.Equal(t, []string{}, db.execArgs[5])
}

func TestPageCheckRepoFindByURLNotFound(t *testing.T) {
	repo := NewPageCheckRepo(&fakeDB{rowErr: pgx.ErrNoRows})

	check, err := repo.FindByURL(context.Background(), "https://example.com")
	assert.Nil(t, check)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
