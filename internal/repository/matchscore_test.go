package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentbridge/matchai/internal/domain"
	"go.uber.org/zap"
)

// flakyDeleteDB fails DELETE statements and records whether an INSERT
// was attempted.
type flakyDeleteDB struct {
	insertCalled bool
}

func (f *flakyDeleteDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if strings.HasPrefix(sql, "DELETE") {
		return pgconn.CommandTag{}, errors.New("transient delete failure")
	}
	f.insertCalled = true
	return pgconn.CommandTag{}, nil
}

func (f *flakyDeleteDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *flakyDeleteDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestMatchScoreRepository_NilPool(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchScoreRepository(nil, zap.NewNop())

	record, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, record)

	err = repo.Put(ctx, domain.NewMatchScoreRecord(1, 2, 0.5, 50, nil, time.Now(), time.Now(), time.Now()))
	require.NoError(t, err)

	stale, err := repo.IsStale(ctx, 1, 2, time.Now(), time.Now())
	require.NoError(t, err)
	assert.True(t, stale)

	n, err := repo.DeleteForCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeleteForJob(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMatchScoreRepository_PutInsertsDespiteDeleteFailure(t *testing.T) {
	db := &flakyDeleteDB{}
	repo := &MatchScoreRepository{db: db, logger: zap.NewNop()}

	record := domain.NewMatchScoreRecord(1, 2, 0.5, 50, nil, time.Now(), time.Now(), time.Now())
	err := repo.Put(context.Background(), record)

	require.NoError(t, err)
	assert.True(t, db.insertCalled, "insert should proceed after a failed delete")
}
