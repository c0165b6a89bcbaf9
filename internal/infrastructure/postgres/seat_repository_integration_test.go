//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-samarth/workwise-backend/internal/domain/seat"
)

func TestSeatRepository_CreateBulkAndGetAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSeatRepository(db)

	seats := seedSeats(t, db, 10)

	// 列番号・座席番号の順で返る
	for i, s := range seats {
		assert.Equal(t, i+1, s.SeatNumber)
		assert.Equal(t, i/7+1, s.RowNumber)
		assert.False(t, s.IsBooked)
	}

	tx := beginTx(t, db)
	defer tx.Rollback()
	count, err := repo.CountAll(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestSeatRepository_MarkBooked(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSeatRepository(db)

	seats := seedSeats(t, db, 7)
	ids := []int64{seats[0].ID, seats[1].ID, seats[2].ID}

	tx := beginTx(t, db)
	require.NoError(t, repo.MarkBooked(ctx, tx, ids))
	require.NoError(t, tx.Commit())

	available, err := repo.GetAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 4)

	count, err := repo.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestSeatRepository_MarkBooked_Conflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSeatRepository(db)

	seats := seedSeats(t, db, 7)
	ids := []int64{seats[0].ID, seats[1].ID}

	tx := beginTx(t, db)
	require.NoError(t, repo.MarkBooked(ctx, tx, ids))
	require.NoError(t, tx.Commit())

	// 一部が既に予約済みの場合は競合エラーになる
	tx2 := beginTx(t, db)
	defer tx2.Rollback()
	err := repo.MarkBooked(ctx, tx2, []int64{seats[1].ID, seats[2].ID})
	assert.ErrorIs(t, err, seat.ErrSeatConflict)
}

func TestSeatRepository_MarkUnbooked(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSeatRepository(db)

	seats := seedSeats(t, db, 7)
	ids := []int64{seats[0].ID, seats[1].ID}

	tx := beginTx(t, db)
	require.NoError(t, repo.MarkBooked(ctx, tx, ids))
	require.NoError(t, tx.Commit())

	tx2 := beginTx(t, db)
	require.NoError(t, repo.MarkUnbooked(ctx, tx2, ids))
	require.NoError(t, tx2.Commit())

	count, err := repo.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestSeatRepository_ReleaseAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSeatRepository(db)

	seats := seedSeats(t, db, 7)

	tx := beginTx(t, db)
	require.NoError(t, repo.MarkBooked(ctx, tx, []int64{seats[0].ID, seats[3].ID, seats[6].ID}))
	require.NoError(t, tx.Commit())

	tx2 := beginTx(t, db)
	require.NoError(t, repo.ReleaseAll(ctx, tx2))
	require.NoError(t, tx2.Commit())

	count, err := repo.CountAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestSeatRepository_InvalidTx(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewSeatRepository(db)

	err := repo.MarkBooked(ctx, nil, []int64{1})
	assert.ErrorIs(t, err, ErrInvalidTx)
}
