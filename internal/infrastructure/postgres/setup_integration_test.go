//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/its-samarth/workwise-backend/internal/config"
	"github.com/its-samarth/workwise-backend/internal/domain/seat"
	"github.com/its-samarth/workwise-backend/internal/domain/transaction"
)

// setupTestDB はテスト用のDB接続を作成する（未起動時はスキップ）
// 各テストの開始時にテーブルを空にする
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.Load()
	db, err := NewConnection(&cfg.Database)
	if err != nil {
		t.Skip("PostgreSQLが利用できません")
	}
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db.DB, "../../../migrations"))

	_, err = db.Exec("TRUNCATE TABLE booking_seats, bookings, seats RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return db
}

// beginTx はテスト用のトランザクションを開始する
func beginTx(t *testing.T, db *sqlx.DB) transaction.Tx {
	t.Helper()
	tx, err := NewTxManager(db).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

// seedSeats は指定数の座席を1列7席で投入し、ID順に返す
func seedSeats(t *testing.T, db *sqlx.DB, count int) []*seat.Seat {
	t.Helper()
	ctx := context.Background()

	seats := make([]*seat.Seat, count)
	for i := 0; i < count; i++ {
		seats[i] = seat.NewSeat(i+1, i/7+1)
	}

	repo := NewSeatRepository(db)
	tx := beginTx(t, db)
	require.NoError(t, repo.CreateBulk(ctx, tx, seats))
	require.NoError(t, tx.Commit())

	stored, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, count)
	return stored
}
