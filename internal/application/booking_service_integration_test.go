//go:build integration

package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-samarth/workwise-backend/internal/config"
	"github.com/its-samarth/workwise-backend/internal/domain/allocation"
	"github.com/its-samarth/workwise-backend/internal/domain/booking"
	"github.com/its-samarth/workwise-backend/internal/domain/layout"
	"github.com/its-samarth/workwise-backend/internal/domain/seat"
	"github.com/its-samarth/workwise-backend/internal/infrastructure/postgres"
	redisinfra "github.com/its-samarth/workwise-backend/internal/infrastructure/redis"
)

// setupTestEnv は実DBに接続したBookingServiceを組み立てる（未起動時はスキップ）
// Redisが利用できる場合のみ分散ロックを併用する
func setupTestEnv(t *testing.T, venue layout.Layout) (*BookingService, *sqlx.DB) {
	t.Helper()

	cfg := config.Load()
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}
	require.NoError(t, postgres.RunMigrations(db.DB, "../../migrations"))

	_, err = db.Exec("TRUNCATE TABLE booking_seats, bookings, seats RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	var lockManager redisinfra.LockManagerInterface
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err == nil {
		lockManager = redisinfra.NewLockManager(redisClient)
	} else {
		redisClient.Close()
		redisClient = nil
	}
	cancel()

	txManager := postgres.NewTxManager(db)
	seatRepo := postgres.NewSeatRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	service := NewBookingService(txManager, bookingRepo, seatRepo, lockManager, nil, venue, 7)

	require.NoError(t, service.EnsureLayout(context.Background()))

	t.Cleanup(func() {
		db.Exec("TRUNCATE TABLE booking_seats, bookings, seats RESTART IDENTITY CASCADE")
		if redisClient != nil {
			redisClient.Close()
		}
		db.Close()
	})
	return service, db
}

// assertNoSharedSeats はACTIVEな予約同士で座席が重複していないことを確認する
func assertNoSharedSeats(t *testing.T, db *sqlx.DB) {
	t.Helper()
	var shared []int64
	err := db.Select(&shared, `
		SELECT bs.seat_id FROM booking_seats bs
		JOIN bookings b ON b.id = bs.booking_id
		WHERE b.status = 'ACTIVE'
		GROUP BY bs.seat_id HAVING COUNT(*) > 1`)
	require.NoError(t, err)
	assert.Empty(t, shared, "ACTIVEな予約間で座席が重複している")
}

func TestConcurrentBooking(t *testing.T) {
	// 2列（7席 + 3席）= 10席の小さな会場
	venue, err := layout.New(2, 7, 3)
	require.NoError(t, err)
	service, db := setupTestEnv(t, venue)

	ctx := context.Background()

	t.Run("10並行リクエストで成立は在庫の範囲内", func(t *testing.T) {
		const numGoroutines = 10
		const seatsPerRequest = 4 // 10席に対して4席ずつ → 最大2件まで成立

		var mu sync.Mutex
		var succeeded []*booking.Booking
		var failures []error
		var wg sync.WaitGroup

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(userNum int) {
				defer wg.Done()
				b, err := service.CreateBooking(ctx, CreateBookingInput{
					UserID:        "user-" + string(rune('A'+userNum)),
					NumberOfSeats: seatsPerRequest,
				})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures = append(failures, err)
					return
				}
				succeeded = append(succeeded, b)
			}(i)
		}
		wg.Wait()

		// 成立数は在庫から成立しうる件数を超えない
		assert.GreaterOrEqual(t, len(succeeded), 1)
		assert.LessOrEqual(t, len(succeeded), 2)
		assert.Len(t, failures, numGoroutines-len(succeeded))

		// 敗者は空席不足か競合のいずれか
		for _, err := range failures {
			assert.True(t,
				errors.Is(err, allocation.ErrNotEnoughSeats) || errors.Is(err, seat.ErrSeatConflict),
				"想定外のエラー: %v", err)
		}

		// 成立した予約間で座席IDが重複しない
		taken := make(map[int64]bool)
		for _, b := range succeeded {
			require.Len(t, b.SeatIDs, seatsPerRequest)
			for _, id := range b.SeatIDs {
				assert.False(t, taken[id], "座席 %d が複数の予約に含まれている", id)
				taken[id] = true
			}
		}
		assertNoSharedSeats(t, db)

		// DB上の予約済み座席数が成立数と一致する
		var booked int
		require.NoError(t, db.Get(&booked, "SELECT COUNT(*) FROM seats WHERE is_booked = TRUE"))
		assert.Equal(t, seatsPerRequest*len(succeeded), booked)
	})
}

func TestConcurrentBooking_SingleSeat(t *testing.T) {
	// 1席だけの会場を10人で奪い合う
	venue, err := layout.New(1, 1, 1)
	require.NoError(t, err)
	service, db := setupTestEnv(t, venue)

	ctx := context.Background()

	const numGoroutines = 10
	var mu sync.Mutex
	var successCount, failCount int

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(userNum int) {
			defer wg.Done()
			_, err := service.CreateBooking(ctx, CreateBookingInput{
				UserID:        "user-" + string(rune('A'+userNum)),
				NumberOfSeats: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
			} else {
				failCount++
			}
		}(i)
	}
	wg.Wait()

	// 1つだけ成功するべき
	assert.Equal(t, 1, successCount, "成功は1つだけ")
	assert.Equal(t, numGoroutines-1, failCount, "残りは全て失敗")
	assertNoSharedSeats(t, db)
}
