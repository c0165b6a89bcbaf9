package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/its-samarth/workwise-backend/internal/domain/allocation"
	"github.com/its-samarth/workwise-backend/internal/domain/booking"
	"github.com/its-samarth/workwise-backend/internal/domain/layout"
	"github.com/its-samarth/workwise-backend/internal/domain/seat"
	"github.com/its-samarth/workwise-backend/internal/domain/transaction"
	redislock "github.com/its-samarth/workwise-backend/internal/infrastructure/redis"
)

// allocationLockKey は座席割り当て全体を直列化するロックキー
// 割り当ては空席全体のスナップショットに依存するため、座席単位ではなく
// 会場単位でロックする
const allocationLockKey = "venue:allocation"

type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	seatRepo    seat.Repository
	lockManager redislock.LockManagerInterface
	seatCache   redislock.SeatCacheInterface
	venue       layout.Layout
	maxSeats    int
}

func NewBookingService(tm transaction.Manager, br booking.Repository, sr seat.Repository, lm redislock.LockManagerInterface, sc redislock.SeatCacheInterface, venue layout.Layout, maxSeats int) *BookingService {
	return &BookingService{
		txManager:   tm,
		bookingRepo: br,
		seatRepo:    sr,
		lockManager: lm,
		seatCache:   sc,
		venue:       venue,
		maxSeats:    maxSeats,
	}
}

type CreateBookingInput struct {
	UserID        string
	NumberOfSeats int
}

// CreateBooking は座席を割り当てて予約を作成する
// 割り当てと永続化は1トランザクションで行い、失敗時は一切座席を確保しない
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	if input.NumberOfSeats < 1 {
		return nil, booking.ErrInvalidSeatCount
	}
	if input.NumberOfSeats > s.maxSeats {
		return nil, booking.ErrTooManySeats
	}

	// 分散ロックで割り当てを直列化（Redis未接続時はDBの条件付きUPDATEのみで防御）
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, allocationLockKey, 10*time.Second, 3, 100*time.Millisecond)
		if err != nil {
			if errors.Is(err, redislock.ErrLockNotAcquired) {
				return nil, seat.ErrSeatConflict
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	available, err := s.seatRepo.GetAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("空席取得に失敗: %w", err)
	}

	allocated, err := allocation.Allocate(available, input.NumberOfSeats)
	if err != nil {
		return nil, err
	}

	seatIDs := make([]int64, len(allocated))
	for i, se := range allocated {
		seatIDs[i] = se.ID
	}

	b := booking.NewBooking(input.UserID, seatIDs)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := s.seatRepo.MarkBooked(ctx, tx, seatIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx)
	return b, nil
}

// CancelBooking は予約をキャンセルし座席を解放する
// すでにキャンセル済みの場合は状態を変えずに成功として返す
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return b, nil
	}
	if err := b.Cancel(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.seatRepo.MarkUnbooked(ctx, tx, b.SeatIDs); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.UpdateStatus(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx)
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*booking.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.bookingRepo.GetByUserID(ctx, userID, limit, offset)
}

// Reset は全予約を削除して全座席を空席に戻す
// 座席テーブルが空の場合はレイアウトから再生成する
func (s *BookingService) Reset(ctx context.Context) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.bookingRepo.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err := s.seatRepo.ReleaseAll(ctx, tx); err != nil {
		return err
	}

	count, err := s.seatRepo.CountAll(ctx, tx)
	if err != nil {
		return fmt.Errorf("座席数取得に失敗: %w", err)
	}
	if count == 0 {
		if err := s.seatRepo.CreateBulk(ctx, tx, s.venue.Seats()); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// EnsureLayout は起動時に座席テーブルをレイアウトから初期化する
// すでに座席が存在する場合は何もしない
func (s *BookingService) EnsureLayout(ctx context.Context) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	count, err := s.seatRepo.CountAll(ctx, tx)
	if err != nil {
		return fmt.Errorf("座席数取得に失敗: %w", err)
	}
	if count > 0 {
		return tx.Commit()
	}

	if err := s.seatRepo.CreateBulk(ctx, tx, s.venue.Seats()); err != nil {
		return err
	}
	return tx.Commit()
}

// invalidateCache は空席数キャッシュを無効化する（ベストエフォート）
func (s *BookingService) invalidateCache(ctx context.Context) {
	if s.seatCache == nil {
		return
	}
	_ = s.seatCache.Invalidate(ctx)
}
