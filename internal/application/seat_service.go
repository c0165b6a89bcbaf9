package application

import (
	"context"
	"fmt"
	"time"

	"github.com/its-samarth/workwise-backend/internal/domain/seat"
	redislock "github.com/its-samarth/workwise-backend/internal/infrastructure/redis"
)

// availableCountTTL は空席数キャッシュの有効期限
const availableCountTTL = 30 * time.Second

type SeatService struct {
	seatRepo  seat.Repository
	seatCache redislock.SeatCacheInterface
}

func NewSeatService(sr seat.Repository, sc redislock.SeatCacheInterface) *SeatService {
	return &SeatService{seatRepo: sr, seatCache: sc}
}

func (s *SeatService) GetAllSeats(ctx context.Context) ([]*seat.Seat, error) {
	return s.seatRepo.GetAll(ctx)
}

func (s *SeatService) GetAvailableSeats(ctx context.Context) ([]*seat.Seat, error) {
	return s.seatRepo.GetAvailable(ctx)
}

// CountAvailableSeats はキャッシュ優先で空席数を返す
// キャッシュミス時はDBから取得してキャッシュに書き戻す
func (s *SeatService) CountAvailableSeats(ctx context.Context) (int, error) {
	if s.seatCache != nil {
		count, err := s.seatCache.GetAvailableCount(ctx)
		if err == nil {
			return count, nil
		}
	}

	count, err := s.seatRepo.CountAvailable(ctx)
	if err != nil {
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}

	if s.seatCache != nil {
		_ = s.seatCache.SetAvailableCount(ctx, count, availableCountTTL)
	}
	return count, nil
}
