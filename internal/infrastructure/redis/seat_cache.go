package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const availableCountKey = "seats:available:count"

// SeatCacheInterface は空席数キャッシュのインターフェース
type SeatCacheInterface interface {
	GetAvailableCount(ctx context.Context) (int, error)
	SetAvailableCount(ctx context.Context, count int, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// SeatCache は会場全体の空席数キャッシュを管理する
type SeatCache struct {
	client *redis.Client
}

// NewSeatCache は新しいSeatCacheインスタンスを作成する
func NewSeatCache(client *redis.Client) *SeatCache {
	return &SeatCache{client: client}
}

// GetAvailableCount は空席数をキャッシュから取得する
func (c *SeatCache) GetAvailableCount(ctx context.Context) (int, error) {
	val, err := c.client.Get(ctx, availableCountKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は空席数をキャッシュに保存する
func (c *SeatCache) SetAvailableCount(ctx context.Context, count int, ttl time.Duration) error {
	err := c.client.Set(ctx, availableCountKey, count, ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は空席数キャッシュを無効化する
// 予約・キャンセル・リセットで座席状態が変わった際に呼び出す
func (c *SeatCache) Invalidate(ctx context.Context) error {
	err := c.client.Del(ctx, availableCountKey).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

var _ SeatCacheInterface = (*SeatCache)(nil)
