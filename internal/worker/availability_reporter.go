package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/its-samarth/workwise-backend/internal/pkg/logger"
	"github.com/its-samarth/workwise-backend/internal/pkg/metrics"
)

// AvailabilityCounter は空席数を取得するインターフェース
type AvailabilityCounter interface {
	CountAvailableSeats(ctx context.Context) (int, error)
}

// AvailabilityReporter は空席数を定期的に集計してメトリクスに反映するワーカー
type AvailabilityReporter struct {
	seatService AvailabilityCounter
	metrics     *metrics.Metrics
	interval    time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewAvailabilityReporter は新しいレポーターを作成
func NewAvailabilityReporter(ss AvailabilityCounter, m *metrics.Metrics, interval time.Duration) *AvailabilityReporter {
	return &AvailabilityReporter{
		seatService: ss,
		metrics:     m,
		interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start はレポーターを開始
func (r *AvailabilityReporter) Start(ctx context.Context) {
	logger.Info("空席数レポーター開始",
		zap.Duration("interval", r.interval),
	)

	// 起動直後に一度集計する
	r.report(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空席数レポーター停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("空席数レポーター停止（シグナル受信）")
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// Stop はレポーターを停止
func (r *AvailabilityReporter) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// report は空席数を集計してゲージを更新
func (r *AvailabilityReporter) report(ctx context.Context) {
	log := logger.Get()

	count, err := r.seatService.CountAvailableSeats(ctx)
	if err != nil {
		log.Error("空席数の集計失敗", zap.Error(err))
		return
	}

	if r.metrics != nil {
		r.metrics.AvailableSeats.Set(float64(count))
	}
	log.Debug("空席数を更新", zap.Int("count", count))
}
