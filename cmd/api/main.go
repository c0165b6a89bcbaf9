package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/its-samarth/workwise-backend/internal/api"
	"github.com/its-samarth/workwise-backend/internal/api/handler"
	custommw "github.com/its-samarth/workwise-backend/internal/api/middleware"
	"github.com/its-samarth/workwise-backend/internal/application"
	"github.com/its-samarth/workwise-backend/internal/config"
	"github.com/its-samarth/workwise-backend/internal/domain/layout"
	"github.com/its-samarth/workwise-backend/internal/infrastructure/postgres"
	redisinfra "github.com/its-samarth/workwise-backend/internal/infrastructure/redis"
	"github.com/its-samarth/workwise-backend/internal/pkg/logger"
	"github.com/its-samarth/workwise-backend/internal/pkg/metrics"
	"github.com/its-samarth/workwise-backend/internal/worker"
)

func main() {
	// .env ファイルの読み込み（存在しない場合は無視）
	_ = godotenv.Load()

	// 設定読み込み
	cfg := config.Load()

	// ロガー初期化
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	log := logger.NewLogger(env)
	logger.Set(log)
	defer logger.Sync()

	log.Info("設定を読み込みました", zap.String("config", cfg.String()))

	// 会場レイアウト
	venue, err := layout.New(cfg.Venue.Rows, cfg.Venue.SeatsPerRow, cfg.Venue.LastRowSeats)
	if err != nil {
		log.Fatal("会場レイアウトが不正です", zap.Error(err))
	}

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		log.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続（失敗時はロック・キャッシュなしで継続）
	var lockManager redisinfra.LockManagerInterface
	var seatCache redisinfra.SeatCacheInterface
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		log.Warn("Redis接続に失敗しました（ロック・キャッシュなしで継続）", zap.Error(err))
	} else {
		lockManager = redisinfra.NewLockManager(redisClient)
		seatCache = redisinfra.NewSeatCache(redisClient)
		defer redisClient.Close()
	}
	cancelPing()

	// メトリクス初期化
	m := metrics.Init()

	// リポジトリとサービスの組み立て
	txManager := postgres.NewTxManager(db)
	seatRepo := postgres.NewSeatRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	bookingService := application.NewBookingService(
		txManager, bookingRepo, seatRepo, lockManager, seatCache,
		venue, cfg.Venue.MaxSeatsPerBooking,
	)
	seatService := application.NewSeatService(seatRepo, seatCache)

	// 起動時に座席レイアウトを初期化
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bookingService.EnsureLayout(initCtx); err != nil {
		log.Fatal("座席レイアウト初期化エラー", zap.Error(err))
	}
	cancelInit()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	seatHandler := handler.NewSeatHandler(seatService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminHandler(bookingService)

	// ルーティング
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/seats", seatHandler.List)
	v1.GET("/seats/available/count", seatHandler.CountAvailable)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.GetUserBookings)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	v1.POST("/admin/reset", adminHandler.Reset)

	// 空席数レポーターを起動
	reporterCtx, cancelReporter := context.WithCancel(context.Background())
	reporter := worker.NewAvailabilityReporter(seatService, m, 15*time.Second)
	go reporter.Start(reporterCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	// ワーカー停止
	cancelReporter()
	reporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
