package booking

import (
	"context"

	"github.com/its-samarth/workwise-backend/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約と座席の関連付けを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// GetByUserID はユーザーの予約一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// UpdateStatus は予約の状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, b *Booking) error

	// DeleteAll は全予約を削除する（トランザクション必須）
	DeleteAll(ctx context.Context, tx transaction.Tx) error
}
