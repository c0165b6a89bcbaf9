package seat

import (
	"context"

	"github.com/its-samarth/workwise-backend/internal/domain/transaction"
)

// Repository は座席リポジトリのインターフェース
// 一覧取得は (row_number, seat_number) 昇順で返すこと
type Repository interface {
	// GetAll は全座席を取得する
	GetAll(ctx context.Context) ([]*Seat, error)

	// GetAvailable は予約されていない座席を取得する
	GetAvailable(ctx context.Context) ([]*Seat, error)

	// CountAvailable は空席数を取得する
	CountAvailable(ctx context.Context) (int, error)

	// CreateBulk は複数の座席を一括作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, seats []*Seat) error

	// CountAll はトランザクション内で座席総数を取得する
	CountAll(ctx context.Context, tx transaction.Tx) (int, error)

	// MarkBooked は座席を予約済みに更新する（トランザクション必須）
	// 既に予約済みの座席が含まれる場合は ErrSeatConflict を返す
	MarkBooked(ctx context.Context, tx transaction.Tx, seatIDs []int64) error

	// MarkUnbooked は座席を解放する（トランザクション必須）
	MarkUnbooked(ctx context.Context, tx transaction.Tx, seatIDs []int64) error

	// ReleaseAll は全座席を解放する（トランザクション必須）
	ReleaseAll(ctx context.Context, tx transaction.Tx) error
}
