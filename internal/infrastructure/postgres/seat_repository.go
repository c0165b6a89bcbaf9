package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/its-samarth/workwise-backend/internal/domain/seat"
	"github.com/its-samarth/workwise-backend/internal/domain/transaction"
)

// ErrInvalidTx はリポジトリに渡されたトランザクションが不正な場合のエラー
var ErrInvalidTx = errors.New("不正なトランザクションです")

type seatRow struct {
	ID         int64     `db:"id"`
	SeatNumber int       `db:"seat_number"`
	RowNumber  int       `db:"row_number"`
	IsBooked   bool      `db:"is_booked"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		ID: r.ID, SeatNumber: r.SeatNumber, RowNumber: r.RowNumber,
		IsBooked: r.IsBooked, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type SeatRepository struct{ db *sqlx.DB }

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) GetAll(ctx context.Context) ([]*seat.Seat, error) {
	query := `SELECT id, seat_number, row_number, is_booked, created_at, updated_at FROM seats ORDER BY row_number, seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) GetAvailable(ctx context.Context) ([]*seat.Seat, error) {
	query := `SELECT id, seat_number, row_number, is_booked, created_at, updated_at FROM seats WHERE is_booked = FALSE ORDER BY row_number, seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("空席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) CountAvailable(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats WHERE is_booked = FALSE`)
	return count, err
}

func (r *SeatRepository) CreateBulk(ctx context.Context, tx transaction.Tx, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := r.createBulkBatch(ctx, sqlxTx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でマルチバリューINSERTを実行
func (r *SeatRepository) createBulkBatch(ctx context.Context, tx *sqlx.Tx, seats []*seat.Seat) error {
	query := `INSERT INTO seats (seat_number, row_number, is_booked, created_at, updated_at) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 5
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, s.SeatNumber, s.RowNumber, s.IsBooked, s.CreatedAt, s.UpdatedAt)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) CountAll(ctx context.Context, tx transaction.Tx) (int, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, ErrInvalidTx
	}
	var count int
	err := sqlxTx.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats`)
	return count, err
}

// MarkBooked は is_booked = FALSE の座席のみを条件付きで更新する
// 更新行数が要求と一致しない場合、他のトランザクションに先を越されたと
// みなして ErrSeatConflict を返す（トランザクション内での再検証）
func (r *SeatRepository) MarkBooked(ctx context.Context, tx transaction.Tx, seatIDs []int64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}
	query := `UPDATE seats SET is_booked = TRUE, updated_at = NOW() WHERE id = ANY($1) AND is_booked = FALSE`
	result, err := sqlxTx.ExecContext(ctx, query, pq.Array(seatIDs))
	if err != nil {
		return fmt.Errorf("座席予約に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(seatIDs) {
		return seat.ErrSeatConflict
	}
	return nil
}

func (r *SeatRepository) MarkUnbooked(ctx context.Context, tx transaction.Tx, seatIDs []int64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}
	query := `UPDATE seats SET is_booked = FALSE, updated_at = NOW() WHERE id = ANY($1)`
	if _, err := sqlxTx.ExecContext(ctx, query, pq.Array(seatIDs)); err != nil {
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) ReleaseAll(ctx context.Context, tx transaction.Tx) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}
	if _, err := sqlxTx.ExecContext(ctx, `UPDATE seats SET is_booked = FALSE, updated_at = NOW()`); err != nil {
		return fmt.Errorf("全座席解放に失敗: %w", err)
	}
	return nil
}

var _ seat.Repository = (*SeatRepository)(nil)
