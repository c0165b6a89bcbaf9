package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/its-samarth/workwise-backend/internal/domain/booking"
	"github.com/its-samarth/workwise-backend/internal/domain/transaction"
)

type bookingRow struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}
	query := `INSERT INTO bookings (user_id, status, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query, b.UserID, string(b.Status), b.CreatedAt, b.UpdatedAt).Scan(&b.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	for _, seatID := range b.SeatIDs {
		if _, err := sqlxTx.ExecContext(ctx, `INSERT INTO booking_seats (booking_id, seat_id) VALUES ($1, $2)`, b.ID, seatID); err != nil {
			return fmt.Errorf("予約座席関連付けに失敗: %w", err)
		}
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	var row bookingRow
	query := `SELECT id, user_id, status, created_at, updated_at FROM bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	seatIDs, err := r.getSeatIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.toEntity(&row, seatIDs), nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	var rows []bookingRow
	query := `SELECT id, user_id, status, created_at, updated_at FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		seatIDs, err := r.getSeatIDs(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = r.toEntity(&row, seatIDs)
	}
	return result, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := sqlxTx.ExecContext(ctx, query, string(b.Status), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// DeleteAll は全予約を削除する
// booking_seats は外部キーの ON DELETE CASCADE で連動して消える
func (r *BookingRepository) DeleteAll(ctx context.Context, tx transaction.Tx) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return ErrInvalidTx
	}
	if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("予約全削除に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) getSeatIDs(ctx context.Context, bookingID int64) ([]int64, error) {
	var seatIDs []int64
	if err := r.db.SelectContext(ctx, &seatIDs, `SELECT seat_id FROM booking_seats WHERE booking_id = $1 ORDER BY seat_id`, bookingID); err != nil {
		return nil, fmt.Errorf("座席ID取得に失敗: %w", err)
	}
	return seatIDs, nil
}

func (r *BookingRepository) toEntity(row *bookingRow, seatIDs []int64) *booking.Booking {
	return &booking.Booking{
		ID: row.ID, UserID: row.UserID, Status: booking.Status(row.Status),
		SeatIDs: seatIDs, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ booking.Repository = (*BookingRepository)(nil)
