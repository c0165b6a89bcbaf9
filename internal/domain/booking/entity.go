package booking

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
)

// Booking はグループ予約エンティティを表す
// 1つの予約は1ユーザーと複数座席を結びつける
type Booking struct {
	ID        int64
	UserID    string
	Status    Status
	SeatIDs   []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking は新しいACTIVE状態の予約を作成する
func NewBooking(userID string, seatIDs []int64) *Booking {
	now := time.Now()
	return &Booking{
		UserID:    userID,
		Status:    StatusActive,
		SeatIDs:   seatIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive は予約が有効かを返す
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// Cancel は予約をキャンセルする
// ACTIVE → CANCELLED の遷移は一度だけ許可される
func (b *Booking) Cancel() error {
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now()
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if len(b.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	return nil
}
