package seat

import "time"

// Seat は座席エンティティを表す
// SeatNumber は会場全体で一意な通し番号、RowNumber は列番号
type Seat struct {
	ID         int64
	SeatNumber int
	RowNumber  int
	IsBooked   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSeat は新しい座席を作成する
func NewSeat(seatNumber, rowNumber int) *Seat {
	now := time.Now()
	return &Seat{
		SeatNumber: seatNumber,
		RowNumber:  rowNumber,
		IsBooked:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsAvailable は座席が予約可能かを返す
func (s *Seat) IsAvailable() bool {
	return !s.IsBooked
}

// Book は座席を予約済み状態にする
func (s *Seat) Book() error {
	if s.IsBooked {
		return ErrSeatAlreadyBooked
	}
	s.IsBooked = true
	s.UpdatedAt = time.Now()
	return nil
}

// Release は座席を解放する
func (s *Seat) Release() {
	s.IsBooked = false
	s.UpdatedAt = time.Now()
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.SeatNumber < 1 {
		return ErrInvalidSeatNumber
	}
	if s.RowNumber < 1 {
		return ErrInvalidRowNumber
	}
	return nil
}
