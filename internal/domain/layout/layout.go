package layout

import (
	"errors"

	"github.com/its-samarth/workwise-backend/internal/domain/seat"
)

// Layout ドメインのエラー定義
var (
	ErrInvalidRows         = errors.New("列数は1以上である必要があります")
	ErrInvalidSeatsPerRow  = errors.New("1列あたりの座席数は1以上である必要があります")
	ErrInvalidLastRowSeats = errors.New("最終列の座席数は1以上かつ1列あたりの座席数以下である必要があります")
)

// Layout は会場の固定レイアウトを表す
// 最終列以外は SeatsPerRow 席、最終列のみ LastRowSeats 席となる
// 実行時に変更されることはない
type Layout struct {
	Rows         int
	SeatsPerRow  int
	LastRowSeats int
}

// New は検証済みのレイアウトを作成する
func New(rows, seatsPerRow, lastRowSeats int) (Layout, error) {
	l := Layout{Rows: rows, SeatsPerRow: seatsPerRow, LastRowSeats: lastRowSeats}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate はレイアウトの検証を行う
func (l Layout) Validate() error {
	if l.Rows < 1 {
		return ErrInvalidRows
	}
	if l.SeatsPerRow < 1 {
		return ErrInvalidSeatsPerRow
	}
	if l.LastRowSeats < 1 || l.LastRowSeats > l.SeatsPerRow {
		return ErrInvalidLastRowSeats
	}
	return nil
}

// TotalSeats はレイアウト全体の座席数を返す
func (l Layout) TotalSeats() int {
	return (l.Rows-1)*l.SeatsPerRow + l.LastRowSeats
}

// RowSize は指定列の座席数を返す
func (l Layout) RowSize(row int) int {
	if row == l.Rows {
		return l.LastRowSeats
	}
	return l.SeatsPerRow
}

// Seats はレイアウトに従って座席エンティティを生成する
// 座席番号は列を順に埋めながら1から単調に振られるため、
// 同一列の座席番号は連続した範囲になる
func (l Layout) Seats() []*seat.Seat {
	seats := make([]*seat.Seat, 0, l.TotalSeats())
	seatNumber := 1
	for row := 1; row <= l.Rows; row++ {
		for i := 0; i < l.RowSize(row); i++ {
			seats = append(seats, seat.NewSeat(seatNumber, row))
			seatNumber++
		}
	}
	return seats
}
