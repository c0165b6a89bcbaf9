package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatAlreadyBooked = errors.New("座席は既に予約されています")
	ErrSeatConflict      = errors.New("座席の予約が競合しました")
	ErrInvalidSeatNumber = errors.New("座席番号は1以上である必要があります")
	ErrInvalidRowNumber  = errors.New("列番号は1以上である必要があります")
)
