package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound         = errors.New("予約が見つかりません")
	ErrBookingAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrTooManySeats            = errors.New("一度に予約できる座席数を超えています")
	ErrInvalidSeatCount        = errors.New("座席数は1以上である必要があります")
	ErrUserIDRequired          = errors.New("ユーザーIDは必須です")
	ErrSeatIDsRequired         = errors.New("座席IDは必須です")
)
