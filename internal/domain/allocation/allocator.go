package allocation

import (
	"errors"

	"github.com/its-samarth/workwise-backend/internal/domain/seat"
)

// Allocation ドメインのエラー定義
var (
	ErrNotEnoughSeats   = errors.New("空席が不足しています")
	ErrInvalidSeatCount = errors.New("座席数は1以上である必要があります")
)

// rowGroup は1列分の空席を座席番号昇順で保持する
type rowGroup struct {
	row   int
	seats []*seat.Seat
}

// Allocate は空席の中から要求数分の座席を決定的に選択する
// 入力の available は (row_number, seat_number) 昇順であること
//
// 選択は2段階で行う:
//  1. 単一列内で座席番号が連続する並び（最初に見つかった列を採用）
//  2. 見つからない場合、開始列を変えながら列をまたいで貪欲に座席を集め、
//     重心からの距離二乗和が最小のクラスタを採用する
//
// 要求数を満たす候補が存在しない場合は ErrNotEnoughSeats を返す
func Allocate(available []*seat.Seat, count int) ([]*seat.Seat, error) {
	if count < 1 {
		return nil, ErrInvalidSeatCount
	}
	if len(available) < count {
		return nil, ErrNotEnoughSeats
	}

	rows := groupByRow(available)

	// 単一列の連続区間を列番号昇順で探す
	for _, rg := range rows {
		if run := findConsecutiveRun(rg.seats, count); run != nil {
			return run, nil
		}
	}

	// フォールバック: 複数列クラスタをスコアリングして選ぶ
	var best []*seat.Seat
	bestScore := 0.0
	for start := range rows {
		candidate := gatherCluster(rows, start, count)
		if len(candidate) < count {
			continue
		}
		candidate = candidate[:count]
		s := clusterScore(candidate)
		if best == nil || s < bestScore {
			best = candidate
			bestScore = s
		}
	}
	if best == nil {
		return nil, ErrNotEnoughSeats
	}
	return best, nil
}

// groupByRow は空席を列ごとに分割する
// 入力順を保つため、列は昇順・列内の座席は座席番号昇順のまま
func groupByRow(available []*seat.Seat) []rowGroup {
	var rows []rowGroup
	for _, s := range available {
		if n := len(rows); n > 0 && rows[n-1].row == s.RowNumber {
			rows[n-1].seats = append(rows[n-1].seats, s)
			continue
		}
		rows = append(rows, rowGroup{row: s.RowNumber, seats: []*seat.Seat{s}})
	}
	return rows
}

// findConsecutiveRun は座席番号が1ずつ増える長さ count の並びを探す
// 最初に見つかった並びを返し、存在しなければ nil を返す
func findConsecutiveRun(seats []*seat.Seat, count int) []*seat.Seat {
	if len(seats) < count {
		return nil
	}
	if count == 1 {
		return seats[:1]
	}
	runStart := 0
	for i := 1; i < len(seats); i++ {
		if seats[i].SeatNumber != seats[i-1].SeatNumber+1 {
			runStart = i
			continue
		}
		if i-runStart+1 >= count {
			return seats[i-count+1 : i+1]
		}
	}
	return nil
}

// gatherCluster は開始列から列を順に進めながら座席を集める
// 各列からは残り必要数を上限として座席番号順に取る
func gatherCluster(rows []rowGroup, start, count int) []*seat.Seat {
	cluster := make([]*seat.Seat, 0, count)
	for i := start; i < len(rows) && len(cluster) < count; i++ {
		need := count - len(cluster)
		take := rows[i].seats
		if len(take) > need {
			take = take[:need]
		}
		cluster = append(cluster, take...)
	}
	return cluster
}

// clusterScore はクラスタの重心からの距離二乗和を返す
// 値が小さいほど密集し中心に寄った選択となる
func clusterScore(cluster []*seat.Seat) float64 {
	var sumRow, sumSeat float64
	for _, s := range cluster {
		sumRow += float64(s.RowNumber)
		sumSeat += float64(s.SeatNumber)
	}
	n := float64(len(cluster))
	centerRow := sumRow / n
	centerSeat := sumSeat / n

	var score float64
	for _, s := range cluster {
		dr := float64(s.RowNumber) - centerRow
		ds := float64(s.SeatNumber) - centerSeat
		score += dr*dr + ds*ds
	}
	return score
}
