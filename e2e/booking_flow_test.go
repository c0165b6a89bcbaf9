package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	server := getTestServer(t)

	rec := server.Request("GET", "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

// TestE2E_CompleteBookingJourney は予約の完全なジャーニーをテスト
func TestE2E_CompleteBookingJourney(t *testing.T) {
	server := getTestServer(t)

	userID := "e2e-user-yamada"
	var bookingID float64

	// 1. 初期状態では80席すべて空席
	t.Run("初期空席数確認", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/seats/available/count", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(80), resp["count"])
	})

	// 2. 4席予約（1列目の連続区間が割り当てられる）
	t.Run("予約作成", func(t *testing.T) {
		body := map[string]interface{}{"number_of_seats": 4}
		rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
			"X-User-ID": userID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		bookingID = resp["id"].(float64)
		assert.Equal(t, "ACTIVE", resp["status"])

		seatIDs := resp["seat_ids"].([]interface{})
		require.Len(t, seatIDs, 4)
	})

	// 3. 空席数が減っている
	t.Run("空席数減少確認", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/seats/available/count", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(76), resp["count"])
	})

	// 4. 予約詳細確認
	t.Run("予約詳細確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/bookings/%.0f", bookingID)
		rec := server.Request("GET", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, bookingID, resp["id"])
		assert.Equal(t, userID, resp["user_id"])
	})

	// 5. ユーザーの予約一覧に含まれる
	t.Run("予約一覧確認", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/bookings", nil, map[string]string{
			"X-User-ID": userID,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		require.Len(t, resp, 1)
	})

	// 6. キャンセルで座席が解放される
	t.Run("キャンセル", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/bookings/%.0f/cancel", bookingID)
		rec := server.Request("POST", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, "CANCELLED", resp["status"])
	})

	t.Run("キャンセル後の空席数確認", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/seats/available/count", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(80), resp["count"])
	})

	// 7. 二重キャンセルも成功として扱われる
	t.Run("二重キャンセルは成功", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/bookings/%.0f/cancel", bookingID)
		rec := server.Request("POST", path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, "CANCELLED", resp["status"])
	})
}

// TestE2E_BookingLimits は予約数の制限をテスト
func TestE2E_BookingLimits(t *testing.T) {
	server := getTestServer(t)

	t.Run("8席以上の予約は400", func(t *testing.T) {
		body := map[string]interface{}{"number_of_seats": 8}
		rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
			"X-User-ID": "user-limit",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("席数0の予約は400", func(t *testing.T) {
		body := map[string]interface{}{"number_of_seats": 0}
		rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
			"X-User-ID": "user-limit",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ユーザーIDなしは401", func(t *testing.T) {
		body := map[string]interface{}{"number_of_seats": 2}
		rec := server.Request("POST", "/api/v1/bookings", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// TestE2E_VenueExhaustion は満席時の動作をテスト
func TestE2E_VenueExhaustion(t *testing.T) {
	server := getTestServer(t)

	// 7席×11回 + 3席 = 80席で満席にする
	for i := 0; i < 11; i++ {
		body := map[string]interface{}{"number_of_seats": 7}
		rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
			"X-User-ID": fmt.Sprintf("user-%d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	body := map[string]interface{}{"number_of_seats": 3}
	rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
		"X-User-ID": "user-last",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("満席確認", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/seats/available/count", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(0), resp["count"])
	})

	t.Run("満席時の予約は400", func(t *testing.T) {
		body := map[string]interface{}{"number_of_seats": 1}
		rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
			"X-User-ID": "user-overflow",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("リセットで全席解放", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/admin/reset", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = server.Request("GET", "/api/v1/seats/available/count", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(80), resp["count"])
	})
}

// TestE2E_SeatListing は座席一覧の取得をテスト
func TestE2E_SeatListing(t *testing.T) {
	server := getTestServer(t)

	// 2席予約して空席一覧から除外されることを確認
	body := map[string]interface{}{"number_of_seats": 2}
	rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
		"X-User-ID": "user-listing",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("全座席一覧は80件", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/seats", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Len(t, resp, 80)
	})

	t.Run("空席一覧は78件", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/seats?available=true", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Len(t, resp, 78)
		for _, s := range resp {
			assert.Equal(t, false, s["is_booked"])
		}
	})
}

// TestE2E_AdjacentAllocation は割り当ての決定性をテスト
func TestE2E_AdjacentAllocation(t *testing.T) {
	server := getTestServer(t)

	// 空の会場では1列目の先頭から連続で割り当てられる
	body := map[string]interface{}{"number_of_seats": 3}
	rec := server.Request("POST", "/api/v1/bookings", body, map[string]string{
		"X-User-ID": "user-adjacent",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	seatIDs := resp["seat_ids"].([]interface{})
	require.Len(t, seatIDs, 3)

	// 座席一覧から割り当てられた座席の番号を引く
	rec = server.Request("GET", "/api/v1/seats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var seats []map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &seats)

	booked := make([]float64, 0, 3)
	for _, s := range seats {
		if s["is_booked"] == true {
			booked = append(booked, s["seat_number"].(float64))
		}
	}
	require.Len(t, booked, 3)
	// 連続した座席番号になっている
	assert.Equal(t, booked[0]+1, booked[1])
	assert.Equal(t, booked[1]+1, booked[2])
}
