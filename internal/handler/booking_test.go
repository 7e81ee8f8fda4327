package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikewise/trail-pass-reservation/internal/handler"
	"github.com/hikewise/trail-pass-reservation/internal/model"
	"github.com/hikewise/trail-pass-reservation/internal/service"
)

// mockAllocator is a test double for handler.Allocator.
type mockAllocator struct {
	createOrder func(ctx context.Context, in service.CreateOrderInput) (*service.CreateOrderResult, error)
}

func (m *mockAllocator) CreateOrder(ctx context.Context, in service.CreateOrderInput) (*service.CreateOrderResult, error) {
	return m.createOrder(ctx, in)
}

var _ handler.Allocator = (*mockAllocator)(nil)

// newJSONContext builds an echo context carrying a JSON body and the
// authenticated user, the way JWTAuth leaves it.
func newJSONContext(t *testing.T, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestBookingHandler_CreateOrder(t *testing.T) {
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	t.Run("201 with pass numbers", func(t *testing.T) {
		alloc := &mockAllocator{
			createOrder: func(_ context.Context, in service.CreateOrderInput) (*service.CreateOrderResult, error) {
				assert.Equal(t, uint64(9), in.UserID)
				assert.Equal(t, uint64(3), in.StageID)
				assert.Equal(t, date, in.Date)
				return &service.CreateOrderResult{
					Order: model.Order{
						ID:          77,
						UserID:      9,
						StageID:     3,
						ReservedFor: date,
						Status:      model.OrderStatusActive,
						CreatedAt:   time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
					},
					AdultCount:  2,
					ChildCount:  1,
					PassNumbers: []string{"03-20260714-100001", "03-20260714-100002", "03-20260714-100003"},
				}, nil
			},
		}
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders",
			`{"stage_id":3,"date":"2026-07-14","adult_count":2,"child_count":1}`, "9")

		require.NoError(t, handler.NewBookingHandler(alloc).CreateOrder(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.EqualValues(t, 77, body["order_id"])
		assert.Equal(t, "2026-07-14", body["reserved_for"])
		assert.Len(t, body["pass_numbers"], 3)
	})

	t.Run("400 on malformed date", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders",
			`{"stage_id":3,"date":"14.07.2026","adult_count":1}`, "9")
		require.NoError(t, handler.NewBookingHandler(&mockAllocator{}).CreateOrder(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on missing stage", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders",
			`{"date":"2026-07-14","adult_count":1}`, "9")
		require.NoError(t, handler.NewBookingHandler(&mockAllocator{}).CreateOrder(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("401 without an authenticated user", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders",
			`{"stage_id":3,"date":"2026-07-14","adult_count":1}`, "")
		require.NoError(t, handler.NewBookingHandler(&mockAllocator{}).CreateOrder(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("core errors map onto the taxonomy", func(t *testing.T) {
		cases := []struct {
			err  error
			want int
		}{
			{service.ErrQuotaExceeded, http.StatusBadRequest},
			{service.ErrDailyLimitExceeded, http.StatusBadRequest},
			{service.ErrAlreadyBooked, http.StatusConflict},
			{service.ErrInsufficientInventory, http.StatusConflict},
			{service.ErrPassIDExhausted, http.StatusInternalServerError},
		}
		for _, tc := range cases {
			t.Run(tc.err.Error(), func(t *testing.T) {
				alloc := &mockAllocator{
					createOrder: func(context.Context, service.CreateOrderInput) (*service.CreateOrderResult, error) {
						return nil, tc.err
					},
				}
				c, rec := newJSONContext(t, http.MethodPost, "/v1/orders",
					`{"stage_id":3,"date":"2026-07-14","adult_count":1}`, "9")
				require.NoError(t, handler.NewBookingHandler(alloc).CreateOrder(c))
				assert.Equal(t, tc.want, rec.Code)
			})
		}
	})
}
