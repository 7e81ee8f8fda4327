package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikewise/trail-pass-reservation/internal/handler"
	"github.com/hikewise/trail-pass-reservation/internal/service"
)

// mockLifecycle is a test double for handler.Lifecycle.
type mockLifecycle struct {
	transfer   func(ctx context.Context, passID, fromUserID, toUserID uint64) error
	amendOrder func(ctx context.Context, orderID, userID, newStageID uint64, newDate time.Time) error
	cancel     func(ctx context.Context, passID, userID uint64) error
}

func (m *mockLifecycle) Transfer(ctx context.Context, passID, fromUserID, toUserID uint64) error {
	return m.transfer(ctx, passID, fromUserID, toUserID)
}

func (m *mockLifecycle) AmendOrder(ctx context.Context, orderID, userID, newStageID uint64, newDate time.Time) error {
	return m.amendOrder(ctx, orderID, userID, newStageID, newDate)
}

func (m *mockLifecycle) Cancel(ctx context.Context, passID, userID uint64) error {
	return m.cancel(ctx, passID, userID)
}

var _ handler.Lifecycle = (*mockLifecycle)(nil)

func TestPassHandler_Transfer(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		lc := &mockLifecycle{
			transfer: func(_ context.Context, passID, from, to uint64) error {
				assert.Equal(t, uint64(5), passID)
				assert.Equal(t, uint64(9), from)
				assert.Equal(t, uint64(12), to)
				return nil
			},
		}
		c, rec := newJSONContext(t, http.MethodPost, "/v1/passes/5/transfer", `{"to_user_id":12}`, "9")
		c.SetParamNames("id")
		c.SetParamValues("5")

		require.NoError(t, handler.NewPassHandler(lc).Transfer(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("400 without a recipient", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPost, "/v1/passes/5/transfer", `{}`, "9")
		c.SetParamNames("id")
		c.SetParamValues("5")
		require.NoError(t, handler.NewPassHandler(&mockLifecycle{}).Transfer(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("guard rejections map onto the taxonomy", func(t *testing.T) {
		cases := []struct {
			err  error
			want int
		}{
			{service.ErrNotOwner, http.StatusForbidden},
			{service.ErrSameUser, http.StatusConflict},
			{service.ErrPassActivated, http.StatusConflict},
			{service.ErrPassTransferred, http.StatusConflict},
			{service.ErrPassCancelled, http.StatusConflict},
			{service.ErrPassExpired, http.StatusConflict},
			{service.ErrRecipientHasActivePass, http.StatusConflict},
		}
		for _, tc := range cases {
			t.Run(tc.err.Error(), func(t *testing.T) {
				lc := &mockLifecycle{
					transfer: func(context.Context, uint64, uint64, uint64) error { return tc.err },
				}
				c, rec := newJSONContext(t, http.MethodPost, "/v1/passes/5/transfer", `{"to_user_id":12}`, "9")
				c.SetParamNames("id")
				c.SetParamValues("5")
				require.NoError(t, handler.NewPassHandler(lc).Transfer(c))
				assert.Equal(t, tc.want, rec.Code)
			})
		}
	})
}

func TestPassHandler_Amend(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		lc := &mockLifecycle{
			amendOrder: func(_ context.Context, orderID, userID, stageID uint64, date time.Time) error {
				assert.Equal(t, uint64(77), orderID)
				assert.Equal(t, uint64(9), userID)
				assert.Equal(t, uint64(4), stageID)
				assert.Equal(t, time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC), date)
				return nil
			},
		}
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders/77/amend",
			`{"stage_id":4,"date":"2026-07-20"}`, "9")
		c.SetParamNames("id")
		c.SetParamValues("77")

		require.NoError(t, handler.NewPassHandler(lc).Amend(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("409 inside the lock window", func(t *testing.T) {
		lc := &mockLifecycle{
			amendOrder: func(context.Context, uint64, uint64, uint64, time.Time) error {
				return service.ErrInsideLockWindow
			},
		}
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders/77/amend",
			`{"stage_id":4,"date":"2026-07-20"}`, "9")
		c.SetParamNames("id")
		c.SetParamValues("77")
		require.NoError(t, handler.NewPassHandler(lc).Amend(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("400 on same-date amendment", func(t *testing.T) {
		lc := &mockLifecycle{
			amendOrder: func(context.Context, uint64, uint64, uint64, time.Time) error {
				return service.ErrSameDate
			},
		}
		c, rec := newJSONContext(t, http.MethodPost, "/v1/orders/77/amend",
			`{"stage_id":4,"date":"2026-07-14"}`, "9")
		c.SetParamNames("id")
		c.SetParamValues("77")
		require.NoError(t, handler.NewPassHandler(lc).Amend(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPassHandler_Cancel(t *testing.T) {
	t.Run("204 on success", func(t *testing.T) {
		lc := &mockLifecycle{
			cancel: func(_ context.Context, passID, userID uint64) error {
				assert.Equal(t, uint64(5), passID)
				assert.Equal(t, uint64(9), userID)
				return nil
			},
		}
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/passes/5", "", "9")
		c.SetParamNames("id")
		c.SetParamValues("5")

		require.NoError(t, handler.NewPassHandler(lc).Cancel(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("400 on a malformed pass id", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/passes/abc", "", "9")
		c.SetParamNames("id")
		c.SetParamValues("abc")
		require.NoError(t, handler.NewPassHandler(&mockLifecycle{}).Cancel(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
