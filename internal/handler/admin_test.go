package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikewise/trail-pass-reservation/internal/handler"
	"github.com/hikewise/trail-pass-reservation/internal/model"
	"github.com/hikewise/trail-pass-reservation/internal/service"
)

// mockReconciler is a test double for handler.Reconciler.
type mockReconciler struct {
	batchUpdate func(ctx context.Context, in service.BatchUpdateInput) (*service.BatchUpdateResult, error)
}

func (m *mockReconciler) BatchUpdate(ctx context.Context, in service.BatchUpdateInput) (*service.BatchUpdateResult, error) {
	return m.batchUpdate(ctx, in)
}

var _ handler.Reconciler = (*mockReconciler)(nil)

// mockBulkCanceller is a test double for handler.BulkCanceller.
type mockBulkCanceller struct {
	bulkCancel func(ctx context.Context, userID uint64) error
}

func (m *mockBulkCanceller) BulkCancelByUser(ctx context.Context, userID uint64) error {
	return m.bulkCancel(ctx, userID)
}

var _ handler.BulkCanceller = (*mockBulkCanceller)(nil)

func TestAdminHandler_UpdateCapacity(t *testing.T) {
	records := []model.CapacityView{
		{StageID: 3, Date: "2026-07-14", InventoryQty: 8, ReservedQty: 8},
	}

	newHandler := func(rec *mockReconciler) *handler.AdminHandler {
		return handler.NewAdminHandler(rec, &mockBulkCanceller{})
	}

	t.Run("200 when the quantity applied as requested", func(t *testing.T) {
		reconciler := &mockReconciler{
			batchUpdate: func(_ context.Context, in service.BatchUpdateInput) (*service.BatchUpdateResult, error) {
				assert.Equal(t, uint64(3), in.StageID)
				assert.Equal(t, uint32(20), in.Quantity)
				assert.False(t, in.StageClosure)
				return &service.BatchUpdateResult{Records: records}, nil
			},
		}
		c, rec := newJSONContext(t, http.MethodPut, "/v1/admin/stages/3/capacity",
			`{"quantity":20,"start_date":"2026-07-14","end_date":"2026-07-16"}`, "1")
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, newHandler(reconciler).UpdateCapacity(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("206 when a date was forced up to its reservations", func(t *testing.T) {
		reconciler := &mockReconciler{
			batchUpdate: func(context.Context, service.BatchUpdateInput) (*service.BatchUpdateResult, error) {
				return &service.BatchUpdateResult{Records: records, Adjusted: true}, nil
			},
		}
		c, rec := newJSONContext(t, http.MethodPut, "/v1/admin/stages/3/capacity",
			`{"quantity":5,"start_date":"2026-07-14","end_date":"2026-07-14"}`, "1")
		c.SetParamNames("id")
		c.SetParamValues("3")

		require.NoError(t, newHandler(reconciler).UpdateCapacity(c))
		assert.Equal(t, http.StatusPartialContent, rec.Code)

		var body struct {
			Adjusted bool                 `json:"adjusted"`
			Records  []model.CapacityView `json:"records"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Adjusted)
		require.Len(t, body.Records, 1)
		assert.Equal(t, uint32(8), body.Records[0].InventoryQty)
	})

	t.Run("400 on an inverted date range", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPut, "/v1/admin/stages/3/capacity",
			`{"quantity":5,"start_date":"2026-07-16","end_date":"2026-07-14"}`, "1")
		c.SetParamNames("id")
		c.SetParamValues("3")
		require.NoError(t, newHandler(&mockReconciler{}).UpdateCapacity(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 when a closure carries a quantity", func(t *testing.T) {
		c, rec := newJSONContext(t, http.MethodPut, "/v1/admin/stages/3/capacity",
			`{"quantity":5,"stage_closure":true,"start_date":"2026-07-14","end_date":"2026-07-14"}`, "1")
		c.SetParamNames("id")
		c.SetParamValues("3")
		require.NoError(t, newHandler(&mockReconciler{}).UpdateCapacity(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminHandler_CancelUserOrders(t *testing.T) {
	t.Run("204 on success", func(t *testing.T) {
		canceller := &mockBulkCanceller{
			bulkCancel: func(_ context.Context, userID uint64) error {
				assert.Equal(t, uint64(9), userID)
				return nil
			},
		}
		h := handler.NewAdminHandler(&mockReconciler{}, canceller)
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/admin/users/9/orders", "", "1")
		c.SetParamNames("id")
		c.SetParamValues("9")

		require.NoError(t, h.CancelUserOrders(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("400 on a malformed user id", func(t *testing.T) {
		h := handler.NewAdminHandler(&mockReconciler{}, &mockBulkCanceller{})
		c, rec := newJSONContext(t, http.MethodDelete, "/v1/admin/users/zero/orders", "", "1")
		c.SetParamNames("id")
		c.SetParamValues("zero")
		require.NoError(t, h.CancelUserOrders(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
