package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// mockEligibilityStore is a test double for EligibilityStore.
type mockEligibilityStore struct {
	hasOrderWithPasses func(ctx context.Context, userID, stageID uint64, date time.Time) (bool, error)
	unfinishedTracking func(ctx context.Context, userID, stageID uint64) (*model.TrailTracking, error)
}

func (m *mockEligibilityStore) HasOrderWithPasses(ctx context.Context, userID, stageID uint64, date time.Time) (bool, error) {
	return m.hasOrderWithPasses(ctx, userID, stageID, date)
}

func (m *mockEligibilityStore) UnfinishedTracking(ctx context.Context, userID, stageID uint64) (*model.TrailTracking, error) {
	return m.unfinishedTracking(ctx, userID, stageID)
}

var _ EligibilityStore = (*mockEligibilityStore)(nil)

func TestCheckEligibility(t *testing.T) {
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	t.Run("allows a fresh stage and date", func(t *testing.T) {
		c := NewEligibilityChecker(&mockEligibilityStore{
			hasOrderWithPasses: func(context.Context, uint64, uint64, time.Time) (bool, error) { return false, nil },
			unfinishedTracking: func(context.Context, uint64, uint64) (*model.TrailTracking, error) { return nil, nil },
		})
		require.NoError(t, c.CheckEligibility(context.Background(), 1, 2, date))
	})

	t.Run("rejects a repeated booking", func(t *testing.T) {
		c := NewEligibilityChecker(&mockEligibilityStore{
			hasOrderWithPasses: func(context.Context, uint64, uint64, time.Time) (bool, error) { return true, nil },
		})
		assert.ErrorIs(t, c.CheckEligibility(context.Background(), 1, 2, date), ErrAlreadyBooked)
	})

	t.Run("rejects while an unfinished walk covers the date", func(t *testing.T) {
		c := NewEligibilityChecker(&mockEligibilityStore{
			hasOrderWithPasses: func(context.Context, uint64, uint64, time.Time) (bool, error) { return false, nil },
			unfinishedTracking: func(context.Context, uint64, uint64) (*model.TrailTracking, error) {
				return &model.TrailTracking{UpdatedAt: date.Add(6 * time.Hour)}, nil
			},
		})
		assert.ErrorIs(t, c.CheckEligibility(context.Background(), 1, 2, date), ErrAlreadyBooked)
	})

	t.Run("allows when the unfinished walk predates the date", func(t *testing.T) {
		c := NewEligibilityChecker(&mockEligibilityStore{
			hasOrderWithPasses: func(context.Context, uint64, uint64, time.Time) (bool, error) { return false, nil },
			unfinishedTracking: func(context.Context, uint64, uint64) (*model.TrailTracking, error) {
				return &model.TrailTracking{UpdatedAt: date.Add(-48 * time.Hour)}, nil
			},
		})
		require.NoError(t, c.CheckEligibility(context.Background(), 1, 2, date))
	})

	t.Run("wraps storage failures", func(t *testing.T) {
		boom := errors.New("connection lost")
		c := NewEligibilityChecker(&mockEligibilityStore{
			hasOrderWithPasses: func(context.Context, uint64, uint64, time.Time) (bool, error) { return false, boom },
		})
		assert.ErrorIs(t, c.CheckEligibility(context.Background(), 1, 2, date), boom)
	})
}
