package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPassIDStore is a test double for PassIDStore.
type mockPassIDStore struct {
	existingPassIDs func(ctx context.Context, userID uint64, date time.Time, candidates []uint32) ([]uint32, error)
}

func (m *mockPassIDStore) ExistingPassIDs(ctx context.Context, userID uint64, date time.Time, candidates []uint32) ([]uint32, error) {
	return m.existingPassIDs(ctx, userID, date, candidates)
}

var _ PassIDStore = (*mockPassIDStore)(nil)

// sequentialIntN returns an intn that walks 0,1,2,... so batches are
// deterministic and collision-free.
func sequentialIntN() func(int) int {
	n := 0
	return func(limit int) int {
		v := n % limit
		n++
		return v
	}
}

func TestGenerateUniqueIDs(t *testing.T) {
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	t.Run("returns distinct in-range ids", func(t *testing.T) {
		store := &mockPassIDStore{
			existingPassIDs: func(_ context.Context, _ uint64, _ time.Time, _ []uint32) ([]uint32, error) {
				return nil, nil
			},
		}
		g := &PassIDGenerator{store: store, intn: sequentialIntN()}

		ids, err := g.GenerateUniqueIDs(context.Background(), 5, 1, date)
		require.NoError(t, err)
		require.Len(t, ids, 5)

		seen := map[uint32]struct{}{}
		for _, id := range ids {
			assert.GreaterOrEqual(t, id, uint32(passIDMin))
			assert.LessOrEqual(t, id, uint32(passIDMax))
			_, dup := seen[id]
			assert.False(t, dup, "id %d repeated in batch", id)
			seen[id] = struct{}{}
		}
	})

	t.Run("any collision regenerates the whole batch", func(t *testing.T) {
		var batches [][]uint32
		store := &mockPassIDStore{
			existingPassIDs: func(_ context.Context, _ uint64, _ time.Time, candidates []uint32) ([]uint32, error) {
				batches = append(batches, append([]uint32(nil), candidates...))
				if len(batches) == 1 {
					// First batch collides on one entry.
					return candidates[:1], nil
				}
				return nil, nil
			},
		}
		g := &PassIDGenerator{store: store, intn: sequentialIntN()}

		ids, err := g.GenerateUniqueIDs(context.Background(), 3, 1, date)
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.NotEqual(t, batches[0], ids, "colliding batch must be discarded entirely")
		assert.Equal(t, batches[1], ids)
	})

	t.Run("gives up after the attempt cap", func(t *testing.T) {
		calls := 0
		store := &mockPassIDStore{
			existingPassIDs: func(_ context.Context, _ uint64, _ time.Time, candidates []uint32) ([]uint32, error) {
				calls++
				return candidates, nil // everything always taken
			},
		}
		g := &PassIDGenerator{store: store, intn: sequentialIntN()}

		_, err := g.GenerateUniqueIDs(context.Background(), 2, 1, date)
		assert.ErrorIs(t, err, ErrPassIDExhausted)
		assert.Equal(t, maxIDAttempts, calls)
	})

	t.Run("zero count needs no lookup", func(t *testing.T) {
		g := &PassIDGenerator{store: nil, intn: sequentialIntN()}
		ids, err := g.GenerateUniqueIDs(context.Background(), 0, 1, date)
		require.NoError(t, err)
		assert.Nil(t, ids)
	})
}

func TestPublicPassNumber(t *testing.T) {
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "03-20260714-123456", PublicPassNumber(3, date, 123456))
	assert.Equal(t, "12-20260714-100000", PublicPassNumber(12, date, 100000))
}
