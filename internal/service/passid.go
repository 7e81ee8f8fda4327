package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Pass numbers are random six-digit integers.  The space is large
// relative to the per-user daily batch size (at most 5), so the
// whole-batch retry below terminates with overwhelming probability.
const (
	passIDMin = 100000
	passIDMax = 999999

	// maxIDAttempts caps the regenerate-on-collision loop.
	maxIDAttempts = 20
)

// PassIDStore is the collision lookup the generator needs.
type PassIDStore interface {
	ExistingPassIDs(ctx context.Context, userID uint64, date time.Time, candidates []uint32) ([]uint32, error)
}

// PassIDGenerator produces batches of public pass numbers that are
// unique per (user, date).  Uniqueness across users is not required;
// the surrounding allocation transaction protects the same user+date
// pair against concurrent generation.
type PassIDGenerator struct {
	store PassIDStore
	intn  func(n int) int
}

// NewPassIDGenerator constructs a generator backed by math/rand.
func NewPassIDGenerator(store PassIDStore) *PassIDGenerator {
	return &PassIDGenerator{store: store, intn: rand.Intn}
}

// GenerateUniqueIDs returns count pass numbers with no collision
// against the user's existing passes on the date.  Any collision
// regenerates the entire batch rather than patching single entries,
// so a returned batch is always internally distinct as well.  After
// maxIDAttempts the generator gives up with ErrPassIDExhausted.
func (g *PassIDGenerator) GenerateUniqueIDs(ctx context.Context, count int, userID uint64, date time.Time) ([]uint32, error) {
	if count <= 0 {
		return nil, nil
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		batch := g.randomBatch(count)
		taken, err := g.store.ExistingPassIDs(ctx, userID, date, batch)
		if err != nil {
			return nil, fmt.Errorf("pass ids: collision lookup: %w", err)
		}
		if len(taken) == 0 {
			return batch, nil
		}
	}
	return nil, ErrPassIDExhausted
}

// randomBatch draws count distinct numbers from the pass-ID range.
func (g *PassIDGenerator) randomBatch(count int) []uint32 {
	batch := make([]uint32, 0, count)
	seen := make(map[uint32]struct{}, count)
	for len(batch) < count {
		id := uint32(passIDMin + g.intn(passIDMax-passIDMin+1))
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		batch = append(batch, id)
	}
	return batch
}

// PublicPassNumber derives the display identifier printed on a pass
// from the stage sequence number, the reserved date and the random
// pass number.  Display only; never used as a key.
func PublicPassNumber(stageSeq uint32, date time.Time, passID uint32) string {
	return fmt.Sprintf("%02d-%s-%06d", stageSeq, date.UTC().Format("20060102"), passID)
}
