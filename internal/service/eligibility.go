package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// EligibilityStore is the data access the eligibility check needs.
type EligibilityStore interface {
	HasOrderWithPasses(ctx context.Context, userID, stageID uint64, date time.Time) (bool, error)
	UnfinishedTracking(ctx context.Context, userID, stageID uint64) (*model.TrailTracking, error)
}

// EligibilityChecker decides whether a user may start a new booking
// for a stage/date.  The check is read-only and holds no lock, so the
// allocator re-validates the capacity-sensitive invariants inside its
// own transaction.
type EligibilityChecker struct {
	store EligibilityStore
}

// NewEligibilityChecker constructs an EligibilityChecker.
func NewEligibilityChecker(store EligibilityStore) *EligibilityChecker {
	return &EligibilityChecker{store: store}
}

// CheckEligibility returns nil when the user may book the stage on
// the date, ErrAlreadyBooked when an existing booking or in-progress
// trail activity blocks it, or a wrapped storage error.
func (c *EligibilityChecker) CheckEligibility(ctx context.Context, userID, stageID uint64, date time.Time) error {
	booked, err := c.store.HasOrderWithPasses(ctx, userID, stageID, date)
	if err != nil {
		return fmt.Errorf("eligibility: query existing orders: %w", err)
	}
	if booked {
		return ErrAlreadyBooked
	}

	// A hiker still mid-trail on an extended pass must not re-book the
	// stage for a date their current walk already covers.
	tracking, err := c.store.UnfinishedTracking(ctx, userID, stageID)
	if err != nil {
		return fmt.Errorf("eligibility: query trail progress: %w", err)
	}
	if tracking != nil && tracking.UpdatedAt.After(date.UTC()) {
		return ErrAlreadyBooked
	}
	return nil
}
