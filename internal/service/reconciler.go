package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
	"github.com/hikewise/trail-pass-reservation/internal/repository"
)

// ReconcilerStore is the data access the inventory reconciler needs.
type ReconcilerStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	StageByID(ctx context.Context, stageID uint64) (*model.Stage, error)
	CapacityByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error)
	CreateCapacity(ctx context.Context, c *model.StageCapacity) error
	UpdateCapacityQuantity(ctx context.Context, id uint64, quantity uint32) error
	ReservedCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error)
	CancelledCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error)
	UpsertStageClosure(ctx context.Context, stageID uint64, date time.Time, reason string) error
	ClosureGroups(ctx context.Context, stageID uint64, date time.Time) ([]repository.ClosureGroup, error)
	CancelPassesByStageAndDate(ctx context.Context, stageID uint64, date, at time.Time) (int64, error)
	CancelOrdersByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (int64, error)
}

// InventoryReconciler applies administrative capacity changes over a
// date range.  Reducing capacity below existing reservations is never
// done silently: either the new quantity is forced back up to the
// reserved count, or -- when the stage is being closed -- the requested
// quantity applies and the conflicting bookings are cancelled and
// their holders notified.
type InventoryReconciler struct {
	store    ReconcilerStore
	notifier Notifier
	clock    Clock
}

// NewInventoryReconciler constructs an InventoryReconciler.
func NewInventoryReconciler(store ReconcilerStore, notifier Notifier, clock Clock) *InventoryReconciler {
	return &InventoryReconciler{store: store, notifier: notifier, clock: clock}
}

// BatchUpdateInput describes one capacity adjustment request.
type BatchUpdateInput struct {
	StageID      uint64
	Quantity     uint32
	StartDate    time.Time
	EndDate      time.Time
	StageClosure bool
	Reason       string
}

// BatchUpdateResult reports the capacity rows after the update.
// Adjusted is set when at least one date's quantity was forced up to
// its reserved count, so callers can report partial success instead
// of a silent override.
type BatchUpdateResult struct {
	Records  []model.CapacityView
	Adjusted bool
}

// BatchUpdate walks the inclusive date range and applies the
// requested quantity per date, then runs the closure cascade for any
// date that was closed.  Cascade failures are isolated per date.
func (r *InventoryReconciler) BatchUpdate(ctx context.Context, in BatchUpdateInput) (*BatchUpdateResult, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("reconcile: end date %s before start date %s",
			in.EndDate.Format("2006-01-02"), in.StartDate.Format("2006-01-02"))
	}
	stage, err := r.store.StageByID(ctx, in.StageID)
	if err != nil {
		return nil, err
	}

	result := &BatchUpdateResult{}
	var closedDates []time.Time
	for date := in.StartDate.UTC(); !date.After(in.EndDate.UTC()); date = date.AddDate(0, 0, 1) {
		view, adjusted, err := r.applyDate(ctx, in, date)
		if err != nil {
			return nil, err
		}
		if adjusted {
			result.Adjusted = true
		}
		if view != nil {
			result.Records = append(result.Records, *view)
		}
		if in.StageClosure {
			if err := r.store.UpsertStageClosure(ctx, in.StageID, date, in.Reason); err != nil {
				return nil, fmt.Errorf("reconcile: record closure for %s: %w", date.Format("2006-01-02"), err)
			}
			closedDates = append(closedDates, date)
		}
	}

	// Cascades are independent per date; run them in parallel and let
	// one failed date spoil neither the others nor the capacity
	// updates above.
	var wg sync.WaitGroup
	for _, date := range closedDates {
		wg.Add(1)
		go func(date time.Time) {
			defer wg.Done()
			if err := r.cascadeClosure(ctx, stage, date, in.Reason); err != nil {
				log.Printf("reconciler: closure cascade for stage %d on %s: %v",
					stage.ID, date.Format("2006-01-02"), err)
			}
		}(date)
	}
	wg.Wait()
	return result, nil
}

// applyDate reconciles a single date and returns its resulting view.
func (r *InventoryReconciler) applyDate(ctx context.Context, in BatchUpdateInput, date time.Time) (*model.CapacityView, bool, error) {
	reserved, err := r.store.ReservedCount(ctx, in.StageID, date)
	if err != nil {
		return nil, false, fmt.Errorf("reconcile: count reserved for %s: %w", date.Format("2006-01-02"), err)
	}

	rec, err := r.store.CapacityByStageAndDate(ctx, in.StageID, date)
	switch {
	case errors.Is(err, repository.ErrCapacityNotFound):
		if in.Quantity == 0 && !in.StageClosure {
			return nil, false, nil
		}
		rec = &model.StageCapacity{StageID: in.StageID, Date: date, InventoryQty: in.Quantity}
		if err := r.store.CreateCapacity(ctx, rec); err != nil {
			return nil, false, fmt.Errorf("reconcile: create capacity for %s: %w", date.Format("2006-01-02"), err)
		}
		view, err := r.view(ctx, in.StageID, date, rec.InventoryQty, reserved)
		return view, false, err
	case err != nil:
		return nil, false, err
	}

	effective := in.Quantity
	adjusted := false
	// Capacity cannot be cut below existing bookings unless the stage
	// is being closed, in which case the cascade resolves the
	// conflict by cancelling them.
	if effective < reserved && !in.StageClosure {
		effective = reserved
		adjusted = true
	}
	if err := r.store.UpdateCapacityQuantity(ctx, rec.ID, effective); err != nil {
		return nil, false, fmt.Errorf("reconcile: update capacity for %s: %w", date.Format("2006-01-02"), err)
	}
	view, err := r.view(ctx, in.StageID, date, effective, reserved)
	return view, adjusted, err
}

func (r *InventoryReconciler) view(ctx context.Context, stageID uint64, date time.Time, qty, reserved uint32) (*model.CapacityView, error) {
	cancelled, err := r.store.CancelledCount(ctx, stageID, date)
	if err != nil {
		return nil, fmt.Errorf("reconcile: count cancelled: %w", err)
	}
	return &model.CapacityView{
		StageID:      stageID,
		Date:         date.Format("2006-01-02"),
		InventoryQty: qty,
		ReservedQty:  reserved,
		CancelledQty: cancelled,
	}, nil
}

// cascadeClosure notifies and cancels every booking affected by a
// stage closure on one date.  Notifications go out before the
// cancellation commits so a dispatch failure cannot leave a user
// uninformed about passes that are already gone; per-recipient mail
// failures are logged and do not block the cancellation.
func (r *InventoryReconciler) cascadeClosure(ctx context.Context, stage *model.Stage, date time.Time, reason string) error {
	groups, err := r.store.ClosureGroups(ctx, stage.ID, date)
	if err != nil {
		return fmt.Errorf("aggregate affected bookings: %w", err)
	}
	if len(groups) == 0 {
		return nil
	}

	for _, g := range groups {
		note := ClosureNotice{
			OrderID:     g.OrderID,
			UserID:      g.UserID,
			Email:       g.Email,
			FullName:    g.FullName,
			StageName:   g.StageName,
			ReservedFor: date.Format("2006-01-02"),
			Reason:      reason,
			AdultCount:  g.AdultCount,
			ChildCount:  g.ChildCount,
		}
		if err := r.notifier.StageClosed(note); err != nil {
			log.Printf("reconciler: closure mail to %s for order %d: %v", g.Email, g.OrderID, err)
		}
	}

	now := r.clock.Now()
	return r.store.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := r.store.CancelPassesByStageAndDate(txCtx, stage.ID, date, now); err != nil {
			return fmt.Errorf("cancel passes: %w", err)
		}
		if _, err := r.store.CancelOrdersByStageAndDate(txCtx, stage.ID, date); err != nil {
			return fmt.Errorf("cancel orders: %w", err)
		}
		return nil
	})
}
