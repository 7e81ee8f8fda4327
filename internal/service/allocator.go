package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// MaxPassesPerOrder is the per-order quota; MaxPassesPerDay caps a
// user's same-day total for one stage across all of their orders.
const (
	MaxPassesPerOrder = 5
	MaxPassesPerDay   = 5
)

// AllocatorStore is the data access the order allocator needs.
type AllocatorStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	StageByID(ctx context.Context, stageID uint64) (*model.Stage, error)
	CapacityByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error)
	CapacityForUpdate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error)
	ReservedCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error)
	UserPassCount(ctx context.Context, userID, stageID uint64, date time.Time) (uint32, error)
	HasActivatedPass(ctx context.Context, userID, stageID uint64, date time.Time, excludeOrderID uint64) (bool, error)
	CreateOrder(ctx context.Context, o *model.Order) error
	CreatePasses(ctx context.Context, passes []model.Pass) error
	UserByID(ctx context.Context, userID uint64) (*model.User, error)
}

// Eligibility is the booking pre-check the allocator consults.
type Eligibility interface {
	CheckEligibility(ctx context.Context, userID, stageID uint64, date time.Time) error
}

// PassIDSource produces the unique public pass numbers for a batch.
type PassIDSource interface {
	GenerateUniqueIDs(ctx context.Context, count int, userID uint64, date time.Time) ([]uint32, error)
}

// OrderAllocator creates orders and their passes.  Validation happens
// up front; the capacity check is then repeated under a row lock
// inside the allocation transaction so that concurrent bookings for
// the same stage/date can never oversell the inventory.
type OrderAllocator struct {
	store       AllocatorStore
	eligibility Eligibility
	passIDs     PassIDSource
	notifier    Notifier
	clock       Clock
}

// NewOrderAllocator constructs an OrderAllocator.
func NewOrderAllocator(store AllocatorStore, eligibility Eligibility, passIDs PassIDSource, notifier Notifier, clock Clock) *OrderAllocator {
	return &OrderAllocator{
		store:       store,
		eligibility: eligibility,
		passIDs:     passIDs,
		notifier:    notifier,
		clock:       clock,
	}
}

// CreateOrderInput is the plain-data request for a new booking.
type CreateOrderInput struct {
	UserID     uint64
	StageID    uint64
	Date       time.Time
	AdultCount uint32
	ChildCount uint32
}

// CreateOrderResult reports the created order and its breakdown.
type CreateOrderResult struct {
	Order       model.Order
	AdultCount  uint32
	ChildCount  uint32
	PassNumbers []string
}

// CreateOrder validates and allocates a booking.  Failure modes, in
// order: ErrQuotaExceeded, ErrAlreadyBooked, repository.ErrStageNotFound /
// ErrCapacityNotFound, ErrInsufficientInventory, ErrDailyLimitExceeded,
// ErrPassIDExhausted.  The order row and its passes commit atomically;
// after commit the confirmation notification is published best-effort.
func (a *OrderAllocator) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	// Sum in 64 bits: the counts come straight off the wire, and a
	// uint32 sum could wrap back into the accepted range.
	total64 := uint64(in.AdultCount) + uint64(in.ChildCount)
	if total64 < 1 || total64 > MaxPassesPerOrder {
		return nil, ErrQuotaExceeded
	}
	total := uint32(total64)

	if err := a.eligibility.CheckEligibility(ctx, in.UserID, in.StageID, in.Date); err != nil {
		return nil, err
	}

	stage, err := a.store.StageByID(ctx, in.StageID)
	if err != nil {
		return nil, err
	}

	// Cheap pre-checks outside the transaction.  Both are repeated
	// under lock below; rejecting early just avoids opening a
	// transaction for a request that cannot succeed.
	if err := a.checkCapacity(ctx, in, total, false); err != nil {
		return nil, err
	}
	existing, err := a.store.UserPassCount(ctx, in.UserID, in.StageID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("allocate: count user passes: %w", err)
	}
	if existing+total > MaxPassesPerDay {
		return nil, ErrDailyLimitExceeded
	}

	var result CreateOrderResult
	err = a.store.WithTx(ctx, func(txCtx context.Context) error {
		// Lock the capacity row; the remaining-inventory check and the
		// pass insert must be atomic or overbooking is possible.
		if err := a.checkCapacity(txCtx, in, total, true); err != nil {
			return err
		}

		order := model.Order{
			UserID:      in.UserID,
			StageID:     in.StageID,
			ReservedFor: in.Date.UTC(),
		}
		if err := a.store.CreateOrder(txCtx, &order); err != nil {
			return fmt.Errorf("allocate: create order: %w", err)
		}

		// Exactly one pass per order auto-activates, unless the user
		// already walks on an activated pass for this stage/date from
		// another order.
		hasActive, err := a.store.HasActivatedPass(txCtx, in.UserID, in.StageID, in.Date, order.ID)
		if err != nil {
			return fmt.Errorf("allocate: check activated passes: %w", err)
		}

		ids, err := a.passIDs.GenerateUniqueIDs(txCtx, int(total), in.UserID, in.Date)
		if err != nil {
			return err
		}

		passes := buildPasses(order, in, ids, !hasActive)
		if err := a.store.CreatePasses(txCtx, passes); err != nil {
			return fmt.Errorf("allocate: create passes: %w", err)
		}

		result = CreateOrderResult{
			Order:      order,
			AdultCount: in.AdultCount,
			ChildCount: in.ChildCount,
		}
		for _, p := range passes {
			result.PassNumbers = append(result.PassNumbers, PublicPassNumber(stage.SequenceNo, in.Date, p.PassID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.notifyConfirmed(ctx, stage, &result)
	return &result, nil
}

// checkCapacity verifies remaining inventory for the request.  With
// lock=true the capacity row is read FOR UPDATE inside the caller's
// transaction.
func (a *OrderAllocator) checkCapacity(ctx context.Context, in CreateOrderInput, total uint32, lock bool) error {
	var (
		rec *model.StageCapacity
		err error
	)
	if lock {
		rec, err = a.store.CapacityForUpdate(ctx, in.StageID, in.Date)
	} else {
		rec, err = a.store.CapacityByStageAndDate(ctx, in.StageID, in.Date)
	}
	if err != nil {
		return err
	}
	reserved, err := a.store.ReservedCount(ctx, in.StageID, in.Date)
	if err != nil {
		return fmt.Errorf("allocate: count reserved passes: %w", err)
	}
	if reserved+total > rec.InventoryQty {
		return ErrInsufficientInventory
	}
	return nil
}

// buildPasses lays out the pass rows for an order.  Adults precede
// children; when autoActivate is set the first pass activates.
func buildPasses(order model.Order, in CreateOrderInput, ids []uint32, autoActivate bool) []model.Pass {
	expiry := endOfDay(in.Date)
	passes := make([]model.Pass, 0, len(ids))
	for i, id := range ids {
		typ := model.PassTypeAdult
		if uint32(i) >= in.AdultCount {
			typ = model.PassTypeChild
		}
		passes = append(passes, model.Pass{
			PassID:      id,
			OrderID:     order.ID,
			UserID:      in.UserID,
			StageID:     in.StageID,
			Type:        typ,
			ReservedFor: in.Date.UTC(),
			ExpiredAt:   expiry,
			Activated:   autoActivate && i == 0,
		})
	}
	return passes
}

// notifyConfirmed publishes the confirmation mail payload after the
// allocation has committed.  Failures are logged and swallowed.
func (a *OrderAllocator) notifyConfirmed(ctx context.Context, stage *model.Stage, res *CreateOrderResult) {
	user, err := a.store.UserByID(ctx, res.Order.UserID)
	if err != nil {
		log.Printf("allocator: load user %d for confirmation mail: %v", res.Order.UserID, err)
		return
	}
	note := OrderConfirmation{
		OrderID:     res.Order.ID,
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		StageName:   stage.Name,
		ReservedFor: res.Order.ReservedFor.Format("2006-01-02"),
		AdultCount:  res.AdultCount,
		ChildCount:  res.ChildCount,
		PassNumbers: res.PassNumbers,
	}
	if err := a.notifier.OrderConfirmed(note); err != nil {
		log.Printf("allocator: publish confirmation for order %d: %v", res.Order.ID, err)
	}
}
