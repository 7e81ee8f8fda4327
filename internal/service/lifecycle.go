package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// LifecycleStore is the data access the pass lifecycle needs.
type LifecycleStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	PassByID(ctx context.Context, passID uint64) (*model.Pass, error)
	OrderByID(ctx context.Context, orderID uint64) (*model.Order, error)
	PassesByOrder(ctx context.Context, orderID uint64) ([]model.Pass, error)
	StageByID(ctx context.Context, stageID uint64) (*model.Stage, error)
	CapacityForUpdate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error)
	ReservedCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error)
	HasActivatedPass(ctx context.Context, userID, stageID uint64, date time.Time, excludeOrderID uint64) (bool, error)
	TransferPass(ctx context.Context, passID, toUserID uint64) error
	AmendPass(ctx context.Context, passID, stageID uint64, date, expiredAt time.Time) error
	CancelPassesByOrder(ctx context.Context, orderID uint64, at time.Time) (int64, error)
	UpdateOrderStatus(ctx context.Context, orderID uint64, status string) error
	MarkOrderRescheduled(ctx context.Context, orderID, stageID uint64, date time.Time) error
	ActiveOrderIDsByUser(ctx context.Context, userID uint64) ([]uint64, error)
	ReassignTracking(ctx context.Context, passID, toUserID uint64) (int64, error)
	ReassignTrackingHistory(ctx context.Context, passID, toUserID uint64) (int64, error)
	UserByID(ctx context.Context, userID uint64) (*model.User, error)
}

// PassLifecycle drives existing passes through transfer, amendment
// and cancellation.  Each operation is independently transactional;
// the lock window keeps late changes away from the stage opening.
type PassLifecycle struct {
	store     LifecycleStore
	notifier  Notifier
	clock     Clock
	lockHours int
}

// NewPassLifecycle constructs a PassLifecycle.  lockHours is how many
// hours before the stage's opening time cancellation and amendment
// close.
func NewPassLifecycle(store LifecycleStore, notifier Notifier, clock Clock, lockHours int) *PassLifecycle {
	return &PassLifecycle{store: store, notifier: notifier, clock: clock, lockHours: lockHours}
}

// Transfer hands a pass over to another user.  The destination pass
// activates immediately and is flagged as transferred; the current
// trail-tracking record follows it with its metrics reset.  History
// rows are reassigned after commit -- audit data may lag briefly.
func (l *PassLifecycle) Transfer(ctx context.Context, passID, fromUserID, toUserID uint64) error {
	now := l.clock.Now()
	err := l.store.WithTx(ctx, func(txCtx context.Context) error {
		pass, err := l.store.PassByID(txCtx, passID)
		if err != nil {
			return err
		}
		switch {
		case pass.UserID != fromUserID:
			return ErrNotOwner
		case toUserID == pass.UserID:
			return ErrSameUser
		case pass.Activated:
			return ErrPassActivated
		case pass.IsTransferred:
			return ErrPassTransferred
		case pass.IsCancelled:
			return ErrPassCancelled
		case !pass.ExpiredAt.After(now):
			return ErrPassExpired
		}

		// The recipient must not end up with two activated passes for
		// the same stage and date.
		active, err := l.store.HasActivatedPass(txCtx, toUserID, pass.StageID, pass.ReservedFor, 0)
		if err != nil {
			return fmt.Errorf("transfer: check recipient passes: %w", err)
		}
		if active {
			return ErrRecipientHasActivePass
		}

		if err := l.store.TransferPass(txCtx, passID, toUserID); err != nil {
			return fmt.Errorf("transfer: reassign pass: %w", err)
		}
		if _, err := l.store.ReassignTracking(txCtx, passID, toUserID); err != nil {
			return fmt.Errorf("transfer: reassign tracking: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Histories can be large and would push the transaction past the
	// store's duration limits, so they move after commit.  Only audit
	// data is affected while this catches up.
	if _, err := l.store.ReassignTrackingHistory(ctx, passID, toUserID); err != nil {
		log.Printf("lifecycle: reassign tracking history for pass %d: %v", passID, err)
	}
	return nil
}

// AmendOrder reschedules every transferable pass of an order to a new
// stage and/or date.  The whole amendment runs in one transaction:
// either every pass moves or none does.
func (l *PassLifecycle) AmendOrder(ctx context.Context, orderID, userID, newStageID uint64, newDate time.Time) error {
	now := l.clock.Now()
	return l.store.WithTx(ctx, func(txCtx context.Context) error {
		order, err := l.store.OrderByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrNotOwner
		}
		if order.Status == model.OrderStatusCancelled {
			return ErrOrderCancelled
		}

		newStage, err := l.store.StageByID(txCtx, newStageID)
		if err != nil {
			return err
		}
		passes, err := l.store.PassesByOrder(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("amend: list passes: %w", err)
		}

		moving := make([]model.Pass, 0, len(passes))
		for _, p := range passes {
			if p.IsTransferred || p.IsCancelled {
				continue
			}
			currentStage, err := l.store.StageByID(txCtx, p.StageID)
			if err != nil {
				return err
			}
			switch {
			case sameDay(p.ReservedFor, newDate):
				return ErrSameDate
			case insideLockWindow(now, p.ReservedFor, currentStage.OpensAt, l.lockHours):
				return ErrInsideLockWindow
			case !p.ExpiredAt.After(now):
				return ErrPassExpired
			}
			moving = append(moving, p)
		}
		if len(moving) == 0 {
			return ErrPassNotAmendable
		}

		// The destination must absorb the whole batch; lock its
		// capacity row the same way allocation does.
		rec, err := l.store.CapacityForUpdate(txCtx, newStageID, newDate)
		if err != nil {
			return err
		}
		reserved, err := l.store.ReservedCount(txCtx, newStageID, newDate)
		if err != nil {
			return fmt.Errorf("amend: count reserved passes: %w", err)
		}
		if reserved+uint32(len(moving)) > rec.InventoryQty {
			return ErrInsufficientInventory
		}

		expiry := endOfDay(newDate)
		for _, p := range moving {
			if err := l.store.AmendPass(txCtx, p.ID, newStageID, newDate, expiry); err != nil {
				return fmt.Errorf("amend: move pass %d: %w", p.ID, err)
			}
		}
		if err := l.store.MarkOrderRescheduled(txCtx, orderID, newStage.ID, newDate); err != nil {
			return fmt.Errorf("amend: mark order rescheduled: %w", err)
		}
		return nil
	})
}

// Cancel soft-deletes a booking.  Cancelling any pass cancels every
// pass sharing its order, and the order itself.  The lock-window rule
// applies; a cancellation notification is published after commit.
func (l *PassLifecycle) Cancel(ctx context.Context, passID, userID uint64) error {
	now := l.clock.Now()
	var notice CancellationNotice
	err := l.store.WithTx(ctx, func(txCtx context.Context) error {
		pass, err := l.store.PassByID(txCtx, passID)
		if err != nil {
			return err
		}
		if pass.UserID != userID {
			return ErrNotOwner
		}
		if pass.IsCancelled {
			return ErrPassCancelled
		}
		stage, err := l.store.StageByID(txCtx, pass.StageID)
		if err != nil {
			return err
		}
		if insideLockWindow(now, pass.ReservedFor, stage.OpensAt, l.lockHours) {
			return ErrInsideLockWindow
		}

		cancelled, err := l.store.CancelPassesByOrder(txCtx, pass.OrderID, now)
		if err != nil {
			return fmt.Errorf("cancel: cancel passes: %w", err)
		}
		if err := l.store.UpdateOrderStatus(txCtx, pass.OrderID, model.OrderStatusCancelled); err != nil {
			return fmt.Errorf("cancel: update order: %w", err)
		}

		notice = CancellationNotice{
			OrderID:     pass.OrderID,
			UserID:      userID,
			StageName:   stage.Name,
			ReservedFor: pass.ReservedFor.Format("2006-01-02"),
			PassCount:   uint32(cancelled),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if user, err := l.store.UserByID(ctx, userID); err == nil {
		notice.Email = user.Email
		notice.FullName = user.FullName
		if err := l.notifier.PassesCancelled(notice); err != nil {
			log.Printf("lifecycle: publish cancellation for order %d: %v", notice.OrderID, err)
		}
	} else {
		log.Printf("lifecycle: load user %d for cancellation mail: %v", userID, err)
	}
	return nil
}

// BulkCancelByUser cancels every active order and pass a user owns in
// one transaction.  The lock-window rule does not apply: this is the
// administrative path used when the account itself is being removed.
func (l *PassLifecycle) BulkCancelByUser(ctx context.Context, userID uint64) error {
	now := l.clock.Now()
	return l.store.WithTx(ctx, func(txCtx context.Context) error {
		orderIDs, err := l.store.ActiveOrderIDsByUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("bulk cancel: list orders: %w", err)
		}
		for _, id := range orderIDs {
			if _, err := l.store.CancelPassesByOrder(txCtx, id, now); err != nil {
				return fmt.Errorf("bulk cancel: cancel passes of order %d: %w", id, err)
			}
			if err := l.store.UpdateOrderStatus(txCtx, id, model.OrderStatusCancelled); err != nil {
				return fmt.Errorf("bulk cancel: update order %d: %w", id, err)
			}
		}
		return nil
	})
}

// sameDay reports whether two timestamps fall on the same UTC date.
func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}
