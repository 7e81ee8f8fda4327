package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// OrderRepo provides CRUD operations for orders.  An order groups one
// or more passes created together for a single stage and date.  All
// timestamp fields are stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying sql.DB for transaction control.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// Create inserts a new order and populates the generated ID and the
// DB-default status and timestamps on the provided record.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	const q = `INSERT INTO orders (user_id, stage_id, reserved_for, is_rescheduled, status)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := resolve(ctx, r.db).ExecContext(ctx, q,
		o.UserID, o.StageID, o.ReservedFor.UTC().Format(dateLayout), o.IsRescheduled, model.OrderStatusActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT status, created_at, updated_at FROM orders WHERE id = ?`
	return resolve(ctx, r.db).QueryRowContext(ctx, sel, o.ID).Scan(&o.Status, &o.CreatedAt, &o.UpdatedAt)
}

// GetByID retrieves an order by its ID.  It returns ErrOrderNotFound
// when no such order exists.
func (r *OrderRepo) GetByID(ctx context.Context, orderID uint64) (*model.Order, error) {
	const q = `SELECT id, user_id, stage_id, reserved_for, is_rescheduled, status, created_at, updated_at
	           FROM orders WHERE id = ?`
	var o model.Order
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, orderID).Scan(
		&o.ID, &o.UserID, &o.StageID, &o.ReservedFor, &o.IsRescheduled, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// HasOrderWithPasses reports whether the user already owns an order
// for the exact stage and date that still holds at least one
// non-cancelled pass.  Used by the eligibility check to reject
// duplicate bookings; cancelled bookings do not count, so cancelling
// frees the stage/date for a new order.
func (r *OrderRepo) HasOrderWithPasses(ctx context.Context, userID, stageID uint64, date time.Time) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM orders o
	             JOIN passes p ON p.order_id = o.id
	             WHERE o.user_id = ? AND o.stage_id = ? AND o.reserved_for = ?
	               AND p.is_cancelled = FALSE)`
	var exists bool
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, userID, stageID, date.UTC().Format(dateLayout)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// MarkRescheduled flags an order as amended and moves it to the new
// stage and date.
func (r *OrderRepo) MarkRescheduled(ctx context.Context, orderID, stageID uint64, date time.Time) error {
	const q = `UPDATE orders SET stage_id = ?, reserved_for = ?, is_rescheduled = TRUE WHERE id = ?`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q, stageID, date.UTC().Format(dateLayout), orderID)
	return err
}

// UpdateStatus sets the status of a single order.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID uint64, status string) error {
	const q = `UPDATE orders SET status = ? WHERE id = ?`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q, status, orderID)
	return err
}

// ListActiveIDsByUser returns the IDs of every ACTIVE order owned by
// the user.  Used by the administrative bulk-cancel path.
func (r *OrderRepo) ListActiveIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	const q = `SELECT id FROM orders WHERE user_id = ? AND status = ?`
	rows, err := resolve(ctx, r.db).QueryContext(ctx, q, userID, model.OrderStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CancelByStageAndDate marks every ACTIVE order for a stage/date as
// CANCELLED and returns the number of orders affected.  Used by the
// stage-closure cascade.
func (r *OrderRepo) CancelByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (int64, error) {
	const q = `UPDATE orders SET status = ? WHERE stage_id = ? AND reserved_for = ? AND status = ?`
	res, err := resolve(ctx, r.db).ExecContext(ctx, q,
		model.OrderStatusCancelled, stageID, date.UTC().Format(dateLayout), model.OrderStatusActive)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
