package model

import "time"

// Order status values.
const (
	OrderStatusActive    = "ACTIVE"
	OrderStatusCancelled = "CANCELLED"
)

// Order records one purchase transaction.  An order groups the passes
// created together for a single stage and date.  The status only
// changes on cancellation (explicit or through a stage-closure
// cascade); capacity adjustments never touch it.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who placed the order.
//  StageID       – stage being booked.
//  ReservedFor   – calendar date the passes are valid for.
//  IsRescheduled – true once the order has been amended.
//  Status        – ACTIVE or CANCELLED.
//  CreatedAt     – creation timestamp.
type Order struct {
	ID            uint64    // orders.id
	UserID        uint64    // orders.user_id
	StageID       uint64    // orders.stage_id
	ReservedFor   time.Time // orders.reserved_for
	IsRescheduled bool      // orders.is_rescheduled
	Status        string    // orders.status
	CreatedAt     time.Time // orders.created_at
	UpdatedAt     time.Time // orders.updated_at
}
