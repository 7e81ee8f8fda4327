package model

import "time"

// Pass type values.
const (
	PassTypeAdult = "ADULT"
	PassTypeChild = "CHILD"
)

// Pass is one individual's bookable unit for a stage on a date.  A
// pass is never deleted: it either reaches its natural expiry or is
// soft-cancelled.  PassID is the random public six-digit number; it is
// unique per (user, reserved date) and is combined with the stage
// sequence number to form the number printed on the pass.
//
// Fields:
//  ID            – primary key identifier.
//  PassID        – random public six-digit number.
//  OrderID       – order this pass belongs to.
//  UserID        – current holder of the pass.
//  StageID       – stage the pass is valid for.
//  Type          – ADULT or CHILD.
//  ReservedFor   – calendar date the pass is valid for.
//  ExpiredAt     – expiry timestamp, defaults to end of ReservedFor day.
//  Activated     – pass currently valid for trail entry.
//  IsCancelled   – soft-delete marker.
//  CancelledAt   – when the pass was cancelled, if ever.
//  IsTransferred – pass was handed over to another user.
type Pass struct {
	ID            uint64     // passes.id
	PassID        uint32     // passes.pass_id
	OrderID       uint64     // passes.order_id
	UserID        uint64     // passes.user_id
	StageID       uint64     // passes.stage_id
	Type          string     // passes.type
	ReservedFor   time.Time  // passes.reserved_for
	ExpiredAt     time.Time  // passes.expired_at
	Activated     bool       // passes.activated
	IsCancelled   bool       // passes.is_cancelled
	CancelledAt   *time.Time // passes.cancelled_at (nullable)
	IsTransferred bool       // passes.is_transferred
	CreatedAt     time.Time  // passes.created_at
	UpdatedAt     time.Time  // passes.updated_at
}
