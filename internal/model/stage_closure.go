package model

import "time"

// StageClosure marks a stage as administratively closed on a date.
// Created or updated by the inventory reconciler when capacity is
// forced to zero with the closure flag set; the reason is included in
// the notification sent to affected hikers.
type StageClosure struct {
	ID        uint64    // stage_closures.id
	StageID   uint64    // stage_closures.stage_id
	Date      time.Time // stage_closures.date
	Reason    string    // stage_closures.reason
	CreatedAt time.Time // stage_closures.created_at
	UpdatedAt time.Time // stage_closures.updated_at
}
