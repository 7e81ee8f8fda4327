package model

import "time"

// TrailTracking is the current in-progress trail record for a pass.
// There is at most one row per pass.  When a pass is transferred the
// row is reassigned to the new holder and its progress metrics are
// reset so the recipient does not inherit someone else's numbers.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user currently walking the trail.
//  PassID          – pass (passes.id) the record belongs to.
//  StageID         – stage being walked.
//  DistanceMeters  – distance covered so far.
//  AvgPaceSecPerKm – average pace in seconds per kilometre.
//  CompletionPct   – percentage of the stage completed.
//  Finished        – true once the stage was completed.
//  UpdatedAt       – last progress update.
type TrailTracking struct {
	ID              uint64    // trail_trackings.id
	UserID          uint64    // trail_trackings.user_id
	PassID          uint64    // trail_trackings.pass_id
	StageID         uint64    // trail_trackings.stage_id
	DistanceMeters  uint32    // trail_trackings.distance_meters
	AvgPaceSecPerKm uint32    // trail_trackings.avg_pace_sec_per_km
	CompletionPct   float64   // trail_trackings.completion_pct
	Finished        bool      // trail_trackings.finished
	CreatedAt       time.Time // trail_trackings.created_at
	UpdatedAt       time.Time // trail_trackings.updated_at
}

// TrailTrackingHistory is one row of the append-only progress log.
// History rows are reassigned to the new holder after a transfer in a
// follow-up step outside the transfer transaction; they are audit
// data, never authoritative state.
type TrailTrackingHistory struct {
	ID         uint64    // trail_tracking_history.id
	TrackingID uint64    // trail_tracking_history.tracking_id
	UserID     uint64    // trail_tracking_history.user_id
	PassID     uint64    // trail_tracking_history.pass_id
	RecordedAt time.Time // trail_tracking_history.recorded_at
}
