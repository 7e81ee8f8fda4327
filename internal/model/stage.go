package model

import "time"

// Stage represents a bookable trail segment.  Stages are owned and
// maintained by an external catalogue service; this application only
// reads them.  The sequence number participates in the public pass
// number shown to hikers, and the opening time anchors the
// cancel/amend lock window.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the segment.
//  SequenceNo – position of the stage along the trail (1-based).
//  OpensAt    – daily opening time in "HH:MM" 24h format.
//  ClosesAt   – daily closing time in "HH:MM" 24h format.
type Stage struct {
	ID         uint64    // stages.id
	Name       string    // stages.name
	SequenceNo uint32    // stages.sequence_no
	OpensAt    string    // stages.opens_at
	ClosesAt   string    // stages.closes_at
	CreatedAt  time.Time // stages.created_at
	UpdatedAt  time.Time // stages.updated_at
}
