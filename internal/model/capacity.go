package model

import "time"

// StageCapacity holds the sellable inventory for one stage on one
// calendar date.  Reserved and cancelled counts are not stored on the
// row; they are derived from the passes table at read time so the
// figures can never drift from the authoritative pass records.
//
// Fields:
//  ID           – primary key identifier.
//  StageID      – stage the inventory belongs to.
//  Date         – calendar date (midnight UTC).
//  InventoryQty – total number of sellable passes for that date.
type StageCapacity struct {
	ID           uint64    // stage_capacities.id
	StageID      uint64    // stage_capacities.stage_id
	Date         time.Time // stage_capacities.date
	InventoryQty uint32    // stage_capacities.inventory_qty
	CreatedAt    time.Time // stage_capacities.created_at
	UpdatedAt    time.Time // stage_capacities.updated_at
}

// CapacityView is a StageCapacity enriched with the derived reserved
// and cancelled counts.  It is what administrators see after a batch
// inventory update.
type CapacityView struct {
	StageID      uint64    `json:"stage_id"`
	Date         string    `json:"date"`
	InventoryQty uint32    `json:"inventory_qty"`
	ReservedQty  uint32    `json:"reserved_qty"`
	CancelledQty uint32    `json:"cancelled_qty"`
}
