package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// dateLayout is the DB format for DATE columns used in query args.
const dateLayout = "2006-01-02"

// CapacityRepo manages persistence for per stage/date inventory
// records.  Reserved and cancelled figures are always derived from
// the passes table; only the total inventory is stored.
type CapacityRepo struct {
	db *sql.DB
}

// NewCapacityRepo returns a new CapacityRepo bound to the given database.
func NewCapacityRepo(db *sql.DB) *CapacityRepo { return &CapacityRepo{db: db} }

// GetByStageAndDate returns the inventory record for a stage on a
// date, or ErrCapacityNotFound when none exists.
func (r *CapacityRepo) GetByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error) {
	const q = `SELECT id, stage_id, date, inventory_qty, created_at, updated_at
	           FROM stage_capacities WHERE stage_id = ? AND date = ?`
	return r.scanOne(resolve(ctx, r.db).QueryRowContext(ctx, q, stageID, date.UTC().Format(dateLayout)))
}

// GetForUpdate behaves like GetByStageAndDate but locks the row with
// SELECT ... FOR UPDATE.  It must be called inside a transaction; the
// lock is what makes the "remaining >= requested" check atomic with
// the subsequent pass insert and rules out overbooking under
// concurrent allocations.
func (r *CapacityRepo) GetForUpdate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error) {
	const q = `SELECT id, stage_id, date, inventory_qty, created_at, updated_at
	           FROM stage_capacities WHERE stage_id = ? AND date = ? FOR UPDATE`
	return r.scanOne(resolve(ctx, r.db).QueryRowContext(ctx, q, stageID, date.UTC().Format(dateLayout)))
}

func (r *CapacityRepo) scanOne(row *sql.Row) (*model.StageCapacity, error) {
	var c model.StageCapacity
	err := row.Scan(&c.ID, &c.StageID, &c.Date, &c.InventoryQty, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCapacityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new inventory record and populates the generated ID.
func (r *CapacityRepo) Create(ctx context.Context, c *model.StageCapacity) error {
	const q = `INSERT INTO stage_capacities (stage_id, date, inventory_qty) VALUES (?, ?, ?)`
	res, err := resolve(ctx, r.db).ExecContext(ctx, q, c.StageID, c.Date.UTC().Format(dateLayout), c.InventoryQty)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// UpdateQuantity sets the total inventory for an existing record.
func (r *CapacityRepo) UpdateQuantity(ctx context.Context, id uint64, quantity uint32) error {
	const q = `UPDATE stage_capacities SET inventory_qty = ? WHERE id = ?`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q, quantity, id)
	return err
}
