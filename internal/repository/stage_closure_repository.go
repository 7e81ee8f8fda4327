package repository

import (
	"context"
	"database/sql"
	"time"
)

// StageClosureRepo manages administrative stage-closure records.
type StageClosureRepo struct {
	db *sql.DB
}

// NewStageClosureRepo returns a new StageClosureRepo bound to the given database.
func NewStageClosureRepo(db *sql.DB) *StageClosureRepo { return &StageClosureRepo{db: db} }

// Upsert creates the closure record for a stage/date or refreshes its
// reason when one already exists.  The (stage_id, date) pair carries a
// unique key so repeated reconciliations stay idempotent.
func (r *StageClosureRepo) Upsert(ctx context.Context, stageID uint64, date time.Time, reason string) error {
	const q = `INSERT INTO stage_closures (stage_id, date, reason) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE reason = VALUES(reason)`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q, stageID, date.UTC().Format(dateLayout), reason)
	return err
}
