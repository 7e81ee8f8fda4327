// Package repository contains data access logic for the booking core.
// This file provides read access to stages.  Stages are owned by the
// external trail catalogue; this application never writes them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// StageRepo manages read access to the stages table.
type StageRepo struct {
	db *sql.DB
}

// NewStageRepo returns a new StageRepo bound to the given database.
func NewStageRepo(db *sql.DB) *StageRepo { return &StageRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *StageRepo) DB() *sql.DB { return r.db }

// GetByID retrieves a stage by its ID.  It returns ErrStageNotFound
// when no such stage exists.  The query participates in a caller's
// transaction when one is present on the context.
func (r *StageRepo) GetByID(ctx context.Context, stageID uint64) (*model.Stage, error) {
	const q = `SELECT id, name, sequence_no, opens_at, closes_at, created_at, updated_at
	           FROM stages WHERE id = ?`
	var s model.Stage
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, stageID).Scan(
		&s.ID, &s.Name, &s.SequenceNo, &s.OpensAt, &s.ClosesAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return &s, nil
}
