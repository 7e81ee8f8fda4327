package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// TrailTrackingRepo provides access to the current trail-progress
// records and their append-only history.  The current record is
// authoritative state and is always updated inside the caller's
// transaction; history rows are audit data and may be reassigned in a
// follow-up step outside the transaction.
type TrailTrackingRepo struct {
	db *sql.DB
}

// NewTrailTrackingRepo returns a new TrailTrackingRepo bound to the given database.
func NewTrailTrackingRepo(db *sql.DB) *TrailTrackingRepo { return &TrailTrackingRepo{db: db} }

// GetUnfinishedByUserAndStage returns the user's unfinished progress
// record for a stage, or nil when none exists.
func (r *TrailTrackingRepo) GetUnfinishedByUserAndStage(ctx context.Context, userID, stageID uint64) (*model.TrailTracking, error) {
	const q = `SELECT id, user_id, pass_id, stage_id, distance_meters, avg_pace_sec_per_km,
	                  completion_pct, finished, created_at, updated_at
	           FROM trail_trackings
	           WHERE user_id = ? AND stage_id = ? AND finished = FALSE`
	var t model.TrailTracking
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, userID, stageID).Scan(
		&t.ID, &t.UserID, &t.PassID, &t.StageID, &t.DistanceMeters, &t.AvgPaceSecPerKm,
		&t.CompletionPct, &t.Finished, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ReassignAndReset hands the current progress record for a pass over
// to a new user and zeroes the progress metrics.  Returns the number
// of rows updated (0 when the pass has no tracking record yet).
func (r *TrailTrackingRepo) ReassignAndReset(ctx context.Context, passID, toUserID uint64) (int64, error) {
	const q = `UPDATE trail_trackings
	           SET user_id = ?, distance_meters = 0, avg_pace_sec_per_km = 0,
	               completion_pct = 0, finished = FALSE
	           WHERE pass_id = ?`
	res, err := resolve(ctx, r.db).ExecContext(ctx, q, toUserID, passID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReassignHistory moves every history row for a pass to the new user.
// Histories can be large, so this runs on the plain DB handle outside
// any transaction; callers invoke it after the transfer has committed
// and treat failures as a logged, retryable inconsistency in audit
// data only.
func (r *TrailTrackingRepo) ReassignHistory(ctx context.Context, passID, toUserID uint64) (int64, error) {
	const q = `UPDATE trail_tracking_history SET user_id = ? WHERE pass_id = ?`
	res, err := r.db.ExecContext(ctx, q, toUserID, passID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TouchUpdatedAt bumps the updated_at column of a tracking record.
// Exposed for integration tooling and tests that need to simulate
// recent trail activity.
func (r *TrailTrackingRepo) TouchUpdatedAt(ctx context.Context, trackingID uint64, at time.Time) error {
	const q = `UPDATE trail_trackings SET updated_at = ? WHERE id = ?`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q, at.UTC().Format("2006-01-02 15:04:05"), trackingID)
	return err
}
