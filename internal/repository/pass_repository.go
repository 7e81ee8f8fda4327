package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// PassRepo provides CRUD operations for passes.  Passes are never
// deleted; cancellation is a soft-delete that keeps the row for audit
// and for the derived cancelled-count figures.  All timestamps are
// stored in UTC.
type PassRepo struct {
	db *sql.DB
}

// NewPassRepo returns a new PassRepo bound to the given database.
func NewPassRepo(db *sql.DB) *PassRepo { return &PassRepo{db: db} }

const passColumns = `id, pass_id, order_id, user_id, stage_id, type, reserved_for, expired_at,
	activated, is_cancelled, cancelled_at, is_transferred, created_at, updated_at`

func scanPass(row interface{ Scan(...interface{}) error }) (*model.Pass, error) {
	var p model.Pass
	var cancelledAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.PassID, &p.OrderID, &p.UserID, &p.StageID, &p.Type, &p.ReservedFor, &p.ExpiredAt,
		&p.Activated, &p.IsCancelled, &cancelledAt, &p.IsTransferred, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		p.CancelledAt = &t
	}
	return &p, nil
}

// CreateBulk inserts multiple passes in a single statement.  The
// caller must populate PassID, OrderID, UserID, StageID, Type,
// ReservedFor, ExpiredAt and Activated on each record.  Passing an
// empty slice has no effect and returns nil.
func (r *PassRepo) CreateBulk(ctx context.Context, passes []model.Pass) error {
	if len(passes) == 0 {
		return nil
	}
	query := `INSERT INTO passes (pass_id, order_id, user_id, stage_id, type, reserved_for, expired_at, activated) VALUES `
	args := make([]interface{}, 0, len(passes)*8)
	for i, p := range passes {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, p.PassID, p.OrderID, p.UserID, p.StageID, p.Type,
			p.ReservedFor.UTC().Format(dateLayout), p.ExpiredAt.UTC().Format("2006-01-02 15:04:05"), p.Activated)
	}
	_, err := resolve(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a pass by its primary key.  It returns
// ErrPassNotFound when no such pass exists.
func (r *PassRepo) GetByID(ctx context.Context, passID uint64) (*model.Pass, error) {
	q := `SELECT ` + passColumns + ` FROM passes WHERE id = ?`
	p, err := scanPass(resolve(ctx, r.db).QueryRowContext(ctx, q, passID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByOrder returns all passes belonging to an order, oldest first.
func (r *PassRepo) ListByOrder(ctx context.Context, orderID uint64) ([]model.Pass, error) {
	q := `SELECT ` + passColumns + ` FROM passes WHERE order_id = ? ORDER BY id`
	rows, err := resolve(ctx, r.db).QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var passes []model.Pass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, *p)
	}
	return passes, rows.Err()
}

// CountReservedByStageAndDate returns the number of non-cancelled
// passes for a stage/date.  This is the derived reserved quantity
// that the inventory checks compare against.
func (r *PassRepo) CountReservedByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (uint32, error) {
	const q = `SELECT COUNT(*) FROM passes
	           WHERE stage_id = ? AND reserved_for = ? AND is_cancelled = FALSE`
	var n uint32
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, stageID, date.UTC().Format(dateLayout)).Scan(&n)
	return n, err
}

// CountCancelledByStageAndDate returns the derived cancelled quantity
// for a stage/date.
func (r *PassRepo) CountCancelledByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (uint32, error) {
	const q = `SELECT COUNT(*) FROM passes
	           WHERE stage_id = ? AND reserved_for = ? AND is_cancelled = TRUE`
	var n uint32
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, stageID, date.UTC().Format(dateLayout)).Scan(&n)
	return n, err
}

// CountByUserStageAndDate returns how many non-cancelled passes the
// user already holds for a stage/date across all of their orders.
// Used to enforce the per-user daily limit.
func (r *PassRepo) CountByUserStageAndDate(ctx context.Context, userID, stageID uint64, date time.Time) (uint32, error) {
	const q = `SELECT COUNT(*) FROM passes
	           WHERE user_id = ? AND stage_id = ? AND reserved_for = ? AND is_cancelled = FALSE`
	var n uint32
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, userID, stageID, date.UTC().Format(dateLayout)).Scan(&n)
	return n, err
}

// HasActivatedPass reports whether the user holds an activated,
// non-cancelled pass for the stage/date.  Pass excludeOrderID = 0 to
// consider every order.
func (r *PassRepo) HasActivatedPass(ctx context.Context, userID, stageID uint64, date time.Time, excludeOrderID uint64) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM passes
	      WHERE user_id = ? AND stage_id = ? AND reserved_for = ?
	        AND activated = TRUE AND is_cancelled = FALSE`
	args := []interface{}{userID, stageID, date.UTC().Format(dateLayout)}
	if excludeOrderID != 0 {
		q += ` AND order_id <> ?`
		args = append(args, excludeOrderID)
	}
	q += `)`
	var exists bool
	err := resolve(ctx, r.db).QueryRowContext(ctx, q, args...).Scan(&exists)
	return exists, err
}

// ExistingPassIDs returns the subset of candidate public pass numbers
// already assigned to the user on the given date.  An empty result
// means the whole candidate batch is collision free.
func (r *PassRepo) ExistingPassIDs(ctx context.Context, userID uint64, date time.Time, candidates []uint32) ([]uint32, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(candidates)), ",")
	q := `SELECT pass_id FROM passes
	      WHERE user_id = ? AND reserved_for = ? AND pass_id IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(candidates)+2)
	args = append(args, userID, date.UTC().Format(dateLayout))
	for _, c := range candidates {
		args = append(args, c)
	}
	rows, err := resolve(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var taken []uint32
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	return taken, rows.Err()
}

// TransferOwnership reassigns a pass to a new holder.  The pass is
// activated immediately and flagged as transferred.
func (r *PassRepo) TransferOwnership(ctx context.Context, passID, toUserID uint64) error {
	const q = `UPDATE passes SET user_id = ?, activated = TRUE, is_transferred = TRUE WHERE id = ?`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q, toUserID, passID)
	return err
}

// AmendStageDate moves a pass to a new stage and date and resets its
// expiry to the supplied timestamp.
func (r *PassRepo) AmendStageDate(ctx context.Context, passID, stageID uint64, date, expiredAt time.Time) error {
	const q = `UPDATE passes SET stage_id = ?, reserved_for = ?, expired_at = ? WHERE id = ?`
	_, err := resolve(ctx, r.db).ExecContext(ctx, q,
		stageID, date.UTC().Format(dateLayout), expiredAt.UTC().Format("2006-01-02 15:04:05"), passID)
	return err
}

// CancelByOrder soft-cancels every non-cancelled pass of an order and
// returns the number of passes affected.
func (r *PassRepo) CancelByOrder(ctx context.Context, orderID uint64, at time.Time) (int64, error) {
	const q = `UPDATE passes SET is_cancelled = TRUE, cancelled_at = ?, activated = FALSE
	           WHERE order_id = ? AND is_cancelled = FALSE`
	res, err := resolve(ctx, r.db).ExecContext(ctx, q, at.UTC().Format("2006-01-02 15:04:05"), orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelByStageAndDate soft-cancels every non-cancelled pass for a
// stage/date.  Used by the stage-closure cascade.
func (r *PassRepo) CancelByStageAndDate(ctx context.Context, stageID uint64, date, at time.Time) (int64, error) {
	const q = `UPDATE passes SET is_cancelled = TRUE, cancelled_at = ?, activated = FALSE
	           WHERE stage_id = ? AND reserved_for = ? AND is_cancelled = FALSE`
	res, err := resolve(ctx, r.db).ExecContext(ctx, q,
		at.UTC().Format("2006-01-02 15:04:05"), stageID, date.UTC().Format(dateLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClosureGroup aggregates the passes one user holds under one order
// for a stage/date, joined with the display data a closure
// notification needs.  One notification is sent per group.
type ClosureGroup struct {
	UserID     uint64
	OrderID    uint64
	Email      string
	FullName   string
	StageName  string
	AdultCount uint32
	ChildCount uint32
}

// ListClosureGroups returns the affected (user, order) groups for a
// stage/date: every non-cancelled pass grouped per user and order,
// with adult/child counts and the user and stage display data.
func (r *PassRepo) ListClosureGroups(ctx context.Context, stageID uint64, date time.Time) ([]ClosureGroup, error) {
	const q = `SELECT p.user_id, p.order_id, u.email, u.full_name, s.name,
	                  SUM(p.type = 'ADULT'), SUM(p.type = 'CHILD')
	           FROM passes p
	           JOIN users u ON u.id = p.user_id
	           JOIN stages s ON s.id = p.stage_id
	           WHERE p.stage_id = ? AND p.reserved_for = ? AND p.is_cancelled = FALSE
	           GROUP BY p.user_id, p.order_id, u.email, u.full_name, s.name`
	rows, err := resolve(ctx, r.db).QueryContext(ctx, q, stageID, date.UTC().Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []ClosureGroup
	for rows.Next() {
		var g ClosureGroup
		if err := rows.Scan(&g.UserID, &g.OrderID, &g.Email, &g.FullName, &g.StageName,
			&g.AdultCount, &g.ChildCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
