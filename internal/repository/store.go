package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hikewise/trail-pass-reservation/internal/model"
)

// Store bundles every repository behind one flat method set.  The
// booking services declare the subset of these methods they need as
// their own interfaces, so unit tests can substitute hand-written
// fakes while production wiring passes a single *Store.
type Store struct {
	db        *sql.DB
	stages    *StageRepo
	capacity  *CapacityRepo
	orders    *OrderRepo
	passes    *PassRepo
	closures  *StageClosureRepo
	trackings *TrailTrackingRepo
	users     *UserRepo
}

// NewStore constructs a Store and its repositories over one DB pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		stages:    NewStageRepo(db),
		capacity:  NewCapacityRepo(db),
		orders:    NewOrderRepo(db),
		passes:    NewPassRepo(db),
		closures:  NewStageClosureRepo(db),
		trackings: NewTrailTrackingRepo(db),
		users:     NewUserRepo(db),
	}
}

// WithTx runs fn inside one database transaction.  Store methods
// invoked with the derived context participate in it.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, s.db, fn)
}

func (s *Store) StageByID(ctx context.Context, stageID uint64) (*model.Stage, error) {
	return s.stages.GetByID(ctx, stageID)
}

func (s *Store) CapacityByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error) {
	return s.capacity.GetByStageAndDate(ctx, stageID, date)
}

func (s *Store) CapacityForUpdate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error) {
	return s.capacity.GetForUpdate(ctx, stageID, date)
}

func (s *Store) CreateCapacity(ctx context.Context, c *model.StageCapacity) error {
	return s.capacity.Create(ctx, c)
}

func (s *Store) UpdateCapacityQuantity(ctx context.Context, id uint64, quantity uint32) error {
	return s.capacity.UpdateQuantity(ctx, id, quantity)
}

func (s *Store) CreateOrder(ctx context.Context, o *model.Order) error {
	return s.orders.Create(ctx, o)
}

func (s *Store) OrderByID(ctx context.Context, orderID uint64) (*model.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *Store) HasOrderWithPasses(ctx context.Context, userID, stageID uint64, date time.Time) (bool, error) {
	return s.orders.HasOrderWithPasses(ctx, userID, stageID, date)
}

func (s *Store) MarkOrderRescheduled(ctx context.Context, orderID, stageID uint64, date time.Time) error {
	return s.orders.MarkRescheduled(ctx, orderID, stageID, date)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uint64, status string) error {
	return s.orders.UpdateStatus(ctx, orderID, status)
}

func (s *Store) ActiveOrderIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.orders.ListActiveIDsByUser(ctx, userID)
}

func (s *Store) CancelOrdersByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (int64, error) {
	return s.orders.CancelByStageAndDate(ctx, stageID, date)
}

func (s *Store) CreatePasses(ctx context.Context, passes []model.Pass) error {
	return s.passes.CreateBulk(ctx, passes)
}

func (s *Store) PassByID(ctx context.Context, passID uint64) (*model.Pass, error) {
	return s.passes.GetByID(ctx, passID)
}

func (s *Store) PassesByOrder(ctx context.Context, orderID uint64) ([]model.Pass, error) {
	return s.passes.ListByOrder(ctx, orderID)
}

func (s *Store) ReservedCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error) {
	return s.passes.CountReservedByStageAndDate(ctx, stageID, date)
}

func (s *Store) CancelledCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error) {
	return s.passes.CountCancelledByStageAndDate(ctx, stageID, date)
}

func (s *Store) UserPassCount(ctx context.Context, userID, stageID uint64, date time.Time) (uint32, error) {
	return s.passes.CountByUserStageAndDate(ctx, userID, stageID, date)
}

func (s *Store) HasActivatedPass(ctx context.Context, userID, stageID uint64, date time.Time, excludeOrderID uint64) (bool, error) {
	return s.passes.HasActivatedPass(ctx, userID, stageID, date, excludeOrderID)
}

func (s *Store) ExistingPassIDs(ctx context.Context, userID uint64, date time.Time, candidates []uint32) ([]uint32, error) {
	return s.passes.ExistingPassIDs(ctx, userID, date, candidates)
}

func (s *Store) TransferPass(ctx context.Context, passID, toUserID uint64) error {
	return s.passes.TransferOwnership(ctx, passID, toUserID)
}

func (s *Store) AmendPass(ctx context.Context, passID, stageID uint64, date, expiredAt time.Time) error {
	return s.passes.AmendStageDate(ctx, passID, stageID, date, expiredAt)
}

func (s *Store) CancelPassesByOrder(ctx context.Context, orderID uint64, at time.Time) (int64, error) {
	return s.passes.CancelByOrder(ctx, orderID, at)
}

func (s *Store) CancelPassesByStageAndDate(ctx context.Context, stageID uint64, date, at time.Time) (int64, error) {
	return s.passes.CancelByStageAndDate(ctx, stageID, date, at)
}

func (s *Store) ClosureGroups(ctx context.Context, stageID uint64, date time.Time) ([]ClosureGroup, error) {
	return s.passes.ListClosureGroups(ctx, stageID, date)
}

func (s *Store) UpsertStageClosure(ctx context.Context, stageID uint64, date time.Time, reason string) error {
	return s.closures.Upsert(ctx, stageID, date, reason)
}

func (s *Store) UnfinishedTracking(ctx context.Context, userID, stageID uint64) (*model.TrailTracking, error) {
	return s.trackings.GetUnfinishedByUserAndStage(ctx, userID, stageID)
}

func (s *Store) ReassignTracking(ctx context.Context, passID, toUserID uint64) (int64, error) {
	return s.trackings.ReassignAndReset(ctx, passID, toUserID)
}

func (s *Store) ReassignTrackingHistory(ctx context.Context, passID, toUserID uint64) (int64, error) {
	return s.trackings.ReassignHistory(ctx, passID, toUserID)
}

func (s *Store) UserByID(ctx context.Context, userID uint64) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}
