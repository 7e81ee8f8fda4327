package service

// Notifier hands notification payloads to the external mail
// dispatcher.  All calls are fire-and-forget from the core's point of
// view: delivery and retries belong to the dispatcher, and a failed
// publish never rolls back committed state.  Implementations must be
// safe for concurrent use.
type Notifier interface {
	OrderConfirmed(n OrderConfirmation) error
	PassesCancelled(n CancellationNotice) error
	StageClosed(n ClosureNotice) error
}

// OrderConfirmation is the payload for a booking confirmation mail.
type OrderConfirmation struct {
	OrderID     uint64
	UserID      uint64
	Email       string
	FullName    string
	StageName   string
	ReservedFor string
	AdultCount  uint32
	ChildCount  uint32
	PassNumbers []string
}

// CancellationNotice is the payload for a booking cancellation mail.
type CancellationNotice struct {
	OrderID     uint64
	UserID      uint64
	Email       string
	FullName    string
	StageName   string
	ReservedFor string
	PassCount   uint32
}

// ClosureNotice is the payload for a stage-closure mail, one per
// affected (user, order) pair.
type ClosureNotice struct {
	OrderID     uint64
	UserID      uint64
	Email       string
	FullName    string
	StageName   string
	ReservedFor string
	Reason      string
	AdultCount  uint32
	ChildCount  uint32
}

// NopNotifier discards every notification.  Useful in tests and when
// running without a broker.
type NopNotifier struct{}

func (NopNotifier) OrderConfirmed(OrderConfirmation) error   { return nil }
func (NopNotifier) PassesCancelled(CancellationNotice) error { return nil }
func (NopNotifier) StageClosed(ClosureNotice) error          { return nil }
