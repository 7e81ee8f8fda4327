// Package service implements the pass/order allocation engine: the
// eligibility rules, unique pass-number generation, transactional
// order allocation, the pass lifecycle (transfer, amend, cancel) and
// the inventory reconciler.  It exposes plain-data operations and
// typed errors; transport concerns live in the handler package.
package service

import "errors"

// Policy rejections.  These are surfaced to the caller with a
// human-readable reason and are never retried.
var (
	// ErrQuotaExceeded is returned when an order requests zero passes
	// or more than the per-order maximum.
	ErrQuotaExceeded = errors.New("an order must contain between 1 and 5 passes")

	// ErrAlreadyBooked is returned when the user already booked the
	// stage/date, or is still mid-trail on that stage.  The pass date
	// has to lapse before the user may book again.
	ErrAlreadyBooked = errors.New("you cannot book again until the date passes")

	// ErrInsufficientInventory is returned when remaining capacity is
	// lower than the requested pass count.
	ErrInsufficientInventory = errors.New("not enough inventory for the requested date")

	// ErrDailyLimitExceeded is returned when the request would push
	// the user's same-day pass total past the daily allowed amount.
	ErrDailyLimitExceeded = errors.New("daily allowed amount of passes exceeded")

	// ErrPassIDExhausted is returned when the unique-number generator
	// hits its attempt cap without producing a collision-free batch.
	ErrPassIDExhausted = errors.New("could not allocate unique pass identifiers")

	// ErrNotOwner is returned when a lifecycle operation is attempted
	// by someone other than the pass holder.
	ErrNotOwner = errors.New("pass is not owned by this user")

	// ErrPassActivated rejects transferring a pass already in use.
	ErrPassActivated = errors.New("pass has already been activated")

	// ErrPassTransferred rejects operating on a pass that was already
	// handed over once.
	ErrPassTransferred = errors.New("pass has already been transferred")

	// ErrPassCancelled rejects operating on a soft-deleted pass.
	ErrPassCancelled = errors.New("pass has been cancelled")

	// ErrPassExpired rejects operating on a pass past its expiry.
	ErrPassExpired = errors.New("pass has expired")

	// ErrSameUser rejects transferring a pass to its current holder.
	ErrSameUser = errors.New("cannot transfer a pass to its current holder")

	// ErrRecipientHasActivePass rejects a transfer when the recipient
	// already holds an activated pass for the same stage and date.
	ErrRecipientHasActivePass = errors.New("recipient already holds an activated pass for this stage and date")

	// ErrSameDate rejects an amendment that does not change the date.
	ErrSameDate = errors.New("new date must differ from the current reservation date")

	// ErrPassNotAmendable is returned when an order holds no pass
	// that is still eligible for amendment.
	ErrPassNotAmendable = errors.New("order holds no amendable passes")

	// ErrInsideLockWindow rejects cancel/amend attempts made too close
	// to the stage's opening time on the reserved date.
	ErrInsideLockWindow = errors.New("too close to the stage opening time to change this booking")
)

// ErrOrderCancelled is returned for lifecycle operations against an
// order that is no longer active.
var ErrOrderCancelled = errors.New("order has been cancelled")
