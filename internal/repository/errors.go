// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as services and handlers to distinguish between different
// failure scenarios: a missing row is not the same thing as a policy
// rejection, and handlers translate them into different HTTP codes.
package repository

import "errors"

// ErrStageNotFound indicates that a stage was not located in the DB.
var ErrStageNotFound = errors.New("stage not found")

// ErrCapacityNotFound indicates that no inventory record exists for
// the requested stage and date.
var ErrCapacityNotFound = errors.New("capacity record not found")

// ErrOrderNotFound indicates that an order was not located in the DB.
var ErrOrderNotFound = errors.New("order not found")

// ErrPassNotFound indicates that a pass was not located in the DB.
var ErrPassNotFound = errors.New("pass not found")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")
