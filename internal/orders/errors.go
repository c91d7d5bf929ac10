// Package orders holds the error taxonomy of the order placement flow.
// Both the repository and service layers report failures through these
// sentinels so the HTTP layer can map each condition to a response.
package orders

import "errors"

var (
	// ErrValidation means a required checkout field is missing or empty.
	ErrValidation = errors.New("orders: invalid checkout payload")

	// ErrTransaction means the storage transaction could not be started;
	// nothing was written.
	ErrTransaction = errors.New("orders: could not begin transaction")

	// ErrDatabase means the order header insert failed.
	ErrDatabase = errors.New("orders: order insert failed")

	// ErrOrderItems means one or more line-item inserts failed and the
	// whole transaction was rolled back.
	ErrOrderItems = errors.New("orders: order item insert failed")

	// ErrCommit means the transaction could not be finalized and was
	// rolled back.
	ErrCommit = errors.New("orders: commit failed")

	// ErrDuplicateOrderNumber means the generated order number collided
	// with an existing one. Callers may regenerate and retry.
	ErrDuplicateOrderNumber = errors.New("orders: duplicate order number")

	// ErrInvalidTransition means the requested status change is not
	// allowed by the order lifecycle.
	ErrInvalidTransition = errors.New("orders: invalid status transition")

	// ErrNotFound means no order matches the given id.
	ErrNotFound = errors.New("orders: order not found")
)
