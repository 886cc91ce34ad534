package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrClaimHeld means another booking attempt holds the slot's
	// advisory claim right now.
	ErrClaimHeld = errors.New("slot claim already held")
)
