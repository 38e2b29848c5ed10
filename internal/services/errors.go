package services

import (
	"errors"
)

var (
	// ErrNotFound covers missing and soft-deleted targets alike; callers
	// cannot tell tombstones from rows that never existed.
	ErrNotFound = errors.New("not found")

	// ErrInvalidValue marks input outside the allowed set, e.g. a vote
	// value other than +1/-1, or -1 on a comment.
	ErrInvalidValue = errors.New("invalid value")

	// ErrConflict marks a uniqueness violation the caller can act on,
	// like creating a submolt whose name is taken. Vote insert races are
	// never surfaced as ErrConflict; the ledger retries them internally.
	ErrConflict = errors.New("conflict")

	ErrSelfFollow = errors.New("cannot follow yourself")
)
