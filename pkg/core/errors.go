package core

import (
	"errors"

	"github.com/aretw0/tablet/pkg/codec"
)

// Common errors.
var (
	// ErrNotFound is returned when no record exists for an id. It is a normal outcome.
	ErrNotFound = errors.New("record not found")

	// ErrIO wraps directory and file failures.
	ErrIO = errors.New("storage i/o failure")

	// ErrMalformedRecord is returned when a stored record cannot be decoded.
	ErrMalformedRecord = codec.ErrMalformedRecord

	// ErrInvalidInteger is returned when a numeric field holds something else.
	ErrInvalidInteger = codec.ErrInvalidInteger

	// ErrUnsafeText is returned when content or author holds a character the
	// record format cannot store ('"' or ',').
	ErrUnsafeText = codec.ErrUnsafeText

	// ErrInvalidQuote is returned when content or author is empty.
	ErrInvalidQuote = errors.New("invalid quote")

	// ErrTransient is returned when an operation needs a persisted record (id != 0).
	ErrTransient = errors.New("record has not been persisted")

	// ErrNotTransient is returned when inserting a record that already has an id.
	ErrNotTransient = errors.New("record is already persisted")
)
