package trp

import "errors"

var (
	// ErrBlockNotFound is returned by strict lookups when an id has no block. It
	// means the response is inconsistent and is not meant to be recovered from.
	ErrBlockNotFound = errors.New("block not found")

	// ErrInvalidArgument reports a call that cannot be honoured as made, such as
	// merging a table group with a single id.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoPages is returned when an operation needs a page and the document has none.
	ErrNoPages = errors.New("document has no pages")

	// ErrNotImplemented is returned by operations that are declared but not available.
	ErrNotImplemented = errors.New("not implemented")
)
