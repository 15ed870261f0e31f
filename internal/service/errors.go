package service

import "errors"

var (
	// ErrInvalidInput marks requests rejected before touching storage, e.g. a
	// plate that is empty after normalization.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists marks an insert whose canonical plate number is already
	// registered. Recoverable: bulk import counts it per row, single add
	// surfaces it to the caller.
	ErrAlreadyExists = errors.New("plate already registered")

	// ErrMissingColumns marks a bulk-import source without the three required
	// logical columns. Raised before any row is processed.
	ErrMissingColumns = errors.New("import file is missing required columns")

	// ErrUndecodable marks a bulk-import source readable under neither UTF-8
	// nor the Big5 fallback.
	ErrUndecodable = errors.New("import file encoding not recognized")
)
