package catalog

import "errors"

// Sentinel kinds for snapshot loading errors.
var (
	ErrLoadSnapshot   = errors.New("snapshot read failed")
	ErrDecodeSnapshot = errors.New("snapshot decode failed")
)
