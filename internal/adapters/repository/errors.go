package repository

import "errors"

// Sentinel kinds for index errors.
var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidLimit = errors.New("invalid listing limit")
)
