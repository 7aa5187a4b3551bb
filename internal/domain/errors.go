package domain

import "errors"

// Sentinel errors returned by repositories. Use errors.Is to check.
var (
	ErrCardNotFound   = errors.New("card not found")
	ErrDeckNotFound   = errors.New("deck not found")
	ErrSourceNotFound = errors.New("source not found")
)
