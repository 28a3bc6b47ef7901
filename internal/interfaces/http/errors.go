package http

import "errors"

var (
	errInvalidLimit  = errors.New("limit must be between 1 and 500")
	errInvalidOffset = errors.New("offset must be zero or greater")
)
