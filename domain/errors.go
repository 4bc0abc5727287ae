package domain

import "errors"

// ErrInvalidInput marks caller mistakes. Everything else degrades inside the
// core instead of failing the request.
var ErrInvalidInput = errors.New("invalid input")
