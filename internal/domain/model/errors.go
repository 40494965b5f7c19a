package model

import "errors"

// Domain error taxonomy. Handlers translate these with errors.Is into
// transport-specific replies (400/404); nothing here is ever fatal.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)
