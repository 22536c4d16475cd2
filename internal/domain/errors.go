package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrTerminalStatus rejects transitions out of delivered/cancelled.
	ErrTerminalStatus = errors.New("order is in a terminal status")

	ErrInvalidStatus = errors.New("unknown order status")
)
