package router

import "errors"

var (
	ErrExpired              = errors.New("expired")
	ErrExcessiveInputAmount = errors.New("excessive input amount")
	// ErrInvalidValue is returned when native value is attached to an entry
	// point that does not accept it.
	ErrInvalidValue = errors.New("native value not accepted")
)
