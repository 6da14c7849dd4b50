package service

import "errors"

var (
	ErrSameToken     = errors.New("src and dst are equal")
	ErrPairMismatch  = errors.New("pair does not match src/dst")
	ErrEmptyReserves = errors.New("empty reserves")
	// ErrPairNotDeployed is returned when a path hop has no pair contract.
	ErrPairNotDeployed = errors.New("pair not deployed")
	ErrUnsupportedSwap = errors.New("unsupported swap kind")
)
