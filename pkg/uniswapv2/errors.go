package uniswapv2

import "errors"

var (
	// ErrIdenticalAddresses is returned when a pair is formed from one token twice.
	ErrIdenticalAddresses = errors.New("identical addresses")
	// ErrZeroAddress is returned when a pair member is the zero address.
	ErrZeroAddress = errors.New("zero address")
	// ErrInvalidPath is returned for paths with fewer than two tokens.
	ErrInvalidPath = errors.New("invalid path")
	// ErrPathTooLong is returned when a path exceeds the configured hop limit.
	ErrPathTooLong = errors.New("path too long")

	ErrInsufficientLiquidity    = errors.New("insufficient liquidity")
	ErrInsufficientInputAmount  = errors.New("insufficient input amount")
	ErrInsufficientOutputAmount = errors.New("insufficient output amount")
	ErrInsufficientAmount       = errors.New("insufficient amount")
	ErrInsufficientAAmount      = errors.New("insufficient A amount")
	ErrInsufficientBAmount      = errors.New("insufficient B amount")

	// ErrInvalidFee is returned when a fee does not satisfy 0 <= numerator < denominator.
	ErrInvalidFee = errors.New("invalid fee")
)
