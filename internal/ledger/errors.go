package ledger

import "errors"

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNegativeAmount        = errors.New("negative amount")
	// ErrOverflow is returned when a value does not fit the width the EVM
	// contract would store it in (uint256 balances, uint112 reserves).
	ErrOverflow = errors.New("arithmetic overflow")

	ErrUnknownToken = errors.New("unknown token")
	ErrTokenExists  = errors.New("token already deployed")
	ErrUnknownPair  = errors.New("unknown pair")
	ErrPairExists   = errors.New("pair exists")

	ErrK                           = errors.New("K")
	ErrInvalidTo                   = errors.New("invalid to")
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
)
