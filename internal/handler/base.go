// Package handler defines HTTP request handlers and related utilities.
package handler

import (
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger *slog.Logger
}

func (h *BaseHandler) parseAmount(amountStr string) (*big.Int, error) {
	if amountStr == "" {
		return nil, ErrAmountRequired
	}

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, ErrInvalidAmountFormat
	}

	if amount.Sign() <= 0 {
		return nil, ErrAmountNonPositive
	}

	return amount, nil
}

// parseBound parses an optional slippage bound. Empty means zero.
func (h *BaseHandler) parseBound(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, NewInvalidAmount(field)
	}
	return v, nil
}

func (h *BaseHandler) parseAddress(field, s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, NewAddressRequired(field)
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, NewInvalidAddress(field)
	}
	return common.HexToAddress(s), nil
}

// parsePath splits a comma-separated list of token addresses.
func (h *BaseHandler) parsePath(s string) ([]common.Address, error) {
	if s == "" {
		return nil, NewAddressRequired("path")
	}
	parts := strings.Split(s, ",")
	path := make([]common.Address, 0, len(parts))
	for _, p := range parts {
		addr, err := h.parseAddress("path", strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		path = append(path, addr)
	}
	return path, nil
}

func amountStrings(amounts []*big.Int) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = a.String()
	}
	return out
}
