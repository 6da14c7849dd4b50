package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/access"
	"github.com/lmnop/uniswap-v2-periphery/internal/router"
	"github.com/lmnop/uniswap-v2-periphery/internal/service"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrInvalidBody indicates that the request body is not the expected JSON.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrSameAddresses is returned when src and dst addresses are identical.
var ErrSameAddresses = fiber.NewError(fiber.StatusBadRequest, "src and dst addresses cannot be the same")

// ErrAmountRequired is returned when the amount parameter is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when the amount cannot be parsed as a
// base-10 integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrAmountNonPositive is returned when the amount is zero or negative.
var ErrAmountNonPositive = fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")

// ErrSameTokenBadRequest maps a same-token validation failure to a 400 error.
var ErrSameTokenBadRequest = fiber.NewError(fiber.StatusBadRequest, "src and dst tokens cannot be the same")

// ErrEmptyReservesBadRequest maps empty-reserve pool state to a 400 error.
var ErrEmptyReservesBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool has insufficient reserves")

// ErrEstimationFailedInternal signals a generic server-side estimation error.
var ErrEstimationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "estimation failed")

// NewInvalidAmountIn wraps an amount parsing error into a 400 Bad Request with
// a descriptive message.
func NewInvalidAmountIn(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid amount_in: "+err.Error())
}

// NewInvalidAmount returns a 400 Bad Request for a malformed optional amount.
func NewInvalidAmount(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field)
}

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// badRequest lists the errors caused by the request itself rather than by
// the server or the node behind it.
var badRequest = []error{
	service.ErrSameToken,
	service.ErrPairMismatch,
	service.ErrEmptyReserves,
	service.ErrPairNotDeployed,
	service.ErrUnsupportedSwap,
	router.ErrExpired,
	router.ErrExcessiveInputAmount,
	router.ErrInvalidValue,
	uniswapv2.ErrIdenticalAddresses,
	uniswapv2.ErrZeroAddress,
	uniswapv2.ErrInvalidPath,
	uniswapv2.ErrPathTooLong,
	uniswapv2.ErrInsufficientLiquidity,
	uniswapv2.ErrInsufficientInputAmount,
	uniswapv2.ErrInsufficientOutputAmount,
	uniswapv2.ErrInsufficientAmount,
	uniswapv2.ErrInsufficientAAmount,
	uniswapv2.ErrInsufficientBAmount,
}

// mapError translates service and router errors into HTTP errors: 403 for
// whitelist rejections, 400 for invalid requests and 500 for the rest.
func mapError(logger *slog.Logger, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, access.ErrNotWhitelisted) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	logger.Error("request failed", "err", err)
	return ErrEstimationFailedInternal
}
