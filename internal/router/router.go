// Package router implements the periphery router: liquidity provision and
// multi-hop swaps over constant-product pairs, including native-asset
// wrapping at the boundaries.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/internal/access"
	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// Config describes the deployment a Router operates on.
type Config struct {
	// Address is the router's own account. Native value and unwrapped WETH
	// pass through it within a call.
	Address       common.Address
	Factory       common.Address
	InitCodeHash  common.Hash
	WETH          common.Address
	Fee           uniswapv2.Fee
	MaxPathLength int
}

// Call carries the transaction context of an entry point: who is calling
// and how much native asset is attached.
type Call struct {
	From  common.Address
	Value *big.Int
}

type Router struct {
	mu        sync.Mutex
	cfg       Config
	state     State
	resolver  *uniswapv2.Resolver
	whitelist *access.Whitelist
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New returns a Router over state. whitelist and m may be nil, in which
// case gating and metrics are off.
func New(logger *slog.Logger, cfg Config, state State, whitelist *access.Whitelist, m *metrics.Metrics) (*Router, error) {
	if cfg.Fee == (uniswapv2.Fee{}) {
		cfg.Fee = uniswapv2.DefaultFee
	}
	if err := cfg.Fee.Validate(); err != nil {
		return nil, err
	}
	if cfg.WETH == (common.Address{}) {
		return nil, fmt.Errorf("weth: %w", uniswapv2.ErrZeroAddress)
	}
	resolver := uniswapv2.NewResolver(cfg.Factory, cfg.InitCodeHash, state, cfg.MaxPathLength)
	cfg.MaxPathLength = resolver.MaxPathLength()

	return &Router{
		cfg:       cfg,
		state:     state,
		resolver:  resolver,
		whitelist: whitelist,
		metrics:   m,
		logger:    logger,
	}, nil
}

func (r *Router) Factory() common.Address { return r.cfg.Factory }

func (r *Router) WETH() common.Address { return r.cfg.WETH }

// Address returns the router's own account.
func (r *Router) Address() common.Address { return r.cfg.Address }

// EnableWhitelist replaces the set of callers allowed to use the router and
// turns gating on. Only the whitelist administrator may call it.
func (r *Router) EnableWhitelist(call Call, addrs []common.Address) (err error) {
	defer func() { r.metrics.ObserveCall("enableWhitelist", err) }()
	if r.whitelist == nil {
		return access.ErrNotAdmin
	}
	if err := r.whitelist.EnableWhitelist(call.From, addrs); err != nil {
		return err
	}
	r.logger.Info("whitelist enabled", "admin", call.From.Hex(), "members", len(addrs))
	return nil
}

// IsWhitelisted reports whether addr may call state-changing entry points.
func (r *Router) IsWhitelisted(addr common.Address) bool {
	return r.whitelist == nil || r.whitelist.IsWhitelisted(addr)
}

// execute runs fn as one indivisible call. The preconditions shared by all
// entry points are checked first, in order: cancellation, deadline,
// whitelist, attached value. Any error from fn reverts every effect of the
// call, including the intake of native value.
func (r *Router) execute(ctx context.Context, op string, call Call, deadline uint64, payable bool, fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		r.metrics.ObserveCall(op, err)
		if err != nil {
			r.logger.Warn("router call failed", "op", op, "from", call.From.Hex(), "err", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if now := r.state.Time(); now > deadline {
		return fmt.Errorf("%w: deadline %d, now %d", ErrExpired, deadline, now)
	}
	if r.whitelist != nil {
		if err := r.whitelist.Check(call.From); err != nil {
			return err
		}
	}
	value := nativeValue(call)
	if !payable && value.Sign() > 0 {
		return ErrInvalidValue
	}

	snap := r.state.Snapshot()
	if value.Sign() > 0 {
		if err := r.state.TransferNative(call.From, r.cfg.Address, value); err != nil {
			r.state.RevertToSnapshot(snap)
			return fmt.Errorf("native value: %w", err)
		}
	}
	if err := fn(); err != nil {
		r.state.RevertToSnapshot(snap)
		return err
	}
	return nil
}

func nativeValue(call Call) *big.Int {
	if call.Value == nil {
		return new(big.Int)
	}
	return call.Value
}

// refund returns native value the call did not use.
func (r *Router) refund(to common.Address, value, used *big.Int) error {
	dust := new(big.Int).Sub(value, used)
	if dust.Sign() <= 0 {
		return nil
	}
	return r.state.TransferNative(r.cfg.Address, to, dust)
}

// wrapTo wraps amount of the router's native balance and sends the WETH to
// pair.
func (r *Router) wrapTo(pair common.Address, amount *big.Int) error {
	if err := r.state.Deposit(r.cfg.Address, amount); err != nil {
		return fmt.Errorf("wrap: %w", err)
	}
	return r.state.Transfer(r.cfg.WETH, r.cfg.Address, pair, amount)
}

// unwrapTo unwraps amount of the router's WETH and sends the native asset
// to to.
func (r *Router) unwrapTo(to common.Address, amount *big.Int) error {
	if err := r.state.Withdraw(r.cfg.Address, amount); err != nil {
		return fmt.Errorf("unwrap: %w", err)
	}
	return r.state.TransferNative(r.cfg.Address, to, amount)
}

func (r *Router) pairFor(tokenA, tokenB common.Address) (common.Address, error) {
	return r.resolver.ResolvePool(tokenA, tokenB)
}
