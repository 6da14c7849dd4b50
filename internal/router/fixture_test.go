package router_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/lmnop/uniswap-v2-periphery/internal/access"
	"github.com/lmnop/uniswap-v2-periphery/internal/ledger"
	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
	"github.com/lmnop/uniswap-v2-periphery/internal/router"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

const now uint64 = 1_700_000_000

var (
	factory    = common.HexToAddress("0x00000000000000000000000000000000000000f0")
	routerAddr = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	admin      = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	weth       = common.HexToAddress("0x0000000000000000000000000000000000000ee0")
	tokenA     = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	tokenB     = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	tokenX     = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	tokenY     = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	alice      = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob        = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	deadline = now + 60
	maxU256  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func bi(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer " + s)
	}
	return v
}

type fixture struct {
	l  *ledger.Ledger
	r  *router.Router
	wl *access.Whitelist
	m  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := ledger.New(ledger.Config{Factory: factory, InitCodeHash: uniswapv2.MainnetInitCodeHash, WETH: weth, Time: now})
	return newFixtureWith(t, l, l)
}

// newFixtureWith builds the router over state, which must be backed by l.
func newFixtureWith(t *testing.T, l *ledger.Ledger, state router.State) *fixture {
	t.Helper()
	for _, tok := range []common.Address{tokenA, tokenB, tokenX, tokenY} {
		require.NoError(t, l.DeployToken(tok, alice, e18(10_000)))
	}
	for _, who := range []common.Address{alice, bob} {
		require.NoError(t, l.FundNative(who, e18(1_000)))
		for _, tok := range []common.Address{tokenA, tokenB, tokenX, tokenY, weth} {
			require.NoError(t, l.Approve(tok, who, routerAddr, maxU256))
		}
	}

	wl := access.NewWhitelist(admin)
	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := router.New(logger, router.Config{
		Address:      routerAddr,
		Factory:      factory,
		InitCodeHash: uniswapv2.MainnetInitCodeHash,
		WETH:         weth,
	}, state, wl, m)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.Zero(t, l.NativeBalance(routerAddr).Sign(), "router kept native asset")
		require.Zero(t, l.BalanceOf(weth, routerAddr).Sign(), "router kept WETH")
	})
	return &fixture{l: l, r: r, wl: wl, m: m}
}

// addLiquidity seeds the (a, b) pair from alice.
func (f *fixture) addLiquidity(t *testing.T, a, b common.Address, amountA, amountB *big.Int) common.Address {
	t.Helper()
	_, err := f.r.AddLiquidity(context.Background(), router.Call{From: alice}, router.AddLiquidityParams{
		TokenA: a, TokenB: b,
		AmountADesired: amountA, AmountBDesired: amountB,
		To: alice, Deadline: deadline,
	})
	require.NoError(t, err)
	pair, ok := f.l.GetPair(a, b)
	require.True(t, ok)
	require.NoError(t, f.l.Approve(pair, alice, routerAddr, maxU256))
	return pair
}

// addLiquidityETH seeds the (token, WETH) pair from alice.
func (f *fixture) addLiquidityETH(t *testing.T, token common.Address, amountToken, amountETH *big.Int) common.Address {
	t.Helper()
	_, err := f.r.AddLiquidityETH(context.Background(), router.Call{From: alice, Value: amountETH}, router.AddLiquidityETHParams{
		Token: token, AmountTokenDesired: amountToken, To: alice, Deadline: deadline,
	})
	require.NoError(t, err)
	pair, ok := f.l.GetPair(token, weth)
	require.True(t, ok)
	require.NoError(t, f.l.Approve(pair, alice, routerAddr, maxU256))
	return pair
}

func (f *fixture) reserves(t *testing.T, pair common.Address) (*big.Int, *big.Int) {
	t.Helper()
	r0, r1, err := f.l.GetReserves(context.Background(), pair)
	require.NoError(t, err)
	return r0, r1
}

// events lists the event names emitted by contract since log index from.
func (f *fixture) events(from int, contract common.Address) []string {
	var out []string
	for _, entry := range f.l.Logs()[from:] {
		if entry.Contract == contract {
			out = append(out, entry.Event)
		}
	}
	return out
}
