package uniswapv2

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	testFactory      = common.HexToAddress("0x000000000000000000000000000000000000f00d")
	testInitCodeHash = common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
)

// staticReader serves fixed reserves keyed by derived pair address.
type staticReader struct {
	reserves map[common.Address][2]*big.Int
	calls    int
}

func newStaticReader() *staticReader {
	return &staticReader{reserves: make(map[common.Address][2]*big.Int)}
}

// set stores reserves given in (a, b) order, re-sorting them canonically.
func (s *staticReader) set(a, b common.Address, reserveA, reserveB *big.Int) {
	pair, err := PairFor(testFactory, testInitCodeHash, a, b)
	if err != nil {
		panic(err)
	}
	token0, _, _ := SortTokens(a, b)
	if token0 == a {
		s.reserves[pair] = [2]*big.Int{reserveA, reserveB}
	} else {
		s.reserves[pair] = [2]*big.Int{reserveB, reserveA}
	}
}

func (s *staticReader) GetReserves(_ context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	s.calls++
	r, ok := s.reserves[pair]
	if !ok {
		return big.NewInt(0), big.NewInt(0), nil
	}
	return r[0], r[1], nil
}

func TestSortTokens(t *testing.T) {
	a := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	b := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	token0, token1, err := SortTokens(a, b)
	require.NoError(t, err)
	require.Equal(t, b, token0)
	require.Equal(t, a, token1)

	_, _, err = SortTokens(a, a)
	require.ErrorIs(t, err, ErrIdenticalAddresses)

	_, _, err = SortTokens(common.Address{}, a)
	require.ErrorIs(t, err, ErrZeroAddress)
}

func TestPairFor_Mainnet(t *testing.T) {
	usdc := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

	pair, err := PairFor(MainnetFactory, MainnetInitCodeHash, MainnetWETH, usdc)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"), pair)

	reversed, err := PairFor(MainnetFactory, MainnetInitCodeHash, usdc, MainnetWETH)
	require.NoError(t, err)
	require.Equal(t, pair, reversed)
}

func TestResolver_ReservesFor(t *testing.T) {
	lo := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	hi := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	reader := newStaticReader()
	reader.set(lo, hi, big.NewInt(100), big.NewInt(200))
	r := NewResolver(testFactory, testInitCodeHash, reader, 0)

	fwd, err := r.ReservesFor(context.Background(), lo, hi)
	require.NoError(t, err)
	require.Equal(t, int64(100), fwd.In.Int64())
	require.Equal(t, int64(200), fwd.Out.Int64())

	rev, err := r.ReservesFor(context.Background(), hi, lo)
	require.NoError(t, err)
	require.Equal(t, int64(200), rev.In.Int64())
	require.Equal(t, int64(100), rev.Out.Int64())
	require.Equal(t, fwd.Pair, rev.Pair)
}

type failingReader struct{ err error }

func (f failingReader) GetReserves(context.Context, common.Address) (*big.Int, *big.Int, error) {
	return nil, nil, f.err
}

func TestResolver_ReaderErrorPropagates(t *testing.T) {
	boom := errors.New("node unavailable")
	r := NewResolver(testFactory, testInitCodeHash, failingReader{err: boom}, 0)
	_, err := r.ReservesFor(context.Background(), common.HexToAddress("0x01"), common.HexToAddress("0x02"))
	require.ErrorIs(t, err, boom)
}

func TestResolver_ValidatePath(t *testing.T) {
	r := NewResolver(testFactory, testInitCodeHash, newStaticReader(), 3)
	a, b, c, d := common.HexToAddress("0x01"), common.HexToAddress("0x02"), common.HexToAddress("0x03"), common.HexToAddress("0x04")

	require.ErrorIs(t, r.ValidatePath(nil), ErrInvalidPath)
	require.ErrorIs(t, r.ValidatePath([]common.Address{a}), ErrInvalidPath)
	require.ErrorIs(t, r.ValidatePath([]common.Address{a, b, c, d}), ErrPathTooLong)
	require.ErrorIs(t, r.ValidatePath([]common.Address{a, b, b}), ErrIdenticalAddresses)
	require.NoError(t, r.ValidatePath([]common.Address{a, b, a}))
	require.Equal(t, 3, r.MaxPathLength())
}
