package uniswapv2

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestAmountsOut_MultiHop(t *testing.T) {
	a, b, c := common.HexToAddress("0x0a"), common.HexToAddress("0x0b"), common.HexToAddress("0x0c")
	reader := newStaticReader()
	reader.set(a, b, e18(5), e18(10))
	reader.set(b, c, e18(10), e18(10))
	r := NewResolver(testFactory, testInitCodeHash, reader, 0)

	amounts, err := r.AmountsOut(context.Background(), e18(1), []common.Address{a, b, c}, DefaultFee)
	require.NoError(t, err)
	require.Len(t, amounts, 3)

	hop1, _ := AmountOut(e18(1), e18(5), e18(10), DefaultFee)
	hop2, _ := AmountOut(hop1, e18(10), e18(10), DefaultFee)
	require.Equal(t, e18(1), amounts[0])
	require.Equal(t, hop1, amounts[1])
	require.Equal(t, hop2, amounts[2])
	require.Equal(t, 2, reader.calls)
}

func TestAmountsIn_MultiHop(t *testing.T) {
	a, b, c := common.HexToAddress("0x0a"), common.HexToAddress("0x0b"), common.HexToAddress("0x0c")
	reader := newStaticReader()
	reader.set(a, b, e18(5), e18(10))
	reader.set(b, c, e18(10), e18(10))
	r := NewResolver(testFactory, testInitCodeHash, reader, 0)

	amounts, err := r.AmountsIn(context.Background(), e18(1), []common.Address{a, b, c}, DefaultFee)
	require.NoError(t, err)

	hop2, _ := AmountIn(e18(1), e18(10), e18(10), DefaultFee)
	hop1, _ := AmountIn(hop2, e18(5), e18(10), DefaultFee)
	require.Equal(t, hop1, amounts[0])
	require.Equal(t, hop2, amounts[1])
	require.Equal(t, e18(1), amounts[2])

	// Paying the quoted input forward delivers at least the requested output.
	forward, err := r.AmountsOut(context.Background(), amounts[0], []common.Address{a, b, c}, DefaultFee)
	require.NoError(t, err)
	require.True(t, forward[2].Cmp(e18(1)) >= 0)
}

func TestAmounts_ErrorsPropagate(t *testing.T) {
	a, b := common.HexToAddress("0x0a"), common.HexToAddress("0x0b")
	r := NewResolver(testFactory, testInitCodeHash, newStaticReader(), 0)

	_, err := r.AmountsOut(context.Background(), big.NewInt(1), []common.Address{a}, DefaultFee)
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = r.AmountsOut(context.Background(), big.NewInt(1), []common.Address{a, b}, DefaultFee)
	require.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = r.AmountsIn(context.Background(), big.NewInt(1), []common.Address{a, b}, DefaultFee)
	require.ErrorIs(t, err, ErrInsufficientLiquidity)

	_, err = r.AmountsOut(context.Background(), big.NewInt(1), []common.Address{a, {}}, DefaultFee)
	require.ErrorIs(t, err, ErrZeroAddress)
}
