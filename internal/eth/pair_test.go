package eth_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/lmnop/uniswap-v2-periphery/internal/eth"
	"github.com/lmnop/uniswap-v2-periphery/internal/eth/ethtest"
	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

var (
	token0 = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	token1 = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	pool   = common.HexToAddress("0x0000000000000000000000000000000000000abc")
)

func TestPairReaderState(t *testing.T) {
	node := ethtest.NewNode(42)
	// Largest values a pair can store on both sides.
	max112 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))
	node.SetPair(pool, token0, token1, max112, big.NewInt(2_000_000), big.NewInt(77))

	reader, err := eth.NewPairReader(node.Client(t)).Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), reader.Block().Uint64())

	st, err := reader.State(context.Background(), pool)
	require.NoError(t, err)
	require.True(t, st.Deployed())
	require.Equal(t, token0, st.Token0)
	require.Equal(t, token1, st.Token1)
	require.Equal(t, max112, st.Reserve0)
	require.Equal(t, big.NewInt(2_000_000), st.Reserve1)
	require.Equal(t, big.NewInt(77), st.TotalSupply)
}

func TestPairReaderEmptyStorage(t *testing.T) {
	node := ethtest.NewNode(1)
	st, err := eth.NewPairReader(node.Client(t)).State(context.Background(), pool)
	require.NoError(t, err)
	require.False(t, st.Deployed())
	require.Zero(t, st.Reserve0.Sign())
}

func TestPairReaderError(t *testing.T) {
	node := ethtest.NewNode(1)
	node.Fail = errors.New("node down")
	_, _, err := eth.NewPairReader(node.Client(t)).GetReserves(context.Background(), pool)
	require.Error(t, err)
	require.Contains(t, err.Error(), "node down")
}

func TestPairReaderBacksResolver(t *testing.T) {
	a := common.HexToAddress("0x0000000000000000000000000000000000000001")
	b := common.HexToAddress("0x0000000000000000000000000000000000000002")
	pair, err := uniswapv2.PairFor(uniswapv2.MainnetFactory, uniswapv2.MainnetInitCodeHash, a, b)
	require.NoError(t, err)

	e18 := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	node := ethtest.NewNode(7)
	node.SetPair(pair, a, b, new(big.Int).Mul(big.NewInt(5), e18), new(big.Int).Mul(big.NewInt(10), e18), e18)

	resolver := uniswapv2.NewResolver(uniswapv2.MainnetFactory, uniswapv2.MainnetInitCodeHash, eth.NewPairReader(node.Client(t)), 0)
	amounts, err := resolver.AmountsOut(context.Background(), e18, []common.Address{a, b}, uniswapv2.DefaultFee)
	require.NoError(t, err)
	require.Equal(t, "1662497915624478906", amounts[1].String())
}
