package uniswapv2

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func BenchmarkGetAmountOut_NoAlloc(b *testing.B) {
	rIn := new(big.Int).SetUint64(13_451_234_567_890)
	rOut := new(big.Int).SetUint64(98_765_432_109_876)
	in := new(big.Int).SetUint64(1_000_000)
	dst := new(big.Int)
	t1 := new(big.Int)
	t2 := new(big.Int)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetAmountOut(dst, t1, t2, in, rIn, rOut)
	}
}

func BenchmarkAmountIn(b *testing.B) {
	rIn := new(big.Int).SetUint64(13_451_234_567_890)
	rOut := new(big.Int).SetUint64(98_765_432_109_876)
	out := new(big.Int).SetUint64(1_000_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AmountIn(out, rIn, rOut, DefaultFee)
	}
}

func BenchmarkAmountsOut_ThreeHops(b *testing.B) {
	path := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
		common.HexToAddress("0x04"),
	}
	reader := newStaticReader()
	for i := 0; i < len(path)-1; i++ {
		reader.set(path[i], path[i+1], big.NewInt(1_000_000_000), big.NewInt(2_000_000_000))
	}
	r := NewResolver(testFactory, testInitCodeHash, reader, 0)
	in := big.NewInt(1_000_000)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.AmountsOut(ctx, in, path, DefaultFee)
	}
}
