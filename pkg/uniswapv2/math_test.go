package uniswapv2

import (
	"errors"
	"math/big"
	"testing"
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestGetAmountOut(t *testing.T) {
	// Example: reserves 1000000 : 1000000, amountIn 1000
	rIn := big.NewInt(1_000_000)
	rOut := big.NewInt(1_000_000)
	amountIn := big.NewInt(1_000)

	// dst/t1/t2 are re-used temporaries
	var dst, t1, t2 big.Int
	out := GetAmountOut(&dst, &t1, &t2, amountIn, rIn, rOut)

	// compute expected using same formula to assert determinism and non-zero
	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(997))
	numerator := new(big.Int).Mul(amountInWithFee, rOut)
	denominator := new(big.Int).Mul(rIn, big.NewInt(1000))
	denominator.Add(denominator, amountInWithFee)
	expected := new(big.Int).Div(numerator, denominator)

	if out.Cmp(expected) != 0 {
		t.Fatalf("unexpected: got %s want %s", out, expected)
	}
	if out.Sign() <= 0 {
		t.Fatalf("amountOut should be positive")
	}
}

func TestAmountOut_Literal(t *testing.T) {
	out, err := AmountOut(e18(1), e18(5), e18(10), DefaultFee)
	if err != nil {
		t.Fatalf("AmountOut: %v", err)
	}
	want, _ := new(big.Int).SetString("1662497915624478906", 10)
	if out.Cmp(want) != 0 {
		t.Fatalf("got %s want %s", out, want)
	}
}

func TestAmountIn_Literal(t *testing.T) {
	in, err := AmountIn(e18(1), e18(5), e18(10), DefaultFee)
	if err != nil {
		t.Fatalf("AmountIn: %v", err)
	}
	want, _ := new(big.Int).SetString("557227237267357629", 10)
	if in.Cmp(want) != 0 {
		t.Fatalf("got %s want %s", in, want)
	}
}

func TestAmountIn_RoundsUp(t *testing.T) {
	// 100*10*1000 / (90*997) = 11.14.. -> 12
	in, err := AmountIn(big.NewInt(10), big.NewInt(100), big.NewInt(100), DefaultFee)
	if err != nil {
		t.Fatalf("AmountIn: %v", err)
	}
	if in.Cmp(big.NewInt(12)) != 0 {
		t.Fatalf("got %s want 12", in)
	}

	// Exact division must not add a unit: fee 0, 100*50/(100-50) = 100.
	in, err = AmountIn(big.NewInt(50), big.NewInt(100), big.NewInt(100), Fee{Numerator: 0, Denominator: 1})
	if err != nil {
		t.Fatalf("AmountIn: %v", err)
	}
	if in.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("got %s want 100", in)
	}
}

func TestAmountOut_CustomFee(t *testing.T) {
	// 1% fee: 1000*99*2000 / (1000*100 + 1000*99) = 198000000/199000 = 994
	out, err := AmountOut(big.NewInt(1000), big.NewInt(1000), big.NewInt(2000), Fee{Numerator: 1, Denominator: 100})
	if err != nil {
		t.Fatalf("AmountOut: %v", err)
	}
	if out.Cmp(big.NewInt(994)) != 0 {
		t.Fatalf("got %s want 994", out)
	}
}

func TestMathErrors(t *testing.T) {
	one := big.NewInt(1)
	cases := []struct {
		name string
		fn   func() error
		want error
	}{
		{"out zero input", func() error { _, err := AmountOut(big.NewInt(0), one, one, DefaultFee); return err }, ErrInsufficientInputAmount},
		{"out nil input", func() error { _, err := AmountOut(nil, one, one, DefaultFee); return err }, ErrInsufficientInputAmount},
		{"out empty reserve in", func() error { _, err := AmountOut(one, big.NewInt(0), one, DefaultFee); return err }, ErrInsufficientLiquidity},
		{"out empty reserve out", func() error { _, err := AmountOut(one, one, big.NewInt(0), DefaultFee); return err }, ErrInsufficientLiquidity},
		{"out bad fee", func() error { _, err := AmountOut(one, one, one, Fee{Numerator: 5, Denominator: 5}); return err }, ErrInvalidFee},
		{"in zero output", func() error { _, err := AmountIn(big.NewInt(0), one, one, DefaultFee); return err }, ErrInsufficientOutputAmount},
		{"in drains reserve", func() error { _, err := AmountIn(big.NewInt(10), big.NewInt(10), big.NewInt(10), DefaultFee); return err }, ErrInsufficientLiquidity},
		{"in empty reserve in", func() error { _, err := AmountIn(one, big.NewInt(0), big.NewInt(10), DefaultFee); return err }, ErrInsufficientLiquidity},
		{"quote zero", func() error { _, err := Quote(big.NewInt(0), one, one); return err }, ErrInsufficientAmount},
		{"quote empty reserve", func() error { _, err := Quote(one, big.NewInt(0), one); return err }, ErrInsufficientLiquidity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.fn(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	got, err := Quote(big.NewInt(7), big.NewInt(3), big.NewInt(10))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	// 70/3 = 23.33 -> 23
	if got.Cmp(big.NewInt(23)) != 0 {
		t.Fatalf("got %s want 23", got)
	}
}
