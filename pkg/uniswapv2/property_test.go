package uniswapv2

import (
	"math/big"
	"testing"

	"pgregory.net/rapid"
)

func drawAmount(t *rapid.T, label string) *big.Int {
	hi := rapid.Uint64Range(0, 1<<40).Draw(t, label+"_hi")
	lo := rapid.Uint64Range(1, 1<<62).Draw(t, label+"_lo")
	v := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 62)
	return v.Add(v, new(big.Int).SetUint64(lo))
}

func drawFee(t *rapid.T) Fee {
	den := rapid.Uint64Range(1, 1_000_000).Draw(t, "fee_den")
	num := rapid.Uint64Range(0, den-1).Draw(t, "fee_num")
	return Fee{Numerator: num, Denominator: den}
}

func TestProperty_AmountOutMonotonicAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rIn, rOut := drawAmount(t, "rIn"), drawAmount(t, "rOut")
		a := drawAmount(t, "a")
		b := new(big.Int).Add(a, drawAmount(t, "delta"))
		fee := drawFee(t)

		outA, err := AmountOut(a, rIn, rOut, fee)
		if err != nil {
			t.Fatalf("AmountOut(a): %v", err)
		}
		outB, err := AmountOut(b, rIn, rOut, fee)
		if err != nil {
			t.Fatalf("AmountOut(b): %v", err)
		}
		if outB.Cmp(outA) < 0 {
			t.Fatalf("not monotonic: out(%s)=%s > out(%s)=%s", a, outA, b, outB)
		}
		if outB.Cmp(rOut) >= 0 {
			t.Fatalf("output %s reaches reserve %s", outB, rOut)
		}
	})
}

func TestProperty_RoundTripIsLossy(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rA, rB := drawAmount(t, "rA"), drawAmount(t, "rB")
		x := drawAmount(t, "x")
		fee := drawFee(t)
		if fee.Numerator == 0 {
			fee.Numerator = 1
			if fee.Denominator == 1 {
				fee.Denominator = 2
			}
		}

		y, err := AmountOut(x, rA, rB, fee)
		if err != nil {
			t.Fatalf("AmountOut: %v", err)
		}
		back := new(big.Int)
		if y.Sign() > 0 {
			back, err = AmountOut(y, rB, rA, fee)
			if err != nil {
				t.Fatalf("AmountOut back: %v", err)
			}
		}
		if back.Cmp(x) >= 0 {
			t.Fatalf("round trip gained: in %s, back %s", x, back)
		}
	})
}

func TestProperty_AmountInIsMinimalCeiling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rIn, rOut := drawAmount(t, "rIn"), drawAmount(t, "rOut")
		if rOut.Cmp(big.NewInt(2)) < 0 {
			rOut = big.NewInt(2)
		}
		out := new(big.Int).Mod(drawAmount(t, "out"), new(big.Int).Sub(rOut, big.NewInt(1)))
		out.Add(out, big.NewInt(1))
		fee := drawFee(t)

		in, err := AmountIn(out, rIn, rOut, fee)
		if err != nil {
			t.Fatalf("AmountIn: %v", err)
		}
		got, err := AmountOut(in, rIn, rOut, fee)
		if err != nil {
			t.Fatalf("AmountOut: %v", err)
		}
		if got.Cmp(out) < 0 {
			t.Fatalf("paying %s yields %s < requested %s", in, got, out)
		}
		if in.Cmp(big.NewInt(1)) > 0 {
			less, err := AmountOut(new(big.Int).Sub(in, big.NewInt(1)), rIn, rOut, fee)
			if err != nil {
				t.Fatalf("AmountOut(in-1): %v", err)
			}
			if less.Cmp(out) >= 0 {
				t.Fatalf("AmountIn %s is not minimal for %s", in, out)
			}
		}
	})
}

func TestProperty_QuoteNeverGains(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawAmount(t, "a")
		rA, rB := drawAmount(t, "rA"), drawAmount(t, "rB")

		b, err := Quote(a, rA, rB)
		if err != nil {
			t.Fatalf("Quote: %v", err)
		}
		if b.Sign() == 0 {
			return
		}
		back, err := Quote(b, rB, rA)
		if err != nil {
			t.Fatalf("Quote back: %v", err)
		}
		if back.Cmp(a) > 0 {
			t.Fatalf("quote round trip gained: %s -> %s -> %s", a, b, back)
		}
	})
}
