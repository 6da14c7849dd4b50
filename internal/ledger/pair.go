package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// MinimumLiquidity is locked to the zero address on a pair's first mint.
const MinimumLiquidity = 1000

var (
	minimumLiquidity = uint256.NewInt(MinimumLiquidity)
	maxUint112       = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 112), uint256.NewInt(1))
)

type pair struct {
	token0, token1     common.Address
	reserve0, reserve1 *uint256.Int
}

// GetPair returns the pair registered for (tokenA, tokenB), in either order.
func (l *Ledger) GetPair(tokenA, tokenB common.Address) (common.Address, bool) {
	token0, token1, err := uniswapv2.SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, false
	}
	addr, ok := l.byToken[[2]common.Address{token0, token1}]
	return addr, ok
}

// AllPairs returns every pair created so far in creation order.
func (l *Ledger) AllPairs() []common.Address {
	out := make([]common.Address, len(l.all))
	copy(out, l.all)
	return out
}

// CreatePair deploys the pair for (tokenA, tokenB) at its CREATE2 address.
func (l *Ledger) CreatePair(tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := uniswapv2.SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	key := [2]common.Address{token0, token1}
	if _, ok := l.byToken[key]; ok {
		return common.Address{}, ErrPairExists
	}
	addr, err := uniswapv2.PairFor(l.cfg.Factory, l.cfg.InitCodeHash, token0, token1)
	if err != nil {
		return common.Address{}, err
	}

	l.pairs[addr] = &pair{token0: token0, token1: token1, reserve0: new(uint256.Int), reserve1: new(uint256.Int)}
	l.tokens[addr] = newToken()
	l.byToken[key] = addr
	l.all = append(l.all, addr)
	n := len(l.all) - 1
	l.journal = append(l.journal, func() {
		delete(l.pairs, addr)
		delete(l.tokens, addr)
		delete(l.byToken, key)
		l.all = l.all[:n]
	})
	l.emit(l.cfg.Factory, "PairCreated", []common.Address{token0, token1, addr}, uint256.NewInt(uint64(len(l.all))))
	return addr, nil
}

// Tokens returns the canonical (token0, token1) of a pair.
func (l *Ledger) Tokens(pairAddr common.Address) (token0, token1 common.Address, err error) {
	p, ok := l.pairs[pairAddr]
	if !ok {
		return common.Address{}, common.Address{}, ErrUnknownPair
	}
	return p.token0, p.token1, nil
}

// GetReserves returns the stored reserves of a pair. Reading an address
// with no pair deployed fails, like a call to an empty account would.
func (l *Ledger) GetReserves(_ context.Context, pairAddr common.Address) (reserve0, reserve1 *big.Int, err error) {
	p, ok := l.pairs[pairAddr]
	if !ok {
		return nil, nil, ErrUnknownPair
	}
	return p.reserve0.ToBig(), p.reserve1.ToBig(), nil
}

// Mint issues liquidity tokens to to for whatever the pair holds above its
// reserves.
func (l *Ledger) Mint(pairAddr, sender, to common.Address) (*big.Int, error) {
	p, ok := l.pairs[pairAddr]
	if !ok {
		return nil, ErrUnknownPair
	}
	balance0, balance1 := l.tokens[p.token0].balanceOf(pairAddr), l.tokens[p.token1].balanceOf(pairAddr)
	amount0, underflow0 := new(uint256.Int).SubOverflow(balance0, p.reserve0)
	amount1, underflow1 := new(uint256.Int).SubOverflow(balance1, p.reserve1)
	if underflow0 || underflow1 {
		return nil, ErrOverflow
	}

	supply := l.tokens[pairAddr].supply
	var liquidity *uint256.Int
	if supply.IsZero() {
		product, overflow := new(uint256.Int).MulOverflow(amount0, amount1)
		if overflow {
			return nil, ErrOverflow
		}
		root, _ := uint256.FromBig(new(big.Int).Sqrt(product.ToBig()))
		if root.Lt(minimumLiquidity) || root.Eq(minimumLiquidity) {
			return nil, ErrInsufficientLiquidityMinted
		}
		liquidity = new(uint256.Int).Sub(root, minimumLiquidity)
		if err := l.mint(pairAddr, common.Address{}, minimumLiquidity); err != nil {
			return nil, err
		}
	} else {
		l0, err := mulDiv(amount0, supply, p.reserve0)
		if err != nil {
			return nil, err
		}
		l1, err := mulDiv(amount1, supply, p.reserve1)
		if err != nil {
			return nil, err
		}
		liquidity = l0
		if l1.Lt(l0) {
			liquidity = l1
		}
	}
	if liquidity.IsZero() {
		return nil, ErrInsufficientLiquidityMinted
	}
	if err := l.mint(pairAddr, to, liquidity); err != nil {
		return nil, err
	}
	if err := l.update(pairAddr, p, balance0, balance1); err != nil {
		return nil, err
	}
	l.emit(pairAddr, "Mint", []common.Address{sender}, amount0, amount1)
	return liquidity.ToBig(), nil
}

// Burn destroys the liquidity tokens held by the pair itself and pays the
// pro-rata share of both reserves to to.
func (l *Ledger) Burn(pairAddr, sender, to common.Address) (amount0, amount1 *big.Int, err error) {
	p, ok := l.pairs[pairAddr]
	if !ok {
		return nil, nil, ErrUnknownPair
	}
	lp := l.tokens[pairAddr]
	balance0, balance1 := l.tokens[p.token0].balanceOf(pairAddr), l.tokens[p.token1].balanceOf(pairAddr)
	liquidity := lp.balanceOf(pairAddr)
	if lp.supply.IsZero() {
		return nil, nil, ErrInsufficientLiquidityBurned
	}

	a0, err := mulDiv(liquidity, balance0, lp.supply)
	if err != nil {
		return nil, nil, err
	}
	a1, err := mulDiv(liquidity, balance1, lp.supply)
	if err != nil {
		return nil, nil, err
	}
	if a0.IsZero() || a1.IsZero() {
		return nil, nil, ErrInsufficientLiquidityBurned
	}
	if err := l.burn(pairAddr, pairAddr, liquidity); err != nil {
		return nil, nil, err
	}
	if err := l.transfer(p.token0, pairAddr, to, a0); err != nil {
		return nil, nil, err
	}
	if err := l.transfer(p.token1, pairAddr, to, a1); err != nil {
		return nil, nil, err
	}
	balance0, balance1 = l.tokens[p.token0].balanceOf(pairAddr), l.tokens[p.token1].balanceOf(pairAddr)
	if err := l.update(pairAddr, p, balance0, balance1); err != nil {
		return nil, nil, err
	}
	l.emit(pairAddr, "Burn", []common.Address{sender, to}, a0, a1)
	return a0.ToBig(), a1.ToBig(), nil
}

// Swap sends the requested outputs to to and then checks that the inputs
// already transferred in keep the fee-adjusted product from falling.
func (l *Ledger) Swap(pairAddr, sender common.Address, amount0Out, amount1Out *big.Int, to common.Address) error {
	p, ok := l.pairs[pairAddr]
	if !ok {
		return ErrUnknownPair
	}
	out0, err := toU256(amount0Out)
	if err != nil {
		return err
	}
	out1, err := toU256(amount1Out)
	if err != nil {
		return err
	}
	if out0.IsZero() && out1.IsZero() {
		return uniswapv2.ErrInsufficientOutputAmount
	}
	if !out0.Lt(p.reserve0) || !out1.Lt(p.reserve1) {
		return uniswapv2.ErrInsufficientLiquidity
	}
	if to == p.token0 || to == p.token1 {
		return ErrInvalidTo
	}

	if !out0.IsZero() {
		if err := l.transfer(p.token0, pairAddr, to, out0); err != nil {
			return err
		}
	}
	if !out1.IsZero() {
		if err := l.transfer(p.token1, pairAddr, to, out1); err != nil {
			return err
		}
	}
	balance0, balance1 := l.tokens[p.token0].balanceOf(pairAddr), l.tokens[p.token1].balanceOf(pairAddr)
	in0 := amountIn(balance0, p.reserve0, out0)
	in1 := amountIn(balance1, p.reserve1, out1)
	if in0.IsZero() && in1.IsZero() {
		return uniswapv2.ErrInsufficientInputAmount
	}

	den := uint256.NewInt(l.cfg.Fee.Denominator)
	num := uint256.NewInt(l.cfg.Fee.Numerator)
	adj0, err := adjusted(balance0, in0, num, den)
	if err != nil {
		return err
	}
	adj1, err := adjusted(balance1, in1, num, den)
	if err != nil {
		return err
	}
	lhs, overflow := new(uint256.Int).MulOverflow(adj0, adj1)
	if overflow {
		return ErrOverflow
	}
	rhs := new(uint256.Int).Mul(p.reserve0, p.reserve1)
	rhs, overflow = rhs.MulOverflow(rhs, new(uint256.Int).Mul(den, den))
	if overflow {
		return ErrOverflow
	}
	if lhs.Lt(rhs) {
		return ErrK
	}

	if err := l.update(pairAddr, p, balance0, balance1); err != nil {
		return err
	}
	l.emit(pairAddr, "Swap", []common.Address{sender, to}, in0, in1, out0, out1)
	return nil
}

// Sync forces the reserves to match the pair's balances.
func (l *Ledger) Sync(pairAddr common.Address) error {
	p, ok := l.pairs[pairAddr]
	if !ok {
		return ErrUnknownPair
	}
	return l.update(pairAddr, p, l.tokens[p.token0].balanceOf(pairAddr), l.tokens[p.token1].balanceOf(pairAddr))
}

func (l *Ledger) update(pairAddr common.Address, p *pair, balance0, balance1 *uint256.Int) error {
	if balance0.Gt(maxUint112) || balance1.Gt(maxUint112) {
		return ErrOverflow
	}
	prev0, prev1 := p.reserve0, p.reserve1
	p.reserve0, p.reserve1 = balance0.Clone(), balance1.Clone()
	l.journal = append(l.journal, func() { p.reserve0, p.reserve1 = prev0, prev1 })
	l.emit(pairAddr, "Sync", nil, p.reserve0, p.reserve1)
	return nil
}

// amountIn is balance - (reserve - out), or zero when the pair did not
// receive anything on that side.
func amountIn(balance, reserve, out *uint256.Int) *uint256.Int {
	left := new(uint256.Int).Sub(reserve, out)
	if balance.Gt(left) {
		return new(uint256.Int).Sub(balance, left)
	}
	return new(uint256.Int)
}

func adjusted(balance, in, num, den *uint256.Int) (*uint256.Int, error) {
	scaled, overflow := new(uint256.Int).MulOverflow(balance, den)
	if overflow {
		return nil, ErrOverflow
	}
	fee, overflow := new(uint256.Int).MulOverflow(in, num)
	if overflow {
		return nil, ErrOverflow
	}
	out, underflow := scaled.SubOverflow(scaled, fee)
	if underflow {
		return nil, ErrOverflow
	}
	return out, nil
}

func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrOverflow
	}
	product, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return product.Div(product, d), nil
}
