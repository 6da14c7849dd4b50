package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// SeedPair installs a pair with the given reserves and liquidity supply,
// as read from a live deployment. Unknown tokens are deployed empty. The
// pair's liquidity tokens are credited to the zero address so that the
// simulated supply matches the source without giving any account a
// withdrawable position.
func (l *Ledger) SeedPair(tokenA, tokenB common.Address, reserveA, reserveB, totalSupply *big.Int) (common.Address, error) {
	for _, tok := range []common.Address{tokenA, tokenB} {
		if !l.HasToken(tok) {
			if err := l.DeployToken(tok, common.Address{}, nil); err != nil {
				return common.Address{}, err
			}
		}
	}
	addr, ok := l.GetPair(tokenA, tokenB)
	if !ok {
		var err error
		if addr, err = l.CreatePair(tokenA, tokenB); err != nil {
			return common.Address{}, err
		}
	}

	if err := l.MintTo(tokenA, addr, reserveA); err != nil {
		return common.Address{}, err
	}
	if err := l.MintTo(tokenB, addr, reserveB); err != nil {
		return common.Address{}, err
	}
	if totalSupply != nil && totalSupply.Sign() > 0 {
		s, err := toU256(totalSupply)
		if err != nil {
			return common.Address{}, err
		}
		if err := l.mint(addr, common.Address{}, s); err != nil {
			return common.Address{}, err
		}
	}
	return addr, l.Sync(addr)
}

// MintTo credits amount of tok to to without a matching debit.
func (l *Ledger) MintTo(tok, to common.Address, amount *big.Int) error {
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	if tok == l.cfg.WETH {
		// WETH supply is backed by the native asset it holds.
		if _, overflow := new(uint256.Int).AddOverflow(l.nativeOf(tok), v); overflow {
			return ErrOverflow
		}
		l.setNative(tok, new(uint256.Int).Add(l.nativeOf(tok), v))
	}
	return l.mint(tok, to, v)
}
