package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type token struct {
	supply     *uint256.Int
	balances   map[common.Address]*uint256.Int
	allowances map[[2]common.Address]*uint256.Int
}

func newToken() *token {
	return &token{
		supply:     new(uint256.Int),
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[[2]common.Address]*uint256.Int),
	}
}

// DeployToken registers an ERC-20 at addr and mints supply to holder.
func (l *Ledger) DeployToken(addr, holder common.Address, supply *big.Int) error {
	if _, ok := l.tokens[addr]; ok {
		return ErrTokenExists
	}
	v, err := toU256(supply)
	if err != nil {
		return err
	}
	l.tokens[addr] = newToken()
	l.journal = append(l.journal, func() { delete(l.tokens, addr) })
	if v.IsZero() {
		return nil
	}
	return l.mint(addr, holder, v)
}

// HasToken reports whether addr is a deployed token, including WETH and
// pair liquidity tokens.
func (l *Ledger) HasToken(addr common.Address) bool {
	_, ok := l.tokens[addr]
	return ok
}

// BalanceOf returns the token balance of owner.
func (l *Ledger) BalanceOf(tok, owner common.Address) *big.Int {
	t, ok := l.tokens[tok]
	if !ok {
		return new(big.Int)
	}
	return t.balanceOf(owner).ToBig()
}

// TotalSupply returns the token supply.
func (l *Ledger) TotalSupply(tok common.Address) *big.Int {
	t, ok := l.tokens[tok]
	if !ok {
		return new(big.Int)
	}
	return t.supply.ToBig()
}

// Allowance returns how much spender may move on behalf of owner.
func (l *Ledger) Allowance(tok, owner, spender common.Address) *big.Int {
	t, ok := l.tokens[tok]
	if !ok {
		return new(big.Int)
	}
	return t.allowanceOf(owner, spender).ToBig()
}

// Approve sets the allowance of spender over owner's balance.
func (l *Ledger) Approve(tok, owner, spender common.Address, amount *big.Int) error {
	t, ok := l.tokens[tok]
	if !ok {
		return ErrUnknownToken
	}
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	l.setAllowance(t, owner, spender, v)
	l.emit(tok, "Approval", []common.Address{owner, spender}, v)
	return nil
}

// Transfer moves amount of tok from the caller to to.
func (l *Ledger) Transfer(tok, from, to common.Address, amount *big.Int) error {
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	return l.transfer(tok, from, to, v)
}

// TransferFrom moves amount of tok from from to to, spending the allowance
// granted to spender. An allowance of 2^256-1 is never decremented.
func (l *Ledger) TransferFrom(tok, spender, from, to common.Address, amount *big.Int) error {
	t, ok := l.tokens[tok]
	if !ok {
		return ErrUnknownToken
	}
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	if spender != from {
		allowed := t.allowanceOf(from, spender)
		if allowed.Lt(v) {
			return ErrInsufficientAllowance
		}
		if !allowed.Eq(maxUint256) {
			l.setAllowance(t, from, spender, new(uint256.Int).Sub(allowed, v))
		}
	}
	return l.transfer(tok, from, to, v)
}

var maxUint256 = new(uint256.Int).SetAllOne()

func (l *Ledger) transfer(tok, from, to common.Address, v *uint256.Int) error {
	t, ok := l.tokens[tok]
	if !ok {
		return ErrUnknownToken
	}
	bal := t.balanceOf(from)
	if bal.Lt(v) {
		return ErrInsufficientBalance
	}
	l.setBalance(t, from, new(uint256.Int).Sub(bal, v))
	l.setBalance(t, to, new(uint256.Int).Add(t.balanceOf(to), v))
	l.emit(tok, "Transfer", []common.Address{from, to}, v)
	return nil
}

func (l *Ledger) mint(tok, to common.Address, v *uint256.Int) error {
	t, ok := l.tokens[tok]
	if !ok {
		return ErrUnknownToken
	}
	supply, overflow := new(uint256.Int).AddOverflow(t.supply, v)
	if overflow {
		return ErrOverflow
	}
	l.setSupply(t, supply)
	l.setBalance(t, to, new(uint256.Int).Add(t.balanceOf(to), v))
	l.emit(tok, "Transfer", []common.Address{{}, to}, v)
	return nil
}

func (l *Ledger) burn(tok, from common.Address, v *uint256.Int) error {
	t, ok := l.tokens[tok]
	if !ok {
		return ErrUnknownToken
	}
	bal := t.balanceOf(from)
	if bal.Lt(v) {
		return ErrInsufficientBalance
	}
	l.setBalance(t, from, new(uint256.Int).Sub(bal, v))
	l.setSupply(t, new(uint256.Int).Sub(t.supply, v))
	l.emit(tok, "Transfer", []common.Address{from, {}}, v)
	return nil
}

// Deposit wraps amount of from's native asset into WETH.
func (l *Ledger) Deposit(from common.Address, amount *big.Int) error {
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	if err := l.moveNative(from, l.cfg.WETH, v); err != nil {
		return err
	}
	t := l.tokens[l.cfg.WETH]
	l.setSupply(t, new(uint256.Int).Add(t.supply, v))
	l.setBalance(t, from, new(uint256.Int).Add(t.balanceOf(from), v))
	l.emit(l.cfg.WETH, "Deposit", []common.Address{from}, v)
	return nil
}

// Withdraw unwraps amount of from's WETH back into native asset.
func (l *Ledger) Withdraw(from common.Address, amount *big.Int) error {
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	t := l.tokens[l.cfg.WETH]
	bal := t.balanceOf(from)
	if bal.Lt(v) {
		return ErrInsufficientBalance
	}
	l.setBalance(t, from, new(uint256.Int).Sub(bal, v))
	l.setSupply(t, new(uint256.Int).Sub(t.supply, v))
	if err := l.moveNative(l.cfg.WETH, from, v); err != nil {
		return err
	}
	l.emit(l.cfg.WETH, "Withdrawal", []common.Address{from}, v)
	return nil
}

func (t *token) balanceOf(owner common.Address) *uint256.Int {
	if v, ok := t.balances[owner]; ok {
		return v
	}
	return new(uint256.Int)
}

func (t *token) allowanceOf(owner, spender common.Address) *uint256.Int {
	if v, ok := t.allowances[[2]common.Address{owner, spender}]; ok {
		return v
	}
	return new(uint256.Int)
}

func (l *Ledger) setBalance(t *token, owner common.Address, v *uint256.Int) {
	prev, had := t.balances[owner]
	t.balances[owner] = v
	l.journal = append(l.journal, func() {
		if had {
			t.balances[owner] = prev
		} else {
			delete(t.balances, owner)
		}
	})
}

func (l *Ledger) setAllowance(t *token, owner, spender common.Address, v *uint256.Int) {
	key := [2]common.Address{owner, spender}
	prev, had := t.allowances[key]
	t.allowances[key] = v
	l.journal = append(l.journal, func() {
		if had {
			t.allowances[key] = prev
		} else {
			delete(t.allowances, key)
		}
	})
}

func (l *Ledger) setSupply(t *token, v *uint256.Int) {
	prev := t.supply
	t.supply = v
	l.journal = append(l.journal, func() { t.supply = prev })
}
