// Package ledger is an in-memory stand-in for the contracts the router talks
// to: ERC-20 tokens, the WETH9 wrapper, the pair factory and the pairs
// themselves. Every mutation is journaled so a caller can take a snapshot
// and revert to it, which is how a failed router call leaves no trace.
//
// A Ledger is not safe for concurrent use.
package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// Config describes the deployment the ledger emulates.
type Config struct {
	Factory      common.Address
	InitCodeHash common.Hash
	WETH         common.Address
	Fee          uniswapv2.Fee
	// Time is the initial block timestamp.
	Time uint64
}

// Log is an emitted contract event. Addresses holds the indexed address
// arguments in declaration order and Values the amounts.
type Log struct {
	Contract  common.Address
	Event     string
	Addresses []common.Address
	Values    []*big.Int
}

type Ledger struct {
	cfg     Config
	time    uint64
	native  map[common.Address]*uint256.Int
	tokens  map[common.Address]*token
	pairs   map[common.Address]*pair
	byToken map[[2]common.Address]common.Address
	all     []common.Address
	logs    []Log
	journal []func()
}

// New returns an empty ledger with the WETH contract deployed.
func New(cfg Config) *Ledger {
	if cfg.Fee == (uniswapv2.Fee{}) {
		cfg.Fee = uniswapv2.DefaultFee
	}
	l := &Ledger{
		cfg:     cfg,
		time:    cfg.Time,
		native:  make(map[common.Address]*uint256.Int),
		tokens:  make(map[common.Address]*token),
		pairs:   make(map[common.Address]*pair),
		byToken: make(map[[2]common.Address]common.Address),
	}
	l.tokens[cfg.WETH] = newToken()
	return l
}

// Factory returns the emulated factory address.
func (l *Ledger) Factory() common.Address { return l.cfg.Factory }

// WETH returns the address of the wrapped native token.
func (l *Ledger) WETH() common.Address { return l.cfg.WETH }

// Time returns the current block timestamp.
func (l *Ledger) Time() uint64 { return l.time }

// SetTime moves the block timestamp. It is not journaled.
func (l *Ledger) SetTime(t uint64) { l.time = t }

// Snapshot returns an identifier for the current state.
func (l *Ledger) Snapshot() int { return len(l.journal) }

// RevertToSnapshot undoes every mutation made after the snapshot was taken.
func (l *Ledger) RevertToSnapshot(id int) {
	for len(l.journal) > id {
		undo := l.journal[len(l.journal)-1]
		l.journal = l.journal[:len(l.journal)-1]
		undo()
	}
}

// Logs returns the events emitted so far.
func (l *Ledger) Logs() []Log {
	out := make([]Log, len(l.logs))
	copy(out, l.logs)
	return out
}

func (l *Ledger) emit(contract common.Address, event string, addrs []common.Address, values ...*uint256.Int) {
	entry := Log{Contract: contract, Event: event, Addresses: addrs}
	for _, v := range values {
		entry.Values = append(entry.Values, v.ToBig())
	}
	n := len(l.logs)
	l.logs = append(l.logs, entry)
	l.journal = append(l.journal, func() { l.logs = l.logs[:n] })
}

// NativeBalance returns the native-asset balance of addr.
func (l *Ledger) NativeBalance(addr common.Address) *big.Int {
	return l.nativeOf(addr).ToBig()
}

// FundNative credits addr with native asset out of thin air, the way a
// genesis allocation would.
func (l *Ledger) FundNative(addr common.Address, amount *big.Int) error {
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(l.nativeOf(addr), v)
	if overflow {
		return ErrOverflow
	}
	l.setNative(addr, sum)
	return nil
}

// TransferNative moves native asset between accounts.
func (l *Ledger) TransferNative(from, to common.Address, amount *big.Int) error {
	v, err := toU256(amount)
	if err != nil {
		return err
	}
	return l.moveNative(from, to, v)
}

func (l *Ledger) moveNative(from, to common.Address, v *uint256.Int) error {
	bal := l.nativeOf(from)
	if bal.Lt(v) {
		return ErrInsufficientBalance
	}
	l.setNative(from, new(uint256.Int).Sub(bal, v))
	l.setNative(to, new(uint256.Int).Add(l.nativeOf(to), v))
	return nil
}

func (l *Ledger) nativeOf(addr common.Address) *uint256.Int {
	if v, ok := l.native[addr]; ok {
		return v
	}
	return new(uint256.Int)
}

func (l *Ledger) setNative(addr common.Address, v *uint256.Int) {
	prev, had := l.native[addr]
	l.native[addr] = v
	l.journal = append(l.journal, func() {
		if had {
			l.native[addr] = prev
		} else {
			delete(l.native, addr)
		}
	})
}

func toU256(x *big.Int) (*uint256.Int, error) {
	if x == nil {
		return new(uint256.Int), nil
	}
	if x.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	v, overflow := uint256.FromBig(x)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}
