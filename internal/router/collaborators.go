package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lmnop/uniswap-v2-periphery/pkg/uniswapv2"
)

// Tokens is the ERC-20 surface the router moves funds through. Pair
// liquidity tokens are ERC-20s too.
type Tokens interface {
	Transfer(token, from, to common.Address, amount *big.Int) error
	TransferFrom(token, spender, from, to common.Address, amount *big.Int) error
}

// Wrapper converts between the native asset and its ERC-20 form.
type Wrapper interface {
	Deposit(from common.Address, amount *big.Int) error
	Withdraw(from common.Address, amount *big.Int) error
	TransferNative(from, to common.Address, amount *big.Int) error
}

// Factory looks up and deploys pairs.
type Factory interface {
	GetPair(tokenA, tokenB common.Address) (common.Address, bool)
	CreatePair(tokenA, tokenB common.Address) (common.Address, error)
}

// Pairs performs the low-level pair bookkeeping. sender is the account
// invoking the pair, which is always the router.
type Pairs interface {
	uniswapv2.ReserveReader
	Mint(pair, sender, to common.Address) (*big.Int, error)
	Burn(pair, sender, to common.Address) (amount0, amount1 *big.Int, err error)
	Swap(pair, sender common.Address, amount0Out, amount1Out *big.Int, to common.Address) error
}

// Chain exposes the block clock and the journal used to undo a failed call.
type Chain interface {
	Time() uint64
	Snapshot() int
	RevertToSnapshot(id int)
}

// State is everything the router needs from the outside world.
type State interface {
	Tokens
	Wrapper
	Factory
	Pairs
	Chain
}
