package uniswapv2

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Canonical Ethereum mainnet deployment.
var (
	MainnetFactory      = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	MainnetInitCodeHash = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
	MainnetWETH         = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

// DefaultMaxPathLength bounds the number of tokens in a routed path.
const DefaultMaxPathLength = 8

// ReserveReader reads the stored (reserve0, reserve1) of a pair, in the
// pair's canonical token order.
type ReserveReader interface {
	GetReserves(ctx context.Context, pair common.Address) (reserve0, reserve1 *big.Int, err error)
}

// Reserves are the reserves of one hop, oriented in the direction of the
// trade.
type Reserves struct {
	Pair common.Address
	In   *big.Int
	Out  *big.Int
}

// SortTokens returns the pair members in ascending byte order.
func SortTokens(tokenA, tokenB common.Address) (token0, token1 common.Address, err error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, ErrIdenticalAddresses
	}
	token0, token1 = tokenA, tokenB
	if tokenB.Cmp(tokenA) < 0 {
		token0, token1 = tokenB, tokenA
	}
	if token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, ErrZeroAddress
	}
	return token0, token1, nil
}

// PairFor derives the CREATE2 address of the pair for tokenA and tokenB
// without any chain access.
func PairFor(factory common.Address, initCodeHash common.Hash, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := crypto.Keccak256Hash(token0.Bytes(), token1.Bytes())
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes()), nil
}

// Resolver maps token pairs to pools of one factory deployment and reads
// their reserves. It is the path-walking entry point of the package.
type Resolver struct {
	factory       common.Address
	initCodeHash  common.Hash
	reader        ReserveReader
	maxPathLength int
}

// NewResolver returns a Resolver for the given deployment. A maxPathLength
// below 2 selects DefaultMaxPathLength.
func NewResolver(factory common.Address, initCodeHash common.Hash, reader ReserveReader, maxPathLength int) *Resolver {
	if maxPathLength < 2 {
		maxPathLength = DefaultMaxPathLength
	}
	return &Resolver{
		factory:       factory,
		initCodeHash:  initCodeHash,
		reader:        reader,
		maxPathLength: maxPathLength,
	}
}

// Factory returns the factory address pools are derived from.
func (r *Resolver) Factory() common.Address { return r.factory }

// InitCodeHash returns the pair init code hash used for derivation.
func (r *Resolver) InitCodeHash() common.Hash { return r.initCodeHash }

// MaxPathLength returns the longest accepted path.
func (r *Resolver) MaxPathLength() int { return r.maxPathLength }

// ResolvePool returns the pool address for the unordered pair (x, y).
func (r *Resolver) ResolvePool(x, y common.Address) (common.Address, error) {
	return PairFor(r.factory, r.initCodeHash, x, y)
}

// ReservesFor fetches the reserves of the (in, out) pool and orients them
// for a trade from in to out.
func (r *Resolver) ReservesFor(ctx context.Context, in, out common.Address) (Reserves, error) {
	token0, _, err := SortTokens(in, out)
	if err != nil {
		return Reserves{}, err
	}
	pair, err := r.ResolvePool(in, out)
	if err != nil {
		return Reserves{}, err
	}
	reserve0, reserve1, err := r.reader.GetReserves(ctx, pair)
	if err != nil {
		return Reserves{}, fmt.Errorf("reserves of %s: %w", pair.Hex(), err)
	}
	if in == token0 {
		return Reserves{Pair: pair, In: reserve0, Out: reserve1}, nil
	}
	return Reserves{Pair: pair, In: reserve1, Out: reserve0}, nil
}

// ValidatePath checks the shape of a path: at least two tokens, at most the
// configured maximum, and no hop from a token to itself.
func (r *Resolver) ValidatePath(path []common.Address) error {
	if len(path) < 2 {
		return ErrInvalidPath
	}
	if len(path) > r.maxPathLength {
		return fmt.Errorf("%w: %d tokens, limit %d", ErrPathTooLong, len(path), r.maxPathLength)
	}
	for i := 0; i < len(path)-1; i++ {
		if path[i] == path[i+1] {
			return fmt.Errorf("hop %d: %w", i, ErrIdenticalAddresses)
		}
	}
	return nil
}
