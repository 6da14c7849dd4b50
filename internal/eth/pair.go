package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Storage layout of UniswapV2Pair (UniswapV2ERC20 fields first):
//
//	slot 0  totalSupply
//	slot 6  token0
//	slot 7  token1
//	slot 8  reserve0 | reserve1 | blockTimestampLast
const (
	slotTotalSupply = 0
	slotToken0      = 6
	slotToken1      = 7
	slotReserves    = 8
)

// StorageClient is the subset of ethclient.Client the pair reader needs.
type StorageClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

// PairState is everything read from one pair contract.
type PairState struct {
	Pair        common.Address
	Token0      common.Address
	Token1      common.Address
	Reserve0    *big.Int
	Reserve1    *big.Int
	TotalSupply *big.Int
}

// Deployed reports whether the storage looks like an initialised pair.
func (s PairState) Deployed() bool {
	return s.Token0 != (common.Address{}) && s.Token1 != (common.Address{})
}

// PairReader reads pair contracts straight from storage, skipping ABI
// calls. A nil block reads the latest state.
type PairReader struct {
	client StorageClient
	block  *big.Int
}

func NewPairReader(client StorageClient) *PairReader {
	return &PairReader{client: client}
}

// Latest pins a reader to the current head so that several reads observe
// the same state.
func (p *PairReader) Latest(ctx context.Context) (*PairReader, error) {
	bn, err := p.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	return p.AtBlock(new(big.Int).SetUint64(bn)), nil
}

// AtBlock returns a reader pinned to block.
func (p *PairReader) AtBlock(block *big.Int) *PairReader {
	return &PairReader{client: p.client, block: block}
}

// Block returns the pinned block, or nil for latest.
func (p *PairReader) Block() *big.Int { return p.block }

// GetReserves implements uniswapv2.ReserveReader.
func (p *PairReader) GetReserves(ctx context.Context, pair common.Address) (reserve0, reserve1 *big.Int, err error) {
	b, err := p.readSlot(ctx, pair, slotReserves)
	if err != nil {
		return nil, nil, err
	}
	reserve0, reserve1 = parseReserves(b)
	return reserve0, reserve1, nil
}

// Tokens reads token0 and token1.
func (p *PairReader) Tokens(ctx context.Context, pair common.Address) (common.Address, common.Address, error) {
	b0, err := p.readSlot(ctx, pair, slotToken0)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	b1, err := p.readSlot(ctx, pair, slotToken1)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	return common.BytesToAddress(b0), common.BytesToAddress(b1), nil
}

// TotalSupply reads the supply of the pair's liquidity token.
func (p *PairReader) TotalSupply(ctx context.Context, pair common.Address) (*big.Int, error) {
	b, err := p.readSlot(ctx, pair, slotTotalSupply)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// State reads tokens, reserves and supply of pair.
func (p *PairReader) State(ctx context.Context, pair common.Address) (PairState, error) {
	token0, token1, err := p.Tokens(ctx, pair)
	if err != nil {
		return PairState{}, err
	}
	reserve0, reserve1, err := p.GetReserves(ctx, pair)
	if err != nil {
		return PairState{}, err
	}
	supply, err := p.TotalSupply(ctx, pair)
	if err != nil {
		return PairState{}, err
	}
	return PairState{
		Pair:        pair,
		Token0:      token0,
		Token1:      token1,
		Reserve0:    reserve0,
		Reserve1:    reserve1,
		TotalSupply: supply,
	}, nil
}

func (p *PairReader) readSlot(ctx context.Context, pair common.Address, slot uint64) ([]byte, error) {
	key := common.BigToHash(new(big.Int).SetUint64(slot))
	b, err := p.client.StorageAt(ctx, pair, key, p.block)
	if err != nil {
		return nil, fmt.Errorf("storageAt slot %d (pair %s, block %v): %w", slot, pair.Hex(), p.block, err)
	}
	return b, nil
}

// parseReserves unpacks two uint112 reserves from the 32-byte storage word
// used by Uniswap V2 pairs. The layout is:
//
//	[ 32 bits timestamp | 112 bits reserve1 | 112 bits reserve0 ]
//
// Values are treated as big-endian within the 256-bit word.
func parseReserves(b []byte) (reserve0, reserve1 *big.Int) {
	v := new(big.Int).SetBytes(b)
	mask112 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))

	reserve0 = new(big.Int).And(v, mask112)
	reserve1 = new(big.Int).And(new(big.Int).Rsh(v, 112), mask112)
	return
}
