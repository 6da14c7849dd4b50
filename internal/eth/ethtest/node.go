// Package ethtest provides an in-process fake Ethereum node serving pair
// storage over JSON-RPC.
package ethtest

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Node holds contract storage keyed by address and slot.
type Node struct {
	mu          sync.Mutex
	blockNumber uint64
	// storage[address][positionHash] = 32-byte value
	storage map[common.Address]map[common.Hash][]byte
	// Fail, when set, is returned by every storage read.
	Fail error
}

func NewNode(blockNumber uint64) *Node {
	return &Node{blockNumber: blockNumber, storage: make(map[common.Address]map[common.Hash][]byte)}
}

// SetSlot stores a raw 32-byte word.
func (n *Node) SetSlot(addr common.Address, slot uint64, value []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.storage[addr] == nil {
		n.storage[addr] = make(map[common.Hash][]byte)
	}
	n.storage[addr][common.BigToHash(new(big.Int).SetUint64(slot))] = value
}

// SetPair lays out a UniswapV2Pair's storage.
func (n *Node) SetPair(pair, token0, token1 common.Address, reserve0, reserve1, totalSupply *big.Int) {
	n.SetSlot(pair, 0, U256Bytes(totalSupply))
	n.SetSlot(pair, 6, RightPadAddress(token0))
	n.SetSlot(pair, 7, RightPadAddress(token1))
	n.SetSlot(pair, 8, PackReserves(reserve0, reserve1, 0))
}

// Client dials the node in-process.
func (n *Node) Client(t testing.TB) *ethclient.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	// Register under the standard "eth" namespace so methods map to eth_*
	if err := srv.RegisterName("eth", &api{n: n}); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	c := ethclient.NewClient(gethrpc.DialInProc(srv))
	t.Cleanup(func() {
		c.Close()
		srv.Stop()
	})
	return c
}

type api struct{ n *Node }

func (a *api) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	a.n.mu.Lock()
	defer a.n.mu.Unlock()
	return hexutil.Uint64(a.n.blockNumber), nil
}

func (a *api) GetStorageAt(ctx context.Context, addr common.Address, position common.Hash, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	a.n.mu.Lock()
	defer a.n.mu.Unlock()
	if a.n.Fail != nil {
		return nil, a.n.Fail
	}
	if m, ok := a.n.storage[addr]; ok {
		if v, ok2 := m[position]; ok2 {
			return hexutil.Bytes(v), nil
		}
	}
	// default empty 32 bytes
	return hexutil.Bytes(make([]byte, 32)), nil
}

func U256Bytes(v *big.Int) []byte {
	out := make([]byte, 32)
	if v == nil {
		return out
	}
	b := v.Bytes()
	if len(b) > 32 {
		panic("value does not fit in 32 bytes")
	}
	copy(out[32-len(b):], b)
	return out
}

func PackReserves(r0, r1 *big.Int, ts uint32) []byte {
	v := new(big.Int).SetUint64(uint64(ts))
	v.Lsh(v, 112)
	v.Or(v, r1)
	v.Lsh(v, 112)
	v.Or(v, r0)
	return U256Bytes(v)
}

func RightPadAddress(addr common.Address) []byte {
	// Address is right-aligned in 32 bytes when read from storage
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out
}
