// Package access gates router entry points behind an administrator-owned
// whitelist.
package access

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNotWhitelisted = errors.New("caller is not whitelisted")
	ErrNotAdmin       = errors.New("caller is not the whitelist administrator")
)

// Whitelist is a set of addresses allowed to call state-changing router
// entry points. Gating is off until the administrator first installs a set.
type Whitelist struct {
	mu      sync.RWMutex
	admin   common.Address
	enabled bool
	members map[common.Address]struct{}
}

func NewWhitelist(admin common.Address) *Whitelist {
	return &Whitelist{admin: admin, members: make(map[common.Address]struct{})}
}

// Admin returns the only address allowed to change the set.
func (w *Whitelist) Admin() common.Address { return w.admin }

func (w *Whitelist) Enabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.enabled
}

// IsWhitelisted reports whether addr is a member. Every address is a member
// while gating is off.
func (w *Whitelist) IsWhitelisted(addr common.Address) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.enabled {
		return true
	}
	_, ok := w.members[addr]
	return ok
}

// Check returns ErrNotWhitelisted when addr may not call the router.
func (w *Whitelist) Check(addr common.Address) error {
	if !w.IsWhitelisted(addr) {
		return ErrNotWhitelisted
	}
	return nil
}

// EnableWhitelist replaces the member set with addrs and turns gating on.
// An empty addrs leaves gating on with nobody allowed.
func (w *Whitelist) EnableWhitelist(caller common.Address, addrs []common.Address) error {
	if caller != w.admin {
		return ErrNotAdmin
	}
	members := make(map[common.Address]struct{}, len(addrs))
	for _, a := range addrs {
		members[a] = struct{}{}
	}

	w.mu.Lock()
	w.members = members
	w.enabled = true
	w.mu.Unlock()
	return nil
}

// Members returns the current set in no particular order.
func (w *Whitelist) Members() []common.Address {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]common.Address, 0, len(w.members))
	for a := range w.members {
		out = append(out, a)
	}
	return out
}
