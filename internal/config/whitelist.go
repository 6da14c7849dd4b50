package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/lmnop/uniswap-v2-periphery/internal/access"
)

// WhitelistFile is the on-disk form of the router whitelist:
//
//	admin: "0x..."
//	addresses:
//	  - "0x..."
type WhitelistFile struct {
	Admin     string   `yaml:"admin"`
	Addresses []string `yaml:"addresses"`
}

// LoadWhitelist builds the whitelist described by the YAML file at path.
// An empty path yields nil, which leaves the router open. A file with no
// addresses configures the admin but keeps gating off.
func LoadWhitelist(path string) (*access.Whitelist, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	var f WhitelistFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse whitelist %s: %w", path, err)
	}
	if !common.IsHexAddress(f.Admin) {
		return nil, fmt.Errorf("%w: whitelist admin %q", ErrInvalidAddress, f.Admin)
	}
	admin := common.HexToAddress(f.Admin)

	wl := access.NewWhitelist(admin)
	if len(f.Addresses) == 0 {
		return wl, nil
	}
	members := make([]common.Address, 0, len(f.Addresses))
	for _, a := range f.Addresses {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("%w: whitelist member %q", ErrInvalidAddress, a)
		}
		members = append(members, common.HexToAddress(a))
	}
	if err := wl.EnableWhitelist(admin, members); err != nil {
		return nil, err
	}
	return wl, nil
}
