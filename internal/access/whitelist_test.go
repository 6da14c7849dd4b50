package access_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/lmnop/uniswap-v2-periphery/internal/access"
)

var (
	admin = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func TestDisabledAllowsEveryone(t *testing.T) {
	w := access.NewWhitelist(admin)
	require.False(t, w.Enabled())
	require.True(t, w.IsWhitelisted(alice))
	require.NoError(t, w.Check(bob))
}

func TestEnableWhitelist(t *testing.T) {
	w := access.NewWhitelist(admin)

	require.ErrorIs(t, w.EnableWhitelist(alice, []common.Address{alice}), access.ErrNotAdmin)
	require.False(t, w.Enabled())

	require.NoError(t, w.EnableWhitelist(admin, []common.Address{alice}))
	require.True(t, w.Enabled())
	require.True(t, w.IsWhitelisted(alice))
	require.ErrorIs(t, w.Check(bob), access.ErrNotWhitelisted)

	// Replacement, not union.
	require.NoError(t, w.EnableWhitelist(admin, []common.Address{bob}))
	require.False(t, w.IsWhitelisted(alice))
	require.True(t, w.IsWhitelisted(bob))
	require.ElementsMatch(t, []common.Address{bob}, w.Members())

	require.NoError(t, w.EnableWhitelist(admin, nil))
	require.True(t, w.Enabled())
	require.False(t, w.IsWhitelisted(bob))
}
