package chains

import (
	"os"
	"path/filepath"
	"testing"

	sel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_KnownSelectors(t *testing.T) {
	t.Parallel()

	r := Default()
	tests := []struct {
		key      string
		chainID  uint64
		selector uint64
	}{
		{"SEPOLIA", 11155111, 16015286601757825753},
		{"BASE", 8453, 15971525489660198786},
		{"BASE_SEPOLIA", 84532, 10344971235874465080},
		{"POLYGON", 137, 4051577828743386545},
		{"POLYGON_AMOY", 80002, 16281711391670634445},
		{"ARBITRUM", 42161, 4949039107694359620},
		{"OPTIMISM", 10, 3734403246176062136},
		{"CITREA", 5115, 0x4349545245410000},
		{"CITREA_TESTNET", 62298, 0x4349545245415400},
	}

	require.Equal(t, len(tests), r.Len())
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			e, ok := r.BySelector(tt.selector)
			require.True(t, ok)
			assert.Equal(t, tt.key, e.Key)
			assert.Equal(t, tt.chainID, e.ChainID)

			byID, ok := r.ByChainID(tt.chainID)
			require.True(t, ok)
			assert.Equal(t, e, byID)
		})
	}
}

func TestDefault_MatchesPublishedSelectors(t *testing.T) {
	t.Parallel()

	for _, e := range Default().Entries() {
		if e.Selector == CitreaSelector || e.Selector == CitreaTestnetSelector {
			continue
		}
		id, err := sel.ChainIdFromSelector(e.Selector)
		require.NoError(t, err, e.Key)
		assert.Equal(t, e.ChainID, id, e.Key)
	}
}

func TestRegistry_Miss(t *testing.T) {
	t.Parallel()

	r := Default()
	_, ok := r.BySelector(0)
	assert.False(t, ok)
	_, ok = r.ByChainID(1)
	assert.False(t, ok)
	_, ok = r.ByKey("dogechain")
	assert.False(t, ok)
}

func TestRegistry_ByKeyIgnoresCase(t *testing.T) {
	t.Parallel()

	e, ok := Default().ByKey(" base_sepolia ")
	require.True(t, ok)
	assert.Equal(t, "Base Sepolia", e.Name)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := New([]Entry{{Key: "A", Selector: 1}, {Key: "B", Selector: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reuses selector")

	_, err = New([]Entry{{Key: "a", Selector: 1}, {Key: "A", Selector: 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate chain key")

	_, err = New([]Entry{{Selector: 1}})
	require.Error(t, err)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	t.Parallel()

	r := Default()
	es := r.Entries()
	es[0].Key = "MUTATED"
	e, ok := r.BySelector(es[0].Selector)
	require.True(t, ok)
	assert.NotEqual(t, "MUTATED", e.Key)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chains.yaml")
	body := `chains:
  - key: devnet
    name: Local Devnet
    chain_id: 1337
    selector: 42
    rpc_url: http://localhost:8545
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)
	e, ok := r.BySelector(42)
	require.True(t, ok)
	assert.Equal(t, Entry{Key: "DEVNET", Name: "Local Devnet", ChainID: 1337, Selector: 42, RPCURL: "http://localhost:8545"}, e)

	_, err = Parse([]byte("chains: []"))
	require.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
