package chains

import (
	sel "github.com/smartcontractkit/chain-selectors"
)

// Citrea is not part of the messaging network's selector set; its selectors
// are the ASCII tags "CITREA\x00\x00" and "CITREAT\x00".
const (
	CitreaSelector        uint64 = 0x4349545245410000
	CitreaTestnetSelector uint64 = 0x4349545245415400
)

// DefaultEntries returns the built-in chain table.
func DefaultEntries() []Entry {
	return []Entry{
		fromSelectors("SEPOLIA", "Sepolia", sel.ETHEREUM_TESTNET_SEPOLIA, "https://sepolia.infura.io/v3/"),
		fromSelectors("BASE", "Base", sel.ETHEREUM_MAINNET_BASE_1, "https://mainnet.base.org"),
		fromSelectors("BASE_SEPOLIA", "Base Sepolia", sel.ETHEREUM_TESTNET_SEPOLIA_BASE_1, "https://sepolia.base.org"),
		fromSelectors("POLYGON", "Polygon", sel.POLYGON_MAINNET, "https://polygon-rpc.com"),
		fromSelectors("POLYGON_AMOY", "Polygon Amoy", sel.POLYGON_TESTNET_AMOY, "https://rpc-amoy.polygon.technology"),
		fromSelectors("ARBITRUM", "Arbitrum One", sel.ETHEREUM_MAINNET_ARBITRUM_1, "https://arb1.arbitrum.io/rpc"),
		fromSelectors("OPTIMISM", "Optimism", sel.ETHEREUM_MAINNET_OPTIMISM_1, "https://mainnet.optimism.io"),
		{Key: "CITREA", Name: "Citrea", ChainID: 5115, Selector: CitreaSelector, RPCURL: "https://rpc.mainnet.citrea.xyz"},
		{Key: "CITREA_TESTNET", Name: "Citrea Testnet", ChainID: 62298, Selector: CitreaTestnetSelector, RPCURL: "https://rpc.testnet.citrea.xyz"},
	}
}

func fromSelectors(key, name string, c sel.Chain, rpcURL string) Entry {
	return Entry{Key: key, Name: name, ChainID: c.EvmChainID, Selector: c.Selector, RPCURL: rpcURL}
}

var defaultRegistry = mustDefault()

func mustDefault() *Registry {
	r, err := New(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the process-wide built-in registry.
func Default() *Registry {
	return defaultRegistry
}
