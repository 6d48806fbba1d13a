package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/compose-network/bmcp/x/chains"
)

// ResolveSelector turns a chain key ("sepolia") or a raw selector (decimal or
// 0x-hex) into a selector. Raw selectors are not required to be registered.
func ResolveSelector(reg *chains.Registry, chain string) (uint64, error) {
	chain = strings.TrimSpace(chain)
	if chain == "" {
		return 0, fmt.Errorf("empty chain")
	}
	if v, err := strconv.ParseUint(chain, 0, 64); err == nil {
		return v, nil
	}
	if e, ok := reg.ByKey(chain); ok {
		return e.Selector, nil
	}
	return 0, fmt.Errorf("%w: %s", chains.ErrUnknownChain, chain)
}

// EncodeFor resolves chain through reg, builds the command and encodes it.
func EncodeFor(reg *chains.Registry, chain, contract string, callData []byte, opts ...Option) ([]byte, error) {
	selector, err := ResolveSelector(reg, chain)
	if err != nil {
		return nil, err
	}
	c, err := New(selector, contract, callData, opts...)
	if err != nil {
		return nil, err
	}
	return Encode(c)
}
