// Package chains holds the read-only table of destination chains a payload
// may be routed to. The table is built once at start-up and never mutated.
package chains

import (
	"errors"
	"fmt"
	"strings"
)

// BitcoinSelector identifies Bitcoin as the source chain ("BITCOIN" in ASCII).
const BitcoinSelector uint64 = 0x424954434f494e

// Entry describes a single destination chain.
type Entry struct {
	Key      string `yaml:"key"      json:"key"      mapstructure:"key"`
	Name     string `yaml:"name"     json:"name"     mapstructure:"name"`
	ChainID  uint64 `yaml:"chain_id" json:"chain_id" mapstructure:"chain_id"`
	Selector uint64 `yaml:"selector" json:"selector,string" mapstructure:"selector"`
	RPCURL   string `yaml:"rpc_url"  json:"rpc_url"  mapstructure:"rpc_url"`
}

// Registry is an immutable chain table. Lookups are exact-match linear scans;
// the table is expected to stay small.
type Registry struct {
	entries []Entry
}

// New builds a registry from entries. Selectors and keys must be unique.
func New(entries []Entry) (*Registry, error) {
	out := make([]Entry, 0, len(entries))
	seenSel := make(map[uint64]string, len(entries))
	seenKey := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		e.Key = strings.ToUpper(strings.TrimSpace(e.Key))
		if e.Key == "" {
			return nil, fmt.Errorf("chain entry %d has empty key", i)
		}
		if _, dup := seenKey[e.Key]; dup {
			return nil, fmt.Errorf("duplicate chain key %s", e.Key)
		}
		if other, dup := seenSel[e.Selector]; dup {
			return nil, fmt.Errorf("chain %s reuses selector %d of %s", e.Key, e.Selector, other)
		}
		seenKey[e.Key] = struct{}{}
		seenSel[e.Selector] = e.Key
		out = append(out, e)
	}
	return &Registry{entries: out}, nil
}

// BySelector returns the entry routed by selector.
func (r *Registry) BySelector(selector uint64) (Entry, bool) {
	for _, e := range r.entries {
		if e.Selector == selector {
			return e, true
		}
	}
	return Entry{}, false
}

// ByChainID returns the entry with the given native chain id.
func (r *Registry) ByChainID(id uint64) (Entry, bool) {
	for _, e := range r.entries {
		if e.ChainID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// ByKey returns the entry with the given key, ignoring case.
func (r *Registry) ByKey(key string) (Entry, bool) {
	key = strings.ToUpper(strings.TrimSpace(key))
	for _, e := range r.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the table in declaration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// ErrUnknownChain is returned by callers that require a registry hit.
var ErrUnknownChain = errors.New("unknown chain")
