package chains

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileTable is the on-disk layout of a chain metadata file.
type fileTable struct {
	Chains []Entry `yaml:"chains"`
}

// LoadFile reads a YAML chain table and builds a registry from it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chain table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML bytes.
func Parse(data []byte) (*Registry, error) {
	var t fileTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse chain table: %w", err)
	}
	if len(t.Chains) == 0 {
		return nil, fmt.Errorf("chain table has no entries")
	}
	return New(t.Chains)
}
