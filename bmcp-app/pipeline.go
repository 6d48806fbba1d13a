package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/compose-network/bmcp/bmcp-app/config"
	"github.com/compose-network/bmcp/x/bridge"
	"github.com/compose-network/bmcp/x/chains"
	"github.com/compose-network/bmcp/x/validate"
)

// pipeline is the encode/decode stack shared by the server and the CLI.
type pipeline struct {
	chains  *chains.Registry
	encoder *bridge.Encoder
	decoder *bridge.Decoder
}

// loadChains merges built-in entries, the registry file and inline entries.
func loadChains(cfg config.ChainsConfig) (*chains.Registry, error) {
	var entries []chains.Entry
	if cfg.IncludeDefaults {
		entries = append(entries, chains.DefaultEntries()...)
	}
	if path := strings.TrimSpace(cfg.RegistryFile); path != "" {
		reg, err := chains.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load chain registry: %w", err)
		}
		entries = append(entries, reg.Entries()...)
	}
	entries = append(entries, cfg.Entries...)

	reg, err := chains.New(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid chain registry: %w", err)
	}
	return reg, nil
}

// newPipeline builds the encoder and decoder. A nil m disables metrics.
func newPipeline(cfg *config.Config, m *bridge.Metrics, log zerolog.Logger) (*pipeline, error) {
	reg, err := loadChains(cfg.Chains)
	if err != nil {
		return nil, err
	}

	v := validate.New(validate.WithDeadlineCheck(cfg.Validation.CheckDeadline))

	return &pipeline{
		chains:  reg,
		encoder: bridge.NewEncoder(reg, v, m, log.With().Str("component", "encoder").Logger()),
		decoder: bridge.NewDecoder(reg, v, m, log.With().Str("component", "decoder").Logger()),
	}, nil
}
