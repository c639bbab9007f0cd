package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named network profile: which chain to classify against and
// which runtime binary to host.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Network  string `yaml:"network" json:"network"`
	Core     Core   `yaml:"core" json:"core"`
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// Core configures the runtime binary a profile hosts.
type Core struct {
	WasmPath string `yaml:"wasm_path,omitempty" json:"wasm_path,omitempty"`
}

var validNetworks = map[string]bool{
	"mainnet": true,
	"testnet": true,
	"signet":  true,
	"regtest": true,
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &p, nil
}

// Validate checks profile invariants.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if !validNetworks[p.Network] {
		return fmt.Errorf("unknown network %q", p.Network)
	}
	return nil
}

// Apply overlays the profile onto cfg. Environment values already set on
// cfg win over profile values only for the log level; network and core
// selection follow the profile.
func (p *Profile) Apply(cfg *Config) {
	cfg.Network = p.Network
	if p.Core.WasmPath != "" {
		cfg.CoreWasmPath = p.Core.WasmPath
	}
	if p.LogLevel != "" && cfg.LogLevel == "INFO" {
		cfg.LogLevel = p.LogLevel
	}
}
