// Package config loads citadelkit configuration from environment
// variables and optional YAML network profiles.
package config

import "os"

// Config holds kit configuration.
type Config struct {
	Network      string
	CoreWasmPath string
	LogLevel     string
	ProfilePath  string
}

// Load loads configuration from environment variables. An empty
// CoreWasmPath selects the embedded core.
func Load() *Config {
	network := os.Getenv("CITADEL_NETWORK")
	if network == "" {
		network = "mainnet"
	}

	logLevel := os.Getenv("CITADEL_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	return &Config{
		Network:      network,
		CoreWasmPath: os.Getenv("CITADEL_CORE_WASM"),
		LogLevel:     logLevel,
		ProfilePath:  os.Getenv("CITADEL_PROFILE"),
	}
}
