// Package config handles engine configuration: network parameters, the
// node API and remote-signer endpoints, storage location, and logging
// (spec.md §6, "Environment").
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// HRP returns the address human-readable prefix for the network, per
// spec.md §3 ("hoosat" / "hoosattest").
func (n NetworkType) HRP() string {
	if n == Testnet {
		return "hoosattest"
	}
	return "hoosat"
}

// Config holds this engine's runtime configuration. Network prefix, API
// host, and signer key name are constants at boot (spec.md §6,
// "Environment").
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Node HTTP API consumed for UTXO lookup and broadcast (spec.md §6).
	Node NodeConfig

	// Remote signer consumed for ECDSA/Schnorr signatures (spec.md §4.7).
	Signer SignerConfig

	// Operator JSON-RPC surface this engine exposes (spec.md §6).
	RPC RPCConfig

	// Logging
	Log LogConfig
}

// NodeConfig holds the chain node's HTTP API location and timeouts.
type NodeConfig struct {
	APIHost string        `conf:"node.apihost"`
	Timeout time.Duration `conf:"node.timeout"`
}

// SignerConfig holds the remote signer's location and the key name this
// engine signs under.
type SignerConfig struct {
	Endpoint string        `conf:"signer.endpoint"`
	KeyName  string        `conf:"signer.keyname"`
	Timeout  time.Duration `conf:"signer.timeout"`
}

// RPCConfig holds the operator JSON-RPC server's bind settings.
type RPCConfig struct {
	Enabled bool   `conf:"rpc.enabled"`
	Addr    string `conf:"rpc.addr"`
	Port    int    `conf:"rpc.port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.hrc20engine
//	macOS:   ~/Library/Application Support/hrc20engine
//	Windows: %APPDATA%\hrc20engine
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hrc20engine"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "hrc20engine")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "hrc20engine")
		}
		return filepath.Join(home, "AppData", "Roaming", "hrc20engine")
	default:
		return filepath.Join(home, ".hrc20engine")
	}
}

// ChainDataDir returns the network-specific data directory.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// RegistryDir returns the pending-reveal registry's Badger directory.
func (c *Config) RegistryDir() string {
	return filepath.Join(c.ChainDataDir(), "registry")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "hrc20engine.conf")
}

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			APIHost: "https://api.hoosat.fi",
			Timeout: 10 * time.Second,
		},
		Signer: SignerConfig{
			Endpoint: "http://127.0.0.1:9090",
			KeyName:  "hrc20-default",
			Timeout:  5 * time.Second,
		},
		RPC: RPCConfig{
			Enabled: true,
			Addr:    "127.0.0.1",
			Port:    8645,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	c := DefaultMainnet()
	c.Network = Testnet
	c.Node.APIHost = "https://api-tn10.hoosat.fi"
	c.RPC.Port = 8646
	return c
}
