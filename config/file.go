package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	case "node.apihost":
		cfg.Node.APIHost = value
	case "node.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Node.Timeout = d

	case "signer.endpoint":
		cfg.Signer.Endpoint = value
	case "signer.keyname":
		cfg.Signer.KeyName = value
	case "signer.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Signer.Timeout = d

	case "rpc.enabled", "rpc":
		cfg.RPC.Enabled = parseBool(value)
	case "rpc.addr":
		cfg.RPC.Addr = value
	case "rpc.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Port = port

	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file for network.
func WriteDefaultConfig(path string, network NetworkType) error {
	def := DefaultMainnet()
	if network == Testnet {
		def = DefaultTestnet()
	}

	content := `# HRC-20 engine configuration
#
# Network prefix, node API host, and signer key name are constants at
# boot (spec.md §6, "Environment").

network = ` + string(network) + `

# Data directory (pending-reveal registry lives under datadir/<network>/registry)
# datadir = ~/.hrc20engine

# ============================================================================
# Node HTTP API
# ============================================================================

node.apihost = ` + def.Node.APIHost + `
node.timeout = ` + def.Node.Timeout.String() + `

# ============================================================================
# Remote signer
# ============================================================================

signer.endpoint = ` + def.Signer.Endpoint + `
signer.keyname = ` + def.Signer.KeyName + `
signer.timeout = ` + def.Signer.Timeout.String() + `

# ============================================================================
# Operator JSON-RPC surface
# ============================================================================

rpc.enabled = true
rpc.addr = ` + def.RPC.Addr + `
rpc.port = ` + strconv.Itoa(def.RPC.Port) + `

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
