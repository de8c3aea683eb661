// hrc20engined is the HRC-20 commit/reveal engine daemon: it wires the
// remote signer, the chain node client, the persistent pending-reveal
// registry, and the operation orchestrator behind the operator JSON-RPC
// surface (spec.md §6).
//
// Usage:
//
//	hrc20engined [--network mainnet|testnet] [--datadir <path>]
//	hrc20engined --help
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoosat-labs/hrc20-engine/config"
	"github.com/hoosat-labs/hrc20-engine/internal/nodeclient"
	"github.com/hoosat-labs/hrc20-engine/internal/obslog"
	"github.com/hoosat-labs/hrc20-engine/internal/orchestrator"
	"github.com/hoosat-labs/hrc20-engine/internal/registry"
	"github.com/hoosat-labs/hrc20-engine/internal/rpc"
	"github.com/hoosat-labs/hrc20-engine/internal/signer"
	"github.com/hoosat-labs/hrc20-engine/internal/storage"
	"github.com/hoosat-labs/hrc20-engine/pkg/address"
	"github.com/hoosat-labs/hrc20-engine/pkg/script"
)

func main() {
	network := flag.String("network", "mainnet", "mainnet or testnet")
	dataDir := flag.String("datadir", "", "data directory (default: platform-specific, see config.DefaultDataDir)")
	flag.Parse()

	cfg, err := loadConfig(*network, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := obslog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %v\n", err)
		os.Exit(1)
	}

	orch, stopSigner, err := buildOrchestrator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer stopSigner()

	rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
	server := rpc.New(rpcAddr, orch)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	obslog.Logger.Info().Str("addr", server.Addr()).Msg("operator RPC server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	server.Stop()
}

// loadConfig builds a default configuration for the requested network and
// applies any on-disk overrides found in the config file (spec.md §6,
// "Environment").
func loadConfig(network, dataDir string) (*config.Config, error) {
	var cfg *config.Config
	switch network {
	case "testnet":
		cfg = config.DefaultTestnet()
	case "mainnet", "":
		cfg = config.DefaultMainnet()
	default:
		return nil, fmt.Errorf("unknown network %q (want mainnet or testnet)", network)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	values, err := config.LoadFile(cfg.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if err := config.ApplyFileConfig(cfg, values); err != nil {
		return nil, fmt.Errorf("apply config file: %w", err)
	}
	return cfg, nil
}

// buildOrchestrator wires the signer, node client, and registry into an
// Orchestrator. The returned func closes the registry's storage handle.
func buildOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, func(), error) {
	sig := signer.NewHTTPSigner(cfg.Signer.Endpoint, cfg.Signer.Timeout)
	path := signer.StandardPath(0, 0)
	curve := script.Schnorr

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pubKey, err := sig.GetPublicKey(ctx, cfg.Signer.KeyName, path, signer.CurveSchnorr)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch signer public key: %w", err)
	}

	selfAddr, err := address.New(cfg.Network.HRP(), address.TypeSchnorr, pubKey)
	if err != nil {
		return nil, nil, fmt.Errorf("derive own address: %w", err)
	}

	if err := os.MkdirAll(cfg.RegistryDir(), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create registry directory: %w", err)
	}
	db, err := storage.NewBadger(cfg.RegistryDir())
	if err != nil {
		return nil, nil, fmt.Errorf("open pending-reveal registry: %w", err)
	}
	reg := registry.New(db)

	node := nodeclient.New(cfg.Node.APIHost, cfg.Node.Timeout)

	orch := orchestrator.New(node, sig, reg, cfg.Network, cfg.Signer.KeyName, path, curve, pubKey, selfAddr)
	return orch, func() { db.Close() }, nil
}
