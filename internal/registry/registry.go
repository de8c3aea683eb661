// Package registry implements the pending-reveal registry: process-wide
// persistent state mapping commit transaction ids to the redeem script
// bytes needed to later spend their P2SH output (spec.md §3
// "PendingReveal", §4.8, §9 "Stable module-level state").
//
// Grounded on the teacher codebase's internal/utxo/store.go (a storage.DB-
// backed store with a fixed key prefix and JSON-encoded values),
// generalized from an indexed UTXO set to a flat append/filter-only
// collection of (commit_tx_id, redeem_script) pairs with an explicit
// snapshot/restore contract.
package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hoosat-labs/hrc20-engine/pkg/engerr"
	"github.com/hoosat-labs/hrc20-engine/pkg/hash"
	"github.com/hoosat-labs/hrc20-engine/pkg/hexcodec"

	"github.com/hoosat-labs/hrc20-engine/internal/storage"
)

// keyPrefix namespaces every pending-reveal entry under "r/" + commit_tx_id,
// via storage.PrefixDB, so the registry's keyspace stays distinct from
// anything else that might share the underlying database handle.
var keyPrefix = []byte("r/")

// snapshotVersion tags the persisted snapshot format for forward
// compatibility (spec.md §6, "Persisted state layout").
const snapshotVersion = 1

// Entry is one pending reveal: a commit transaction id and the redeem
// script bytes it locked funds to.
type Entry struct {
	CommitTxID   string `json:"commitTxId"`
	RedeemScript []byte `json:"redeemScript"`
}

// Registry is the append/filter-only pending-reveal collection. All
// mutation is serialized at the suspension-point granularity (spec.md §5).
type Registry struct {
	mu sync.Mutex
	db *storage.PrefixDB
}

// New creates a Registry backed by db, namespaced under keyPrefix.
func New(db storage.DB) *Registry {
	return &Registry{db: storage.NewPrefixDB(db, keyPrefix)}
}

// Add appends a pending reveal entry. Each commit id appears at most once
// (spec.md §3); a second Add for the same id overwrites the stored script,
// matching the append-only semantics at the storage layer (the logical
// collection still has one entry per key).
func (r *Registry) Add(commitTxID string, redeemScript []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(Entry{CommitTxID: commitTxID, RedeemScript: redeemScript})
	if err != nil {
		return fmt.Errorf("registry: marshal entry: %w", err)
	}
	if err := r.db.Put([]byte(commitTxID), data); err != nil {
		return fmt.Errorf("registry: put entry: %w", err)
	}
	return nil
}

// Get looks up the redeem script for commitTxID. Returns
// InvalidTransaction if no pending reveal is registered for it (spec.md
// §4.8, "no pending reveal is a hard error").
func (r *Registry) Get(commitTxID string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.db.Get([]byte(commitTxID))
	if err != nil {
		return nil, &engerr.InvalidTransaction{Message: fmt.Sprintf("no pending reveal for commit %s", commitTxID)}
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("registry: unmarshal entry: %w", err)
	}
	return e.RedeemScript, nil
}

// Remove deletes the pending reveal entry for commitTxID. No-op if absent
// (spec.md §8, invariant 7).
func (r *Registry) Remove(commitTxID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	has, err := r.db.Has([]byte(commitTxID))
	if err != nil {
		return fmt.Errorf("registry: check entry: %w", err)
	}
	if !has {
		return nil
	}
	if err := r.db.Delete([]byte(commitTxID)); err != nil {
		return fmt.Errorf("registry: delete entry: %w", err)
	}
	return nil
}

// List returns every pending entry with its full redeem script; the
// get_pending_reveals operator call reduces these to (commit_tx_id,
// script_length) pairs (spec.md §6). The order is that of the backend's
// iteration.
func (r *Registry) List() ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []Entry
	err := r.db.ForEach(nil, func(_, value []byte) error {
		var e Entry
		if err := json.Unmarshal(value, &e); err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registry: list entries: %w", err)
	}
	return entries, nil
}

// snapshot is the version-tagged persisted form of the whole registry
// (spec.md §6, "Persisted state layout"). Checksum is a keyed BLAKE3
// digest of Entries (domain "hrc20-engine/registry-snapshot"), so Restore
// can detect a snapshot blob truncated or corrupted by the operator's
// storage medium before it ever touches the live keyspace.
type snapshot struct {
	Version  int     `json:"version"`
	Entries  []Entry `json:"entries"`
	Checksum string  `json:"checksum"`
}

// checksumDomain keys the BLAKE3 digest used to detect snapshot corruption.
const checksumDomain = "hrc20-engine/registry-snapshot"

// checksumEntries returns the hex-encoded keyed-BLAKE3 digest of entries in
// their JSON-encoded form. The digest is order-sensitive; Snapshot and
// Restore both compute it over the snapshot's own Entries slice, so it does
// not depend on List's order (which varies between calls for MemoryDB).
func checksumEntries(entries []Entry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("registry: marshal entries for checksum: %w", err)
	}
	sum := hash.Keyed(checksumDomain, data)
	return hexcodec.Encode(sum[:]), nil
}

// Snapshot renders the current registry contents as a version-tagged byte
// blob suitable for external persistence on graceful shutdown (spec.md
// §5).
func (r *Registry) Snapshot() ([]byte, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}
	checksum, err := checksumEntries(entries)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot{Version: snapshotVersion, Entries: entries, Checksum: checksum})
}

// Restore loads a snapshot produced by Snapshot back into the registry in
// one atomic batch, for use on process restart (spec.md §5) — a partial
// write here would otherwise resurrect only some of the pending reveals.
// A non-empty Checksum that doesn't match Entries is rejected before any
// write happens.
func (r *Registry) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("registry: unmarshal snapshot: %w", err)
	}
	if snap.Checksum != "" {
		want, err := checksumEntries(snap.Entries)
		if err != nil {
			return err
		}
		if want != snap.Checksum {
			return &engerr.InvalidTransaction{Message: "registry: snapshot checksum mismatch, refusing to restore"}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	batch := r.db.NewBatch()
	for _, e := range snap.Entries {
		entryData, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("registry: marshal entry: %w", err)
		}
		if err := batch.Put([]byte(e.CommitTxID), entryData); err != nil {
			return fmt.Errorf("registry: batch entry: %w", err)
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("registry: commit restored snapshot: %w", err)
	}
	return nil
}
