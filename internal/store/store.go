// Package store implements the namespaced persistent store: typed
// reads and writes over enumerated query keys, partitioned per network,
// with default-value semantics for missing records.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tonhold/tonhold/internal/storage"
	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// QueryKey names a logical record in the store. Keys are stable strings
// and must be unique within a namespace.
type QueryKey string

// Query keys for every record kind the extension persists.
const (
	KeyProxy      QueryKey = "proxy"
	KeyAuth       QueryKey = "auth"
	KeyPrice      QueryKey = "price"
	KeyStock      QueryKey = "stock"
	KeyScript     QueryKey = "script"
	KeyNetwork    QueryKey = "network"
	KeyConnection QueryKey = "connection"
	KeyTabs       QueryKey = "tabs"

	KeyAccount      QueryKey = "account"
	KeyBalance      QueryKey = "balance"
	KeyAddress      QueryKey = "address"
	KeyTransactions QueryKey = "transactions"
	KeyRaw          QueryKey = "raw"
	KeyJetton       QueryKey = "jetton"
	KeyOrigin       QueryKey = "origin"

	KeyEstimation QueryKey = "estimation"

	KeyMethod           QueryKey = "method"
	KeyEncryptedPayload QueryKey = "encrypted_payload"
	KeyPublicKey        QueryKey = "public_key"
)

// NetworkID identifies a blockchain network. It partitions every
// account and connection record.
type NetworkID string

// Known networks.
const (
	NetworkMainnet NetworkID = "mainnet"
	NetworkTestnet NetworkID = "testnet"
)

// DefaultNetwork is the network assumed when no network record exists.
const DefaultNetwork = NetworkMainnet

// Store provides typed access to the key-value backend. It owns key
// derivation and serialization; callers never touch the backend
// directly for records the store manages.
type Store struct {
	backend storage.Backend
}

// New creates a store over the given backend.
func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Backend exposes the underlying backend for lifecycle management
// (Close). Record access must go through the store.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// NetworkKey derives the composite key for a network-partitioned record.
func NetworkKey(network NetworkID, key QueryKey) string {
	return fmt.Sprintf("%s_%s", network, key)
}

// wrapBackend normalizes backend failures into the storage error
// taxonomy while preserving already-typed errors.
func wrapBackend(err error, key string) error {
	var we *walleterr.WalletError
	if errors.As(err, &we) {
		return err
	}
	return &walleterr.WalletError{
		Code:     "STORAGE_ERROR",
		Message:  fmt.Sprintf("storage backend operation failed for %q", key),
		Cause:    err,
		ExitCode: walleterr.ExitGeneral,
	}
}

// Read returns the record stored under key, or defaultValue when no
// record exists. A missing record is not an error; backend failures are.
func Read[T any](ctx context.Context, s *Store, key QueryKey, defaultValue T) (T, error) {
	return readRaw(ctx, s, string(key), defaultValue)
}

// Write stores value under key and returns the stored value.
func Write[T any](ctx context.Context, s *Store, key QueryKey, value T) (T, error) {
	return writeRaw(ctx, s, string(key), value)
}

// ReadNetwork returns the network-partitioned record for key. When
// network is empty, the store's current network is resolved first.
func ReadNetwork[T any](ctx context.Context, s *Store, key QueryKey, defaultValue T, network NetworkID) (T, error) {
	network, err := s.resolveNetwork(ctx, network)
	if err != nil {
		return defaultValue, err
	}
	return readRaw(ctx, s, NetworkKey(network, key), defaultValue)
}

// WriteNetwork stores the network-partitioned record for key. When
// network is empty, the store's current network is resolved first.
func WriteNetwork[T any](ctx context.Context, s *Store, key QueryKey, value T, network NetworkID) (T, error) {
	network, err := s.resolveNetwork(ctx, network)
	if err != nil {
		return value, err
	}
	return writeRaw(ctx, s, NetworkKey(network, key), value)
}

// Network returns the currently selected network, defaulting to
// mainnet when no network record has been written.
func (s *Store) Network(ctx context.Context) (NetworkID, error) {
	return Read(ctx, s, KeyNetwork, DefaultNetwork)
}

// SetNetwork records the selected network.
func (s *Store) SetNetwork(ctx context.Context, network NetworkID) error {
	_, err := Write(ctx, s, KeyNetwork, network)
	return err
}

func (s *Store) resolveNetwork(ctx context.Context, network NetworkID) (NetworkID, error) {
	if network != "" {
		return network, nil
	}
	return s.Network(ctx)
}

// BatchWrite performs a single multi-key backend write. The call either
// succeeds for all keys or fails as a whole; no per-key rollback is
// attempted on backend failure, so callers needing cross-key atomicity
// must not rely on this.
func (s *Store) BatchWrite(ctx context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return walleterr.Wrap(err, "encoding %s", key)
		}
		encoded[key] = data
	}

	if err := s.backend.BatchSet(ctx, encoded); err != nil {
		return wrapBackend(err, "batch")
	}
	return nil
}

// Remove deletes the record stored under key.
func (s *Store) Remove(ctx context.Context, key QueryKey) error {
	if err := s.backend.Remove(ctx, string(key)); err != nil {
		return wrapBackend(err, string(key))
	}
	return nil
}

func readRaw[T any](ctx context.Context, s *Store, key string, defaultValue T) (T, error) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return defaultValue, wrapBackend(err, key)
	}
	if !ok {
		return defaultValue, nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return defaultValue, walleterr.Wrap(err, "decoding %s", key)
	}
	return value, nil
}

func writeRaw[T any](ctx context.Context, s *Store, key string, value T) (T, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return value, walleterr.Wrap(err, "encoding %s", key)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		return value, wrapBackend(err, key)
	}
	return value, nil
}
