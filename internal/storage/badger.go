package storage

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// BadgerBackend is the durable Backend used by the extension host. All
// records for every network share one database; partitioning happens in
// the key layout, not here.
type BadgerBackend struct {
	db *badger.DB
}

// Compile-time interface check
var _ Backend = (*BadgerBackend)(nil)

// OpenBadger opens (creating if needed) a badger database at path.
func OpenBadger(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, walleterr.Wrap(err, "opening storage at %s", path)
	}
	return &BadgerBackend{db: db}, nil
}

// Get returns the value for key and whether it exists.
func (b *BadgerBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, backendError(err, "reading", key)
	}
	return value, true, nil
}

// Set stores value under key.
func (b *BadgerBackend) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return backendError(err, "writing", key)
	}
	return nil
}

// BatchSet stores every entry in a single transaction.
func (b *BadgerBackend) BatchSet(_ context.Context, values map[string][]byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for key, value := range values {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &walleterr.WalletError{
			Code:     walleterr.ErrBackend.Code,
			Message:  fmt.Sprintf("batch write of %d keys", len(values)),
			Cause:    err,
			ExitCode: walleterr.ExitGeneral,
		}
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (b *BadgerBackend) Remove(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return backendError(err, "removing", key)
	}
	return nil
}

// Close closes the underlying database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

// backendError carries the database failure as the cause so it stays
// reachable through errors.Is and shows up in logs, while callers keep
// matching on the storage error code.
func backendError(err error, op, key string) error {
	return &walleterr.WalletError{
		Code:     walleterr.ErrBackend.Code,
		Message:  fmt.Sprintf("%s %q", op, key),
		Details:  map[string]string{"key": key},
		Cause:    err,
		ExitCode: walleterr.ExitGeneral,
	}
}
