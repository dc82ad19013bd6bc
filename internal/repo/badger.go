package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/pkordes/dfw-explorer/internal/domain"
)

// BadgerKV is a KV backed by an embedded Badger database.
type BadgerKV struct {
	db *badger.DB
}

// OpenBadgerKV opens (or creates) a Badger database in dir.
// Callers must Close it.
func OpenBadgerKV(dir string) (*BadgerKV, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("repo.OpenBadgerKV: %w", err)
	}
	return &BadgerKV{db: db}, nil
}

// NewBadgerKV wraps an already open database. Tests use it with an
// in-memory database.
func NewBadgerKV(db *badger.DB) *BadgerKV {
	return &BadgerKV{db: db}
}

// Get implements KV.
func (b *BadgerKV) Get(_ context.Context, key string) (string, error) {
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
		return "", fmt.Errorf("repo.BadgerKV.Get %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("repo.BadgerKV.Get: %w", err)
	}
	return string(value), nil
}

// Set implements KV.
func (b *BadgerKV) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("repo.BadgerKV.Set: %w", err)
	}
	return nil
}

// Delete implements KV.
func (b *BadgerKV) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("repo.BadgerKV.Delete: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (b *BadgerKV) Close() error {
	return b.db.Close()
}
