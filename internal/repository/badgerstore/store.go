// Package badgerstore implements the repositories on an embedded badger
// key/value store. Records are JSON values under a per-collection key prefix.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"consumables/internal/repository"

	"github.com/dgraph-io/badger/v4"
)

const (
	prefixItem    = "item/"
	prefixRequest = "req/"
	prefixRef     = "ref/"
	prefixSetting = "setting/"
	prefixAudit   = "audit/"
)

type txnKey struct{}

// Open opens (or creates) a badger database at path
func Open(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway in-memory database
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

// New wires all repositories on db
func New(db *badger.DB) repository.Store {
	kv := &kv{db: db}
	return repository.Store{
		Items:      &itemRepository{kv: kv},
		Requests:   &requestLogRepository{kv: kv},
		References: &referenceRepository{kv: kv},
		Settings:   &settingRepository{kv: kv},
		Audit:      &auditRepository{kv: kv},
		Tx:         &txManager{db: db},
	}
}

type txManager struct {
	db *badger.DB
}

// RunInTx runs fn inside one read-write badger transaction. Nested calls join
// the outer transaction.
func (t *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txnKey{}).(*badger.Txn); ok {
		return fn(ctx)
	}
	return t.db.Update(func(txn *badger.Txn) error {
		return fn(context.WithValue(ctx, txnKey{}, txn))
	})
}

type kv struct {
	db *badger.DB
}

func (s *kv) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := ctx.Value(txnKey{}).(*badger.Txn); ok {
		return fn(txn)
	}
	return s.db.Update(fn)
}

func (s *kv) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := ctx.Value(txnKey{}).(*badger.Txn); ok {
		return fn(txn)
	}
	return s.db.View(fn)
}

func put(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return writeErr(txn.Set([]byte(key), data))
}

// writeErr maps badger's per-transaction size limit onto repository.ErrTooLarge
func writeErr(err error) error {
	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("%w: %w", repository.ErrTooLarge, err)
	}
	return err
}

func get(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func remove(txn *badger.Txn, key string) error {
	ok, err := exists(txn, key)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return writeErr(txn.Delete([]byte(key)))
}

// scan decodes every value under prefix in key order
func scan[T any](txn *badger.Txn, prefix string) ([]T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []T
	for it.Rewind(); it.Valid(); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// keys lists the keys under prefix
func keys(txn *badger.Txn, prefix string) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var out [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		out = append(out, it.Item().KeyCopy(nil))
	}
	return out
}

func paginate[T any](all []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return all
	}
	if page-1 > len(all)/limit {
		return []T{}
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	return all[start:min(start+limit, len(all))]
}
