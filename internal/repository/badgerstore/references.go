package badgerstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"consumables/internal/model"
	"consumables/internal/repository"

	"github.com/dgraph-io/badger/v4"
)

type referenceRepository struct {
	kv *kv
}

func refPrefix(kind string) string     { return prefixRef + kind + "/" }
func refKey(kind, value string) string { return refPrefix(kind) + value }

func (r *referenceRepository) entries(txn *badger.Txn, kind string) ([]model.ReferenceEntry, error) {
	return scan[model.ReferenceEntry](txn, refPrefix(kind))
}

func (r *referenceRepository) List(ctx context.Context, kind string) ([]string, error) {
	values := []string{}
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		entries, err := r.entries(txn, kind)
		if err != nil {
			return err
		}
		for _, e := range entries {
			values = append(values, e.Value)
		}
		return nil
	})
	sort.Strings(values)
	return values, err
}

func (r *referenceRepository) FindFold(ctx context.Context, kind, value string) (string, error) {
	var found string
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		entries, err := r.entries(txn, kind)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if strings.EqualFold(e.Value, value) {
				found = e.Value
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r *referenceRepository) Create(ctx context.Context, entry *model.ReferenceEntry) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		key := refKey(entry.Kind, entry.Value)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if ok {
			return repository.ErrDuplicate
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		return put(txn, key, entry)
	})
}

func (r *referenceRepository) Delete(ctx context.Context, kind, value string) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		return remove(txn, refKey(kind, value))
	})
}
