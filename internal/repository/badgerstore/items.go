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

type itemRepository struct {
	kv *kv
}

func itemKey(id string) string { return prefixItem + id }

func (r *itemRepository) all(txn *badger.Txn) ([]model.ConsumableItem, error) {
	items, err := scan[model.ConsumableItem](txn, prefixItem)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *itemRepository) List(ctx context.Context, page, limit int, search string) ([]model.ConsumableItem, int64, error) {
	items := []model.ConsumableItem{}
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		all, err := r.all(txn)
		if err != nil {
			return err
		}
		needle := strings.ToLower(search)
		for _, it := range all {
			if needle == "" || matches(it, needle) {
				items = append(items, it)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return paginate(items, page, limit), int64(len(items)), nil
}

func matches(it model.ConsumableItem, needle string) bool {
	for _, f := range []string{it.ID, it.Name, it.Supplier, it.Specification} {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (r *itemRepository) All(ctx context.Context) ([]model.ConsumableItem, error) {
	var items []model.ConsumableItem
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		var err error
		items, err = r.all(txn)
		return err
	})
	return items, err
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		n = int64(len(keys(txn, prefixItem)))
		return nil
	})
	return n, err
}

func (r *itemRepository) FindByID(ctx context.Context, id string) (*model.ConsumableItem, error) {
	var item model.ConsumableItem
	if err := r.kv.view(ctx, func(txn *badger.Txn) error {
		return get(txn, itemKey(id), &item)
	}); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDFold(ctx context.Context, id string) (*model.ConsumableItem, error) {
	var found *model.ConsumableItem
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		all, err := scan[model.ConsumableItem](txn, prefixItem)
		if err != nil {
			return err
		}
		for i := range all {
			if strings.EqualFold(all[i].ID, id) {
				found = &all[i]
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r *itemRepository) Create(ctx context.Context, item *model.ConsumableItem) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, itemKey(item.ID))
		if err != nil {
			return err
		}
		if ok {
			return repository.ErrDuplicate
		}
		stamp(item, time.Now())
		return put(txn, itemKey(item.ID), item)
	})
}

func (r *itemRepository) ReplaceAll(ctx context.Context, items []model.ConsumableItem) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		for _, k := range keys(txn, prefixItem) {
			if err := txn.Delete(k); err != nil {
				return writeErr(err)
			}
		}
		return r.putAll(txn, items)
	})
}

func (r *itemRepository) Upsert(ctx context.Context, items []model.ConsumableItem) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		return r.putAll(txn, items)
	})
}

func (r *itemRepository) putAll(txn *badger.Txn, items []model.ConsumableItem) error {
	now := time.Now()
	for i := range items {
		it := items[i]
		var prev model.ConsumableItem
		if err := get(txn, itemKey(it.ID), &prev); err == nil {
			it.CreatedAt = prev.CreatedAt
		}
		stamp(&it, now)
		if err := put(txn, itemKey(it.ID), it); err != nil {
			return err
		}
	}
	return nil
}

func stamp(it *model.ConsumableItem, now time.Time) {
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now
}
