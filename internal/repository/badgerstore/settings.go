package badgerstore

import (
	"context"
	"time"

	"consumables/internal/model"

	"github.com/dgraph-io/badger/v4"
)

type settingRepository struct {
	kv *kv
}

func (r *settingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	if err := r.kv.view(ctx, func(txn *badger.Txn) error {
		return get(txn, prefixSetting+key, &s)
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		return put(txn, prefixSetting+key, model.Setting{Key: key, Value: value, UpdatedAt: time.Now()})
	})
}
