package badgerstore

import (
	"context"
	"sort"
	"time"

	"consumables/internal/model"
	"consumables/internal/repository"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type requestLogRepository struct {
	kv *kv
}

func requestKey(id uuid.UUID) string { return prefixRequest + id.String() }

func newestFirst(logs []model.RequestLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].Timestamp.After(logs[j].Timestamp)
		}
		return logs[i].ID.String() < logs[j].ID.String()
	})
}

func (r *requestLogRepository) CreateBatch(ctx context.Context, logs []model.RequestLog) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		for i := range logs {
			key := requestKey(logs[i].ID)
			ok, err := exists(txn, key)
			if err != nil {
				return err
			}
			if ok {
				return repository.ErrDuplicate
			}
			if err := put(txn, key, logs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *requestLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RequestLog, error) {
	var entry model.RequestLog
	if err := r.kv.view(ctx, func(txn *badger.Txn) error {
		return get(txn, requestKey(id), &entry)
	}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *requestLogRepository) UpdateQuantity(ctx context.Context, entry *model.RequestLog) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		var stored model.RequestLog
		if err := get(txn, requestKey(entry.ID), &stored); err != nil {
			return err
		}
		stored.Quantity = entry.Quantity
		stored.TotalCost = entry.TotalCost
		return put(txn, requestKey(entry.ID), stored)
	})
}

func (r *requestLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		return remove(txn, requestKey(id))
	})
}

func (r *requestLogRepository) ListBetween(ctx context.Context, start, end time.Time) ([]model.RequestLog, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.RequestLog, 0, len(all))
	for _, l := range all {
		if !l.Timestamp.Before(start) && !l.Timestamp.After(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *requestLogRepository) All(ctx context.Context) ([]model.RequestLog, error) {
	var logs []model.RequestLog
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		var err error
		logs, err = scan[model.RequestLog](txn, prefixRequest)
		return err
	})
	if err != nil {
		return nil, err
	}
	newestFirst(logs)
	return logs, nil
}
