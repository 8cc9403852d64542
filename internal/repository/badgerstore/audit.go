package badgerstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"consumables/internal/model"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type auditRepository struct {
	kv  *kv
	seq atomic.Uint64
}

// Keys sort by creation time; seq orders entries written within the same nanosecond.
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	key := fmt.Sprintf("%s%020d/%010d/%s", prefixAudit, entry.CreatedAt.UnixNano(), r.seq.Add(1), entry.ID)
	return r.kv.update(ctx, func(txn *badger.Txn) error {
		return put(txn, key, entry)
	})
}

func (r *auditRepository) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	err := r.kv.view(ctx, func(txn *badger.Txn) error {
		var err error
		logs, err = scan[model.AuditLog](txn, prefixAudit)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return paginate(logs, page, limit), int64(len(logs)), nil
}
