package repository

import (
	"context"
	"errors"
	"time"

	"consumables/internal/model"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrTooLarge is returned when a single write does not fit in one transaction
	ErrTooLarge = errors.New("write too large for one transaction")
)

type ItemRepository interface {
	List(ctx context.Context, page, limit int, search string) ([]model.ConsumableItem, int64, error)
	All(ctx context.Context) ([]model.ConsumableItem, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*model.ConsumableItem, error)
	// FindByIDFold matches id case-insensitively
	FindByIDFold(ctx context.Context, id string) (*model.ConsumableItem, error)
	Create(ctx context.Context, item *model.ConsumableItem) error
	ReplaceAll(ctx context.Context, items []model.ConsumableItem) error
	Upsert(ctx context.Context, items []model.ConsumableItem) error
}

type RequestLogRepository interface {
	CreateBatch(ctx context.Context, logs []model.RequestLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RequestLog, error)
	// UpdateQuantity persists the quantity and total cost of entry
	UpdateQuantity(ctx context.Context, entry *model.RequestLog) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListBetween returns logs with start <= timestamp <= end, newest first
	ListBetween(ctx context.Context, start, end time.Time) ([]model.RequestLog, error)
	// All returns every log, newest first
	All(ctx context.Context) ([]model.RequestLog, error)
}

type ReferenceRepository interface {
	// List returns the values of one kind in alphabetical order
	List(ctx context.Context, kind string) ([]string, error)
	// FindFold returns the stored value matching value case-insensitively
	FindFold(ctx context.Context, kind, value string) (string, error)
	Create(ctx context.Context, entry *model.ReferenceEntry) error
	Delete(ctx context.Context, kind, value string) error
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.Setting, error)
	Set(ctx context.Context, key, value string) error
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

// Store bundles the repositories of one storage backend
type Store struct {
	Items      ItemRepository
	Requests   RequestLogRepository
	References ReferenceRepository
	Settings   SettingRepository
	Audit      AuditRepository
	Tx         TransactionManager
}
