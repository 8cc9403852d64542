package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"consumables/internal/catalog"
	"consumables/internal/model"
	"consumables/internal/repository"

	"github.com/shopspring/decimal"
)

// ImportMode selects how an uploaded catalog is applied
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportUpsert  ImportMode = "upsert"
)

// ParseImportMode defaults to ImportReplace
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportReplace:
		return ImportReplace, nil
	case ImportUpsert:
		return ImportUpsert, nil
	}
	return "", invalid("unknown import mode %q: must be replace or upsert", s)
}

// DTOs
type CreateItemRequest struct {
	ID            string          `json:"id" binding:"required"`
	Supplier      string          `json:"supplier"`
	Name          string          `json:"name" binding:"required"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price" swaggertype:"number"`
}

type ImportResult struct {
	Mode      ImportMode `json:"mode"`
	Imported  int        `json:"imported"`
	Skipped   int        `json:"skipped"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CatalogMeta struct {
	ItemCount int64      `json:"item_count"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type CatalogService interface {
	ListItems(ctx context.Context, page, limit int, search string) ([]model.ConsumableItem, int64, error)
	GetMeta(ctx context.Context) (CatalogMeta, error)
	CreateItem(ctx context.Context, actor string, req CreateItemRequest) (model.ConsumableItem, error)
	ImportCSV(ctx context.Context, actor string, raw string, mode ImportMode) (ImportResult, error)
}

type catalogService struct {
	store  repository.Store
	events EventPublisher
	now    func() time.Time
}

func NewCatalogService(store repository.Store, events EventPublisher) CatalogService {
	return &catalogService{store: store, events: publisherOrNoop(events), now: time.Now}
}

func (s *catalogService) ListItems(ctx context.Context, page, limit int, search string) ([]model.ConsumableItem, int64, error) {
	page, limit = normalizePage(page, limit, 20)
	return s.store.Items.List(ctx, page, limit, strings.TrimSpace(search))
}

func (s *catalogService) GetMeta(ctx context.Context) (CatalogMeta, error) {
	count, err := s.store.Items.Count(ctx)
	if err != nil {
		return CatalogMeta{}, err
	}

	meta := CatalogMeta{ItemCount: count}
	setting, err := s.store.Settings.Get(ctx, model.SettingCatalogUpdatedAt)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return CatalogMeta{}, err
	default:
		if t, perr := time.Parse(time.RFC3339, setting.Value); perr == nil {
			meta.UpdatedAt = &t
		}
	}
	return meta, nil
}

func (s *catalogService) CreateItem(ctx context.Context, actor string, req CreateItemRequest) (model.ConsumableItem, error) {
	item := model.ConsumableItem{
		ID:            strings.TrimSpace(req.ID),
		Supplier:      strings.TrimSpace(req.Supplier),
		Name:          strings.TrimSpace(req.Name),
		Specification: strings.TrimSpace(req.Specification),
		Unit:          strings.TrimSpace(req.Unit),
		Price:         req.Price,
	}
	if item.ID == "" {
		return model.ConsumableItem{}, invalid("item id is required")
	}
	if item.Name == "" {
		return model.ConsumableItem{}, invalid("item name is required")
	}
	if !item.Price.IsPositive() {
		return model.ConsumableItem{}, invalid("price must be greater than 0")
	}

	err := s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.store.Items.FindByIDFold(txCtx, item.ID)
		if err == nil {
			return fmt.Errorf("%w: item %s already exists", repository.ErrDuplicate, existing.ID)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.store.Items.Create(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		return writeAudit(txCtx, s.store.Audit, actor, model.ActionCreateItem, item.ID, item.Name, req)
	})
	if err != nil {
		return model.ConsumableItem{}, err
	}

	s.events.Publish(EventCatalogItemCreated, map[string]interface{}{"id": item.ID})
	return item, nil
}

func (s *catalogService) ImportCSV(ctx context.Context, actor string, raw string, mode ImportMode) (ImportResult, error) {
	parsed, err := catalog.Parse(raw)
	if err != nil {
		return ImportResult{}, err
	}

	updatedAt := s.now().UTC().Truncate(time.Second)
	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		var werr error
		if mode == ImportUpsert {
			werr = s.store.Items.Upsert(txCtx, parsed.Items)
		} else {
			werr = s.store.Items.ReplaceAll(txCtx, parsed.Items)
		}
		if errors.Is(werr, repository.ErrTooLarge) {
			return fmt.Errorf("%w: catalog of %d items cannot be imported at once", repository.ErrTooLarge, len(parsed.Items))
		}
		if werr != nil {
			return fmt.Errorf("failed to store catalog: %w", werr)
		}

		if err := s.store.Settings.Set(txCtx, model.SettingCatalogUpdatedAt, updatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to record catalog update time: %w", err)
		}

		return writeAudit(txCtx, s.store.Audit, actor, model.ActionImportCatalog, string(mode), "catalog", map[string]interface{}{
			"mode":     mode,
			"imported": len(parsed.Items),
			"skipped":  parsed.Skipped,
		})
	})
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Mode: mode, Imported: len(parsed.Items), Skipped: parsed.Skipped, UpdatedAt: updatedAt}
	s.events.Publish(EventCatalogReplaced, res)
	return res, nil
}
