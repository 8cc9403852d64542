package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"consumables/internal/model"
	"consumables/internal/ordering"
	"consumables/internal/period"
	"consumables/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs
type CartItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type SubmitRequest struct {
	RequesterID         string            `json:"requester_id"`
	Line                string            `json:"line" binding:"required"`
	EquipmentCode       string            `json:"equipment_code"`
	DesiredDeliveryDate string            `json:"desired_delivery_date"` // YYYY-MM-DD
	Items               []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type HistoryResponse struct {
	Period    period.Window      `json:"period"`
	Logs      []model.RequestLog `json:"logs"`
	Total     int64              `json:"total"`
	TotalCost decimal.Decimal    `json:"total_cost"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

type RequestService interface {
	Submit(ctx context.Context, req SubmitRequest) ([]model.RequestLog, error)
	History(ctx context.Context, kind period.Kind, ref time.Time, page, limit int) (HistoryResponse, error)
	UpdateQuantity(ctx context.Context, actor, id string, quantity int) (model.RequestLog, error)
	Delete(ctx context.Context, actor, id string) error
}

type requestService struct {
	store            repository.Store
	events           EventPublisher
	defaultRequester string
	now              func() time.Time
}

func NewRequestService(store repository.Store, events EventPublisher, defaultRequester string) RequestService {
	return &requestService{
		store:            store,
		events:           publisherOrNoop(events),
		defaultRequester: defaultRequester,
		now:              time.Now,
	}
}

func (s *requestService) Submit(ctx context.Context, req SubmitRequest) ([]model.RequestLog, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, ordering.ErrEmptyCart)
	}

	requester := req.RequesterID
	if requester == "" {
		requester = s.defaultRequester
	}

	var logs []model.RequestLog
	err := s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		line, err := s.resolveReference(txCtx, model.RefKindLine, req.Line)
		if err != nil {
			return err
		}
		equipment := ""
		if req.EquipmentCode != "" {
			if equipment, err = s.resolveReference(txCtx, model.RefKindEquipmentCode, req.EquipmentCode); err != nil {
				return err
			}
		}

		cart := make([]ordering.CartLine, 0, len(req.Items))
		for _, ci := range req.Items {
			item, err := s.store.Items.FindByID(txCtx, ci.ItemID)
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("item %s is not in the catalog", ci.ItemID)
			}
			if err != nil {
				return fmt.Errorf("failed to find item %s: %w", ci.ItemID, err)
			}
			cart = append(cart, ordering.CartLine{Item: *item, Quantity: ci.Quantity})
		}

		logs, err = ordering.Build(ordering.Submission{
			RequesterID:         requester,
			Line:                line,
			EquipmentCode:       equipment,
			DesiredDeliveryDate: req.DesiredDeliveryDate,
			Cart:                cart,
		}, s.now())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.store.Requests.CreateBatch(txCtx, logs); err != nil {
			return fmt.Errorf("failed to save request: %w", err)
		}

		ids := make([]string, 0, len(logs))
		for _, l := range logs {
			ids = append(ids, l.ID.String())
		}
		return writeAudit(txCtx, s.store.Audit, requester, model.ActionCreateRequest, ids[0], line, map[string]interface{}{
			"ids":            ids,
			"equipment_code": equipment,
		})
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(EventRequestsCreated, map[string]interface{}{"count": len(logs), "line": logs[0].Line})
	return logs, nil
}

// resolveReference returns the stored spelling of a reference value
func (s *requestService) resolveReference(ctx context.Context, kind, value string) (string, error) {
	stored, err := s.store.References.FindFold(ctx, kind, value)
	if errors.Is(err, repository.ErrNotFound) {
		return "", invalid("%s %q is not registered", kind, value)
	}
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	return stored, nil
}

func (s *requestService) History(ctx context.Context, kind period.Kind, ref time.Time, page, limit int) (HistoryResponse, error) {
	page, limit = normalizePage(page, limit, 50)
	window := period.Resolve(kind, ref)

	logs, err := s.store.Requests.ListBetween(ctx, window.Range.Start, window.Range.End)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("failed to load requests: %w", err)
	}

	total := decimal.Zero
	for _, l := range logs {
		total = total.Add(l.TotalCost)
	}

	start := min((page-1)*limit, len(logs))
	end := min(start+limit, len(logs))

	return HistoryResponse{
		Period:    window,
		Logs:      append([]model.RequestLog{}, logs[start:end]...),
		Total:     int64(len(logs)),
		TotalCost: total,
		Page:      page,
		Limit:     limit,
	}, nil
}

func parseRequestID(id string) (uuid.UUID, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, invalid("invalid request id %q", id)
	}
	return rid, nil
}

// UpdateQuantity re-prices the log at the item's current catalog price. When the
// item has left the catalog the price the log was billed at is kept.
func (s *requestService) UpdateQuantity(ctx context.Context, actor, id string, quantity int) (model.RequestLog, error) {
	rid, err := parseRequestID(id)
	if err != nil {
		return model.RequestLog{}, err
	}
	if quantity <= 0 {
		return model.RequestLog{}, fmt.Errorf("%w: %v", ErrInvalidInput, ordering.ErrInvalidQuantity)
	}

	var entry *model.RequestLog
	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		entry, err = s.store.Requests.FindByID(txCtx, rid)
		if err != nil {
			return fmt.Errorf("request %s: %w", id, err)
		}
		before := map[string]interface{}{"quantity": entry.Quantity, "total_cost": entry.TotalCost}

		unitPrice := ordering.UnitPriceOf(*entry)
		item, err := s.store.Items.FindByID(txCtx, entry.ItemID)
		switch {
		case err == nil:
			unitPrice = item.Price
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("failed to find item %s: %w", entry.ItemID, err)
		}

		if err := ordering.Requantify(entry, quantity, unitPrice); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.store.Requests.UpdateQuantity(txCtx, entry); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		return writeAudit(txCtx, s.store.Audit, actor, model.ActionUpdateRequest, entry.ID.String(), entry.ItemName, map[string]interface{}{
			"before": before,
			"after":  map[string]interface{}{"quantity": entry.Quantity, "total_cost": entry.TotalCost},
		})
	})
	if err != nil {
		return model.RequestLog{}, err
	}

	s.events.Publish(EventRequestUpdated, map[string]interface{}{"id": entry.ID.String()})
	return *entry, nil
}

func (s *requestService) Delete(ctx context.Context, actor, id string) error {
	rid, err := parseRequestID(id)
	if err != nil {
		return err
	}

	err = s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		entry, err := s.store.Requests.FindByID(txCtx, rid)
		if err != nil {
			return fmt.Errorf("request %s: %w", id, err)
		}
		if err := s.store.Requests.Delete(txCtx, rid); err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}
		return writeAudit(txCtx, s.store.Audit, actor, model.ActionDeleteRequest, entry.ID.String(), entry.ItemName, entry)
	})
	if err != nil {
		return err
	}

	s.events.Publish(EventRequestDeleted, map[string]interface{}{"id": id})
	return nil
}
