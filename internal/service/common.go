package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"consumables/internal/model"
	"consumables/internal/repository"
)

// ErrInvalidInput marks validation failures; nothing has been written when it is returned
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Event names broadcast to connected admin clients
const (
	EventRequestsCreated    = "requests.created"
	EventRequestUpdated     = "requests.updated"
	EventRequestDeleted     = "requests.deleted"
	EventCatalogReplaced    = "catalog.replaced"
	EventCatalogItemCreated = "catalog.item_created"
	EventReferenceChanged   = "reference.changed"
)

// EventPublisher pushes change notifications so open views can re-derive their data
type EventPublisher interface {
	Publish(event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// writeAudit records an administrative change inside the caller's transaction
func writeAudit(ctx context.Context, repo repository.AuditRepository, actor, action, entityID, entityName string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := &model.AuditLog{
		Actor:      actor,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// maxPage and maxLimit keep (page-1)*limit far from int overflow
const (
	maxPage  = 1_000_000
	maxLimit = 1_000
)

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
