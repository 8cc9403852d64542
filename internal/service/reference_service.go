package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"consumables/internal/model"
	"consumables/internal/report"
	"consumables/internal/repository"
)

type ReferenceRequest struct {
	Value string `json:"value" binding:"required"`
}

// ReferenceService manages the production line and equipment code lists
type ReferenceService interface {
	List(ctx context.Context, kind string) ([]string, error)
	Add(ctx context.Context, actor, kind, value string) (string, error)
	Remove(ctx context.Context, actor, kind, value string) error
}

type referenceService struct {
	store  repository.Store
	events EventPublisher
}

func NewReferenceService(store repository.Store, events EventPublisher) ReferenceService {
	return &referenceService{store: store, events: publisherOrNoop(events)}
}

func validKind(kind string) error {
	if kind != model.RefKindLine && kind != model.RefKindEquipmentCode {
		return invalid("unknown reference list %q", kind)
	}
	return nil
}

func (s *referenceService) List(ctx context.Context, kind string) ([]string, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	return s.store.References.List(ctx, kind)
}

func (s *referenceService) Add(ctx context.Context, actor, kind, value string) (string, error) {
	if err := validKind(kind); err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("value is required")
	}
	if strings.Contains(value, report.BreakdownSeparator) {
		return "", invalid("value %q must not contain %q", value, report.BreakdownSeparator)
	}

	err := s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.store.References.FindFold(txCtx, kind, value)
		if err == nil {
			return fmt.Errorf("%w: %q already exists", repository.ErrDuplicate, existing)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.store.References.Create(txCtx, &model.ReferenceEntry{Kind: kind, Value: value}); err != nil {
			return fmt.Errorf("failed to add %s: %w", kind, err)
		}
		return writeAudit(txCtx, s.store.Audit, actor, model.ActionCreateReference, value, kind, map[string]string{"kind": kind, "value": value})
	})
	if err != nil {
		return "", err
	}

	s.events.Publish(EventReferenceChanged, map[string]string{"kind": kind, "added": value})
	return value, nil
}

func (s *referenceService) Remove(ctx context.Context, actor, kind, value string) error {
	if err := validKind(kind); err != nil {
		return err
	}

	err := s.store.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.References.Delete(txCtx, kind, value); err != nil {
			return fmt.Errorf("failed to delete %s %q: %w", kind, value, err)
		}
		return writeAudit(txCtx, s.store.Audit, actor, model.ActionDeleteReference, value, kind, map[string]string{"kind": kind, "value": value})
	})
	if err != nil {
		return err
	}

	s.events.Publish(EventReferenceChanged, map[string]string{"kind": kind, "removed": value})
	return nil
}
