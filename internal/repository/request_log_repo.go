package repository

import (
	"context"
	"time"

	"consumables/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type requestLogRepository struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) RequestLogRepository {
	return &requestLogRepository{db: db}
}

func (r *requestLogRepository) CreateBatch(ctx context.Context, logs []model.RequestLog) error {
	return translate(GetDB(ctx, r.db).CreateInBatches(logs, insertBatchSize).Error)
}

func (r *requestLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RequestLog, error) {
	var entry model.RequestLog
	if err := GetDB(ctx, r.db).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *requestLogRepository) UpdateQuantity(ctx context.Context, entry *model.RequestLog) error {
	res := GetDB(ctx, r.db).Model(&model.RequestLog{}).Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"quantity":   entry.Quantity,
			"total_cost": entry.TotalCost,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RequestLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *requestLogRepository) ListBetween(ctx context.Context, start, end time.Time) ([]model.RequestLog, error) {
	var logs []model.RequestLog
	if err := GetDB(ctx, r.db).
		Where("requested_at >= ? AND requested_at <= ?", start, end).
		Order("requested_at desc, id asc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *requestLogRepository) All(ctx context.Context) ([]model.RequestLog, error) {
	var logs []model.RequestLog
	if err := GetDB(ctx, r.db).Order("requested_at desc, id asc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
