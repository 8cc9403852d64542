package repository

import (
	"context"

	"consumables/internal/model"

	"gorm.io/gorm"
)

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) List(ctx context.Context, kind string) ([]string, error) {
	var values []string
	if err := GetDB(ctx, r.db).Model(&model.ReferenceEntry{}).
		Where("kind = ?", kind).
		Order("value asc").
		Pluck("value", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *referenceRepository) FindFold(ctx context.Context, kind, value string) (string, error) {
	var entry model.ReferenceEntry
	if err := GetDB(ctx, r.db).
		Where("kind = ? AND LOWER(value) = LOWER(?)", kind, value).
		First(&entry).Error; err != nil {
		return "", translate(err)
	}
	return entry.Value, nil
}

func (r *referenceRepository) Create(ctx context.Context, entry *model.ReferenceEntry) error {
	return translate(GetDB(ctx, r.db).Create(entry).Error)
}

func (r *referenceRepository) Delete(ctx context.Context, kind, value string) error {
	res := GetDB(ctx, r.db).Where("kind = ? AND value = ?", kind, value).Delete(&model.ReferenceEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
