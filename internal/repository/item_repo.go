package repository

import (
	"context"

	"consumables/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize keeps bulk inserts under the postgres parameter limit
const insertBatchSize = 500

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) List(ctx context.Context, page, limit int, search string) ([]model.ConsumableItem, int64, error) {
	var items []model.ConsumableItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ConsumableItem{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("id ILIKE ? OR name ILIKE ? OR supplier ILIKE ? OR specification ILIKE ?", like, like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc, id asc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) All(ctx context.Context) ([]model.ConsumableItem, error) {
	var items []model.ConsumableItem
	if err := GetDB(ctx, r.db).Order("name asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.ConsumableItem{}).Count(&total).Error
	return total, err
}

func (r *itemRepository) FindByID(ctx context.Context, id string) (*model.ConsumableItem, error) {
	var item model.ConsumableItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *itemRepository) FindByIDFold(ctx context.Context, id string) (*model.ConsumableItem, error) {
	var item model.ConsumableItem
	if err := GetDB(ctx, r.db).Where("LOWER(id) = LOWER(?)", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *model.ConsumableItem) error {
	return translate(GetDB(ctx, r.db).Create(item).Error)
}

// ReplaceAll deletes the whole catalog and inserts items. Callers run it inside
// a transaction so a failed insert leaves the old catalog in place.
func (r *itemRepository) ReplaceAll(ctx context.Context, items []model.ConsumableItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ConsumableItem{}).Error; err != nil {
		return err
	}
	return translate(db.CreateInBatches(items, insertBatchSize).Error)
}

func (r *itemRepository) Upsert(ctx context.Context, items []model.ConsumableItem) error {
	return translate(GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"supplier", "name", "specification", "unit", "price", "updated_at"}),
	}).CreateInBatches(items, insertBatchSize).Error)
}
