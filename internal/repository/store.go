package repository

import "gorm.io/gorm"

// NewPostgresStore wires the gorm-backed repositories
func NewPostgresStore(db *gorm.DB) Store {
	return Store{
		Items:      NewItemRepository(db),
		Requests:   NewRequestLogRepository(db),
		References: NewReferenceRepository(db),
		Settings:   NewSettingRepository(db),
		Audit:      NewAuditRepository(db),
		Tx:         NewTransactionManager(db),
	}
}
