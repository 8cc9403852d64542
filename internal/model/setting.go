package model

import "time"

// SettingCatalogUpdatedAt holds the RFC3339 time of the last catalog import
const SettingCatalogUpdatedAt = "catalog_updated_at"

// Setting is a key/value pair for small pieces of application state
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
