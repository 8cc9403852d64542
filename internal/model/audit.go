package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateItem      = "CREATE_ITEM"
	ActionImportCatalog   = "IMPORT_CATALOG"
	ActionCreateReference = "CREATE_REFERENCE"
	ActionDeleteReference = "DELETE_REFERENCE"
	ActionCreateRequest   = "CREATE_REQUEST"
	ActionUpdateRequest   = "UPDATE_REQUEST"
	ActionDeleteRequest   = "DELETE_REQUEST"
)

// AuditLog tracks Who, What, and When for catalog, reference list and request changes
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Actor      string    `gorm:"type:varchar(100);index" json:"actor"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(100);index" json:"entity_id"`       // Reference string (uuid/item id/value)
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string    `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
