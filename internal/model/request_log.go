package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestLog is one line item of a submitted consumables request.
// ItemName and TotalCost are snapshots taken when the request was filed (or last
// edited) and are never re-derived from the catalog.
type RequestLog struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID         string          `gorm:"type:varchar(100);not null" json:"requester_id"`
	Line                string          `gorm:"type:varchar(100);not null;index" json:"line"`
	EquipmentCode       string          `gorm:"type:varchar(100)" json:"equipment_code,omitempty"`
	ItemID              string          `gorm:"type:varchar(100);not null;index" json:"item_id"`
	ItemName            string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity            int             `gorm:"type:int;not null" json:"quantity"`
	TotalCost           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_cost"`
	Timestamp           time.Time       `gorm:"column:requested_at;not null;index" json:"timestamp"`
	DesiredDeliveryDate string          `gorm:"type:varchar(10)" json:"desired_delivery_date,omitempty"` // YYYY-MM-DD
}
