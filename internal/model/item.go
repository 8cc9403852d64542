package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumableItem is an entry of the master catalog, keyed by its stock-keeping ID
type ConsumableItem struct {
	ID            string          `gorm:"type:varchar(100);primaryKey" json:"id"`
	Supplier      string          `gorm:"type:varchar(255)" json:"supplier"`
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Specification string          `gorm:"type:text" json:"specification"`
	Unit          string          `gorm:"type:varchar(50)" json:"unit"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
