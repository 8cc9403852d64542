package model

import "time"

// Reference list kinds
const (
	RefKindLine          = "line"
	RefKindEquipmentCode = "equipment"
)

// ReferenceEntry is a member of one of the flat reference lists (production lines, equipment codes)
type ReferenceEntry struct {
	Kind      string    `gorm:"type:varchar(20);primaryKey" json:"kind"`
	Value     string    `gorm:"type:varchar(100);primaryKey" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
