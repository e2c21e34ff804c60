package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RawMaterial is a stocked input consumed when products are manufactured.
type RawMaterial struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code          string          `gorm:"uniqueIndex;not null"`
	Name          string          `gorm:"index;not null"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	Unit          string          `gorm:"not null;default:'unit'"`
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (RawMaterial) TableName() string { return "raw_materials" }

// BeforeCreate assigns the primary key client-side so SQLite and Postgres behave alike.
func (m *RawMaterial) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
