package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock movement kinds.
const (
	MovementReceipt = "receipt"
	MovementUsage   = "usage"
)

// StockMovement is one audited change to a raw material's stock.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind          string          `gorm:"not null"`
	Delta         decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockBefore   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockAfter    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Reason        string
	CreatedAt     time.Time

	RawMaterial *RawMaterial `gorm:"foreignKey:RawMaterialID;constraint:OnDelete:CASCADE"`
}

func (StockMovement) TableName() string { return "stock_movements" }

func (m *StockMovement) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
