package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductMaterial is one bill-of-materials line: QuantityRequired units of
// RawMaterialID go into one unit of ProductID.
// A product references a given raw material at most once.
type ProductMaterial struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID        uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_product_material;not null"`
	RawMaterialID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_product_material;index;not null"`
	QuantityRequired decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Position         int             `gorm:"not null;default:0"`

	RawMaterial *RawMaterial `gorm:"foreignKey:RawMaterialID"`
}

func (ProductMaterial) TableName() string { return "product_materials" }

func (pm *ProductMaterial) BeforeCreate(_ *gorm.DB) error {
	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	return nil
}
