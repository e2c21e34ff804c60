package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// MaterialRef is the nested {"id": ...} form used by browser clients.
type MaterialRef struct {
	ID string `json:"id"`
}

// BOMLineRequest references a raw material either by rawMaterialId or by a
// nested rawMaterial object.
type BOMLineRequest struct {
	RawMaterialID    string          `json:"rawMaterialId"    validate:"omitempty,uuid"`
	RawMaterial      *MaterialRef    `json:"rawMaterial"`
	QuantityRequired decimal.Decimal `json:"quantityRequired" validate:"gt=0"`
}

// MaterialID returns whichever reference form was supplied.
func (l BOMLineRequest) MaterialID() string {
	if l.RawMaterialID != "" {
		return l.RawMaterialID
	}
	if l.RawMaterial != nil {
		return l.RawMaterial.ID
	}
	return ""
}

type CreateProductRequest struct {
	Code      string           `json:"code"      validate:"required,min=1,max=40"`
	Name      string           `json:"name"      validate:"required,min=2,max=120"`
	Price     decimal.Decimal  `json:"price"     validate:"min=0"`
	Materials []BOMLineRequest `json:"materials" validate:"dive"`
}

// UpdateProductRequest replaces the product; Materials replaces the whole BOM.
type UpdateProductRequest struct {
	Code      string           `json:"code"      validate:"required,min=1,max=40"`
	Name      string           `json:"name"      validate:"required,min=2,max=120"`
	Price     decimal.Decimal  `json:"price"     validate:"min=0"`
	Materials []BOMLineRequest `json:"materials" validate:"dive"`
}

type CreateProductMaterialRequest struct {
	ProductID        string          `json:"productId"        validate:"required,uuid"`
	RawMaterialID    string          `json:"rawMaterialId"    validate:"required,uuid"`
	QuantityRequired decimal.Decimal `json:"quantityRequired" validate:"gt=0"`
}

type UpdateProductMaterialRequest struct {
	RawMaterialID    *string          `json:"rawMaterialId"    validate:"omitempty,uuid"`
	QuantityRequired *decimal.Decimal `json:"quantityRequired" validate:"omitempty,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MaterialSummary struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
	Unit string `json:"unit,omitempty"`
}

type ProductMaterialResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"productId"`
	RawMaterialID    string          `json:"rawMaterialId"`
	RawMaterial      MaterialSummary `json:"rawMaterial"`
	QuantityRequired decimal.Decimal `json:"quantityRequired"`
	Position         int             `json:"position"`
}

type ProductResponse struct {
	ID        string                    `json:"id"`
	Code      string                    `json:"code"`
	Name      string                    `json:"name"`
	Price     decimal.Decimal           `json:"price"`
	Materials []ProductMaterialResponse `json:"materials"`
}
