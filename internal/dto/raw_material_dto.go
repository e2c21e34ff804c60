package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateRawMaterialRequest struct {
	Code          string          `json:"code"          validate:"required,min=1,max=40"`
	Name          string          `json:"name"          validate:"required,min=2,max=120"`
	StockQuantity decimal.Decimal `json:"stockQuantity" validate:"min=0"`
	Unit          string          `json:"unit"          validate:"omitempty,max=20"`
	CostPerUnit   decimal.Decimal `json:"costPerUnit"   validate:"min=0"`
}

// UpdateRawMaterialRequest replaces the editable fields; nil fields keep their value.
type UpdateRawMaterialRequest struct {
	Code          *string          `json:"code"          validate:"omitempty,min=1,max=40"`
	Name          *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	StockQuantity *decimal.Decimal `json:"stockQuantity" validate:"omitempty,min=0"`
	Unit          *string          `json:"unit"          validate:"omitempty,max=20"`
	CostPerUnit   *decimal.Decimal `json:"costPerUnit"   validate:"omitempty,min=0"`
	// Reason is recorded on the ledger entry when StockQuantity changes.
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// AdjustStockRequest moves stock by a signed delta (receipts positive, usage negative).
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Reason string          `json:"reason" validate:"omitempty,max=200"`
}

type RawMaterialFilter struct {
	Query string `form:"q"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RawMaterialResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"costPerUnit"`
}

type StockMovementFilter struct {
	Kind  string `form:"kind"  validate:"omitempty,oneof=receipt usage"`
	Page  int    `form:"page"  validate:"omitempty,min=1"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=500"`
}

type StockMovementResponse struct {
	ID            string          `json:"id"`
	RawMaterialID string          `json:"rawMaterialId"`
	Kind          string          `json:"kind"`
	Delta         decimal.Decimal `json:"delta"`
	StockBefore   decimal.Decimal `json:"stockBefore"`
	StockAfter    decimal.Decimal `json:"stockAfter"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
