package dto

import "github.com/shopspring/decimal"

// ProductionSuggestion is one product annotated with how much of it the
// current stock supports.
type ProductionSuggestion struct {
	ProductID          string          `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	ProducibleQuantity int64           `json:"producibleQuantity"`
	TotalValue         decimal.Decimal `json:"totalValue"`
}

type ProductionSummary struct {
	Products   int             `json:"products"`
	TotalUnits int64           `json:"totalUnits"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

type CapacityReportResponse struct {
	Items   []ProductionSuggestion `json:"items"`
	Summary ProductionSummary      `json:"summary"`
}

// LineAllowance explains a single BOM line's contribution to a product's capacity.
type LineAllowance struct {
	RawMaterialID    string          `json:"rawMaterialId"`
	RawMaterialCode  string          `json:"rawMaterialCode"`
	QuantityRequired decimal.Decimal `json:"quantityRequired"`
	StockQuantity    decimal.Decimal `json:"stockQuantity"`
	Allowance        *int64          `json:"allowance"` // nil when the line does not constrain
	Limiting         bool            `json:"limiting"`
}

type ProductCapacityResponse struct {
	ProductionSuggestion
	Lines []LineAllowance `json:"lines"`
}
