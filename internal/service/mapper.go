package service

import (
	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/model"
	"github.com/stain603/industrial-inventory-manager/internal/production"
)

func toRawMaterialResponse(m *model.RawMaterial) dto.RawMaterialResponse {
	return dto.RawMaterialResponse{
		ID:            m.ID.String(),
		Code:          m.Code,
		Name:          m.Name,
		StockQuantity: m.StockQuantity,
		Unit:          m.Unit,
		CostPerUnit:   m.CostPerUnit,
	}
}

func toProductMaterialResponse(pm *model.ProductMaterial) dto.ProductMaterialResponse {
	resp := dto.ProductMaterialResponse{
		ID:               pm.ID.String(),
		ProductID:        pm.ProductID.String(),
		RawMaterialID:    pm.RawMaterialID.String(),
		RawMaterial:      dto.MaterialSummary{ID: pm.RawMaterialID.String()},
		QuantityRequired: pm.QuantityRequired,
		Position:         pm.Position,
	}
	if pm.RawMaterial != nil {
		resp.RawMaterial.Code = pm.RawMaterial.Code
		resp.RawMaterial.Name = pm.RawMaterial.Name
		resp.RawMaterial.Unit = pm.RawMaterial.Unit
	}
	return resp
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	lines := make([]dto.ProductMaterialResponse, 0, len(p.Materials))
	for i := range p.Materials {
		lines = append(lines, toProductMaterialResponse(&p.Materials[i]))
	}
	return dto.ProductResponse{
		ID:        p.ID.String(),
		Code:      p.Code,
		Name:      p.Name,
		Price:     p.Price,
		Materials: lines,
	}
}

// toItem converts a product with its BOM into the calculator's input.
func toItem(p *model.Product) production.Item {
	lines := make([]production.Line, 0, len(p.Materials))
	for _, pm := range p.Materials {
		lines = append(lines, production.Line{MaterialID: pm.RawMaterialID, Required: pm.QuantityRequired})
	}
	return production.Item{ProductID: p.ID, Code: p.Code, Name: p.Name, Price: p.Price, Lines: lines}
}

func toStock(materials []model.RawMaterial) production.Stock {
	stock := make(production.Stock, len(materials))
	for _, m := range materials {
		stock[m.ID] = m.StockQuantity
	}
	return stock
}

func toSuggestion(r production.Result) dto.ProductionSuggestion {
	return dto.ProductionSuggestion{
		ProductID:          r.ProductID.String(),
		Code:               r.Code,
		Name:               r.Name,
		Price:              r.Price,
		ProducibleQuantity: r.ProducibleQuantity,
		TotalValue:         r.TotalValue,
	}
}

func toSummary(s production.Summary) dto.ProductionSummary {
	return dto.ProductionSummary{Products: s.Products, TotalUnits: s.TotalUnits, TotalValue: s.TotalValue}
}

func toStockMovementResponse(m *model.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:            m.ID.String(),
		RawMaterialID: m.RawMaterialID.String(),
		Kind:          m.Kind,
		Delta:         m.Delta,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}
