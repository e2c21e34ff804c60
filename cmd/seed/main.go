// cmd/seed/main.go loads a small furniture workshop into the database.
// Records whose code already exists are left alone, so it can be re-run.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/stain603/industrial-inventory-manager/internal/config"
	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/router"
	"github.com/stain603/industrial-inventory-manager/internal/service"

	"github.com/shopspring/decimal"
)

type line struct {
	code string
	qty  string
}

var materials = []dto.CreateRawMaterialRequest{
	{Code: "PINE", Name: "Pine board", StockQuantity: decimal.NewFromInt(120), Unit: "m", CostPerUnit: decimal.RequireFromString("4.50")},
	{Code: "SCREW", Name: "Wood screw 4x40", StockQuantity: decimal.NewFromInt(900), Unit: "unit", CostPerUnit: decimal.RequireFromString("0.05")},
	{Code: "GLUE", Name: "PVA glue", StockQuantity: decimal.RequireFromString("7.5"), Unit: "l", CostPerUnit: decimal.RequireFromString("6.20")},
	{Code: "VARNISH", Name: "Clear varnish", StockQuantity: decimal.NewFromInt(12), Unit: "l", CostPerUnit: decimal.RequireFromString("11.00")},
}

var products = []struct {
	req dto.CreateProductRequest
	bom []line
}{
	{dto.CreateProductRequest{Code: "TABLE", Name: "Dining table", Price: decimal.RequireFromString("249.00")},
		[]line{{"PINE", "12"}, {"SCREW", "32"}, {"GLUE", "0.4"}, {"VARNISH", "1"}}},
	{dto.CreateProductRequest{Code: "CHAIR", Name: "Dining chair", Price: decimal.RequireFromString("79.00")},
		[]line{{"PINE", "4"}, {"SCREW", "16"}, {"GLUE", "0.1"}, {"VARNISH", "0.25"}}},
	{dto.CreateProductRequest{Code: "SHELF", Name: "Wall shelf", Price: decimal.RequireFromString("39.90")},
		[]line{{"PINE", "2"}, {"SCREW", "8"}}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	svcs := router.NewServices(cfg, db, nil)
	ctx := context.Background()

	ids := make(map[string]string)
	for _, m := range materials {
		created, err := svcs.RawMaterials.Create(ctx, m)
		switch {
		case errors.Is(err, service.ErrConflict):
			existing, err := svcs.RawMaterials.List(ctx, dto.RawMaterialFilter{Query: m.Code})
			if err != nil {
				log.Fatalf("lookup %s: %v", m.Code, err)
			}
			for _, e := range existing {
				if e.Code == m.Code {
					ids[m.Code] = e.ID
				}
			}
			fmt.Printf("raw material %s already present\n", m.Code)
		case err != nil:
			log.Fatalf("create %s: %v", m.Code, err)
		default:
			ids[m.Code] = created.ID
			fmt.Printf("raw material %s created\n", m.Code)
		}
	}

	for _, p := range products {
		req := p.req
		for _, l := range p.bom {
			req.Materials = append(req.Materials, dto.BOMLineRequest{
				RawMaterialID:    ids[l.code],
				QuantityRequired: decimal.RequireFromString(l.qty),
			})
		}
		_, err := svcs.Products.Create(ctx, req)
		switch {
		case errors.Is(err, service.ErrConflict):
			fmt.Printf("product %s already present\n", req.Code)
		case err != nil:
			log.Fatalf("create %s: %v", req.Code, err)
		default:
			fmt.Printf("product %s created\n", req.Code)
		}
	}
}
