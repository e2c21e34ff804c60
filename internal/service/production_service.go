package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/production"
	"github.com/stain603/industrial-inventory-manager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductionService turns current products and stock into capacity reports
// and production suggestions.
type ProductionService interface {
	// Suggestions is the greedy plan: most valuable products first, each
	// consuming the stock it uses.
	Suggestions(ctx context.Context) ([]dto.ProductionSuggestion, error)
	// Capacity evaluates every product on its own against the full stock.
	Capacity(ctx context.Context) (*dto.CapacityReportResponse, error)
	ProductCapacity(ctx context.Context, productID uuid.UUID) (*dto.ProductCapacityResponse, error)
	Report(ctx context.Context) (infra.Report, error)
	ReportPDF(ctx context.Context, w io.Writer) error
	ReportXLSX(ctx context.Context, w io.Writer) error
	// SaveReportPDF writes the PDF under the storage path for the scheduled
	// mail and prunes older copies.
	SaveReportPDF(ctx context.Context) (string, error)
}

type productionService struct {
	products    repository.ProductRepository
	materials   repository.RawMaterialRepository
	cache       infra.Cache
	ttl         time.Duration
	storagePath string
	keepReports int
	now         func() time.Time
}

func NewProductionService(
	products repository.ProductRepository,
	materials repository.RawMaterialRepository,
	cache infra.Cache,
	ttl time.Duration,
	storagePath string,
	keepReports int,
) ProductionService {
	return &productionService{
		products:    products,
		materials:   materials,
		cache:       cache,
		ttl:         ttl,
		storagePath: storagePath,
		keepReports: keepReports,
		now:         time.Now,
	}
}

func (s *productionService) Suggestions(ctx context.Context) ([]dto.ProductionSuggestion, error) {
	// read the generation before loading: an entry is never older than its key
	key := suggestionsKey(suggestionsGeneration(ctx, s.cache))
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var out []dto.ProductionSuggestion
		if jsonErr := json.Unmarshal(cached, &out); jsonErr == nil {
			return out, nil
		}
	}

	items, stock, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	results := production.Suggest(items, stock)

	out := make([]dto.ProductionSuggestion, 0, len(results))
	for _, r := range results {
		out = append(out, toSuggestion(r))
	}

	if s.ttl > 0 {
		if b, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
				log.Warn().Err(err).Msg("cache: storing suggestions failed")
			}
		}
	}
	return out, nil
}

func (s *productionService) Capacity(ctx context.Context) (*dto.CapacityReportResponse, error) {
	items, stock, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	results := production.Capacity(items, stock)

	resp := &dto.CapacityReportResponse{
		Items:   make([]dto.ProductionSuggestion, 0, len(results)),
		Summary: toSummary(production.Summarize(results)),
	}
	for _, r := range results {
		resp.Items = append(resp.Items, toSuggestion(r))
	}
	return resp, nil
}

// ProductCapacity explains one product's capacity line by line; the lines
// whose allowance equals the producible quantity are marked limiting.
func (s *productionService) ProductCapacity(ctx context.Context, productID uuid.UUID) (*dto.ProductCapacityResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, translate(err, "product")
	}

	stock := make(production.Stock, len(p.Materials))
	for _, pm := range p.Materials {
		if pm.RawMaterial != nil {
			stock[pm.RawMaterialID] = pm.RawMaterial.StockQuantity
		}
	}
	item := toItem(p)
	qty := production.Producible(item.Lines, stock)

	resp := &dto.ProductCapacityResponse{
		ProductionSuggestion: toSuggestion(production.Result{Item: item, ProducibleQuantity: qty, TotalValue: production.Value(qty, item.Price)}),
		Lines:                make([]dto.LineAllowance, 0, len(p.Materials)),
	}
	for _, pm := range p.Materials {
		la := dto.LineAllowance{
			RawMaterialID:    pm.RawMaterialID.String(),
			QuantityRequired: pm.QuantityRequired,
			StockQuantity:    stock[pm.RawMaterialID],
		}
		if pm.RawMaterial != nil {
			la.RawMaterialCode = pm.RawMaterial.Code
		}
		if units, ok := production.Allowance(production.Line{MaterialID: pm.RawMaterialID, Required: pm.QuantityRequired}, stock); ok {
			la.Allowance = &units
			la.Limiting = units == qty
		}
		resp.Lines = append(resp.Lines, la)
	}
	return resp, nil
}

// Report is the suggestion plan in printable form.
func (s *productionService) Report(ctx context.Context) (infra.Report, error) {
	items, stock, err := s.load(ctx)
	if err != nil {
		return infra.Report{}, err
	}
	results := production.Suggest(items, stock)
	return infra.Report{
		Title:       "Production suggestions",
		GeneratedAt: s.now(),
		Rows:        results,
		Summary:     production.Summarize(results),
	}, nil
}

func (s *productionService) ReportPDF(ctx context.Context, w io.Writer) error {
	r, err := s.Report(ctx)
	if err != nil {
		return err
	}
	return infra.RenderReportPDF(r, w)
}

func (s *productionService) SaveReportPDF(ctx context.Context) (string, error) {
	r, err := s.Report(ctx)
	if err != nil {
		return "", err
	}
	path, err := infra.WriteReportPDF(r, s.storagePath)
	if err != nil {
		return "", err
	}
	// keep at least the file just written; the mail job still needs it
	keep := s.keepReports
	if keep < 1 {
		keep = 1
	}
	if n, err := infra.PruneReports(s.storagePath, "pdf", keep); err != nil {
		log.Warn().Err(err).Str("dir", s.storagePath).Msg("reports: pruning failed")
	} else if n > 0 {
		log.Debug().Int("removed", n).Msg("reports: pruned old files")
	}
	return path, nil
}

func (s *productionService) ReportXLSX(ctx context.Context, w io.Writer) error {
	r, err := s.Report(ctx)
	if err != nil {
		return err
	}
	return infra.WriteReportXLSX(r, w)
}

func (s *productionService) load(ctx context.Context) ([]production.Item, production.Stock, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	materials, err := s.materials.List(ctx, dto.RawMaterialFilter{})
	if err != nil {
		return nil, nil, err
	}

	items := make([]production.Item, 0, len(products))
	for i := range products {
		items = append(items, toItem(&products[i]))
	}
	return items, toStock(materials), nil
}
