package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/model"
	"github.com/stain603/industrial-inventory-manager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RawMaterialService defines the business logic contract for raw materials.
type RawMaterialService interface {
	Create(ctx context.Context, req dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.RawMaterialResponse, error)
	List(ctx context.Context, filter dto.RawMaterialFilter) ([]dto.RawMaterialResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.RawMaterialResponse, error)
	Movements(ctx context.Context, id uuid.UUID, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type rawMaterialService struct {
	repo      repository.RawMaterialRepository
	movements repository.StockMovementRepository
	cache     infra.Cache
}

func NewRawMaterialService(repo repository.RawMaterialRepository, movements repository.StockMovementRepository, cache infra.Cache) RawMaterialService {
	return &rawMaterialService{repo: repo, movements: movements, cache: cache}
}

func (s *rawMaterialService) Create(ctx context.Context, req dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	if err := checkScale("stockQuantity", req.StockQuantity, quantityPlaces); err != nil {
		return nil, err
	}
	if err := checkScale("costPerUnit", req.CostPerUnit, moneyPlaces); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unit"
	}
	m := &model.RawMaterial{
		Code:          code,
		Name:          strings.TrimSpace(req.Name),
		StockQuantity: req.StockQuantity,
		Unit:          unit,
		CostPerUnit:   req.CostPerUnit,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, translate(err, "raw material")
	}
	invalidateSuggestions(ctx, s.cache)

	resp := toRawMaterialResponse(m)
	return &resp, nil
}

func (s *rawMaterialService) GetByID(ctx context.Context, id uuid.UUID) (*dto.RawMaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "raw material")
	}
	resp := toRawMaterialResponse(m)
	return &resp, nil
}

func (s *rawMaterialService) List(ctx context.Context, filter dto.RawMaterialFilter) ([]dto.RawMaterialResponse, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RawMaterialResponse, 0, len(list))
	for i := range list {
		out = append(out, toRawMaterialResponse(&list[i]))
	}
	return out, nil
}

// Update writes only the fields present in req. A changed stock quantity is
// recorded on the ledger as the difference to the current stock.
func (s *rawMaterialService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "raw material")
	}

	var patch repository.RawMaterialPatch
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if !strings.EqualFold(code, m.Code) {
			if err := s.ensureCodeFree(ctx, code, m.ID); err != nil {
				return nil, err
			}
		}
		patch.Code = &code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}
	if req.Unit != nil {
		if unit := strings.TrimSpace(*req.Unit); unit != "" {
			patch.Unit = &unit
		}
	}
	if req.StockQuantity != nil {
		if err := checkScale("stockQuantity", *req.StockQuantity, quantityPlaces); err != nil {
			return nil, err
		}
		patch.StockQuantity = req.StockQuantity
		patch.StockReason = req.Reason
		if patch.StockReason == "" {
			patch.StockReason = "stock set"
		}
	}
	if req.CostPerUnit != nil {
		if err := checkScale("costPerUnit", *req.CostPerUnit, moneyPlaces); err != nil {
			return nil, err
		}
		patch.CostPerUnit = req.CostPerUnit
	}

	m, err = s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, translate(err, "raw material")
	}
	invalidateSuggestions(ctx, s.cache)

	resp := toRawMaterialResponse(m)
	return &resp, nil
}

func (s *rawMaterialService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.RawMaterialResponse, error) {
	if err := checkScale("delta", req.Delta, quantityPlaces); err != nil {
		return nil, err
	}
	m, err := s.repo.AdjustStock(ctx, id, req.Delta, req.Reason)
	if err != nil {
		return nil, translate(err, "raw material")
	}
	invalidateSuggestions(ctx, s.cache)

	log.Info().
		Str("raw_material", m.Code).
		Str("delta", req.Delta.String()).
		Str("stock", m.StockQuantity.String()).
		Str("reason", req.Reason).
		Msg("stock adjusted")

	resp := toRawMaterialResponse(m)
	return &resp, nil
}

// Movements lists the stock ledger of one raw material, newest first.
func (s *rawMaterialService) Movements(ctx context.Context, id uuid.UUID, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, translate(err, "raw material")
	}
	f := repository.StockMovementFilter{RawMaterialID: &id, Kind: filter.Kind, Page: filter.Page, Limit: filter.Limit}.Normalize()
	list, total, err := s.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockMovementListResponse{
		Items: make([]dto.StockMovementResponse, 0, len(list)),
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}
	for i := range list {
		resp.Items = append(resp.Items, toStockMovementResponse(&list[i]))
	}
	return resp, nil
}

// Delete refuses to remove a raw material that any product still uses.
func (s *rawMaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return errorf(ErrConflict, "raw material is used by %d bill-of-materials line(s)", refs)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "raw material")
	}
	invalidateSuggestions(ctx, s.cache)
	return nil
}

func (s *rawMaterialService) ensureCodeFree(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := s.repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return errorf(ErrConflict, "raw material code %q already exists", code)
	}
	return nil
}
