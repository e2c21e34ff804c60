package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/model"
	"github.com/stain603/industrial-inventory-manager/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for products and their
// bill of materials.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	materials repository.RawMaterialRepository
	cache     infra.Cache
}

func NewProductService(repo repository.ProductRepository, materials repository.RawMaterialRepository, cache infra.Cache) ProductService {
	return &productService{repo: repo, materials: materials, cache: cache}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := checkScale("price", req.Price, moneyPlaces); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}
	lines, err := s.buildBOM(ctx, req.Materials)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Materials: lines,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translate(err, "product")
	}
	invalidateSuggestions(ctx, s.cache)

	return s.GetByID(ctx, p.ID)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	resp := toProductResponse(p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	return out, nil
}

// Update replaces code, name, price and the whole bill of materials.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}

	if err := checkScale("price", req.Price, moneyPlaces); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if !strings.EqualFold(code, p.Code) {
		if err := s.ensureCodeFree(ctx, code, p.ID); err != nil {
			return nil, err
		}
	}
	lines, err := s.buildBOM(ctx, req.Materials)
	if err != nil {
		return nil, err
	}

	p.Code = code
	p.Name = strings.TrimSpace(req.Name)
	p.Price = req.Price
	p.Materials = lines
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translate(err, "product")
	}
	invalidateSuggestions(ctx, s.cache)

	return s.GetByID(ctx, p.ID)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "product")
	}
	invalidateSuggestions(ctx, s.cache)
	return nil
}

// buildBOM validates request lines: ids must parse, reference existing raw
// materials, and appear at most once. Positions follow request order.
func (s *productService) buildBOM(ctx context.Context, req []dto.BOMLineRequest) ([]model.ProductMaterial, error) {
	lines := make([]model.ProductMaterial, 0, len(req))
	ids := make([]uuid.UUID, 0, len(req))
	seen := make(map[uuid.UUID]bool, len(req))

	for i, l := range req {
		raw := l.MaterialID()
		if raw == "" {
			return nil, errorf(ErrInvalid, "materials[%d]: raw material id is required", i)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errorf(ErrInvalid, "materials[%d]: invalid raw material id %q", i, raw)
		}
		if !l.QuantityRequired.IsPositive() {
			return nil, errorf(ErrInvalid, "materials[%d]: quantityRequired must be greater than zero", i)
		}
		if err := checkScale(fmt.Sprintf("materials[%d].quantityRequired", i), l.QuantityRequired, quantityPlaces); err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, errorf(ErrInvalid, "materials[%d]: raw material %s listed twice", i, id)
		}
		seen[id] = true
		ids = append(ids, id)
		lines = append(lines, model.ProductMaterial{RawMaterialID: id, QuantityRequired: l.QuantityRequired, Position: i})
	}

	found, err := s.materials.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		known := make(map[uuid.UUID]bool, len(found))
		for _, m := range found {
			known[m.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, errorf(ErrInvalid, "raw material %s does not exist", id)
			}
		}
	}
	return lines, nil
}

func (s *productService) ensureCodeFree(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := s.repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return errorf(ErrConflict, "product code %q already exists", code)
	}
	return nil
}
