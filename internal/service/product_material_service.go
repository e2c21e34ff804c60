package service

import (
	"context"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/model"
	"github.com/stain603/industrial-inventory-manager/internal/repository"

	"github.com/google/uuid"
)

// ProductMaterialService manages individual bill-of-materials lines.
type ProductMaterialService interface {
	Create(ctx context.Context, req dto.CreateProductMaterialRequest) (*dto.ProductMaterialResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductMaterialResponse, error)
	List(ctx context.Context) ([]dto.ProductMaterialResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.ProductMaterialResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductMaterialRequest) (*dto.ProductMaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productMaterialService struct {
	repo      repository.ProductMaterialRepository
	products  repository.ProductRepository
	materials repository.RawMaterialRepository
	cache     infra.Cache
}

func NewProductMaterialService(
	repo repository.ProductMaterialRepository,
	products repository.ProductRepository,
	materials repository.RawMaterialRepository,
	cache infra.Cache,
) ProductMaterialService {
	return &productMaterialService{repo: repo, products: products, materials: materials, cache: cache}
}

func (s *productMaterialService) Create(ctx context.Context, req dto.CreateProductMaterialRequest) (*dto.ProductMaterialResponse, error) {
	if err := checkScale("quantityRequired", req.QuantityRequired, quantityPlaces); err != nil {
		return nil, err
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, errorf(ErrInvalid, "invalid productId %q", req.ProductID)
	}
	materialID, err := uuid.Parse(req.RawMaterialID)
	if err != nil {
		return nil, errorf(ErrInvalid, "invalid rawMaterialId %q", req.RawMaterialID)
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}
	if _, err := s.materials.FindByID(ctx, materialID); err != nil {
		return nil, translate(err, "raw material")
	}
	if err := s.ensureNotListed(ctx, productID, materialID, uuid.Nil); err != nil {
		return nil, err
	}

	pos, err := s.repo.NextPosition(ctx, productID)
	if err != nil {
		return nil, err
	}
	pm := &model.ProductMaterial{
		ProductID:        productID,
		RawMaterialID:    materialID,
		QuantityRequired: req.QuantityRequired,
		Position:         pos,
	}
	if err := s.repo.Create(ctx, pm); err != nil {
		return nil, translate(err, "bill-of-materials line")
	}
	invalidateSuggestions(ctx, s.cache)

	resp := toProductMaterialResponse(pm)
	return &resp, nil
}

func (s *productMaterialService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductMaterialResponse, error) {
	pm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "bill-of-materials line")
	}
	resp := toProductMaterialResponse(pm)
	return &resp, nil
}

func (s *productMaterialService) List(ctx context.Context) ([]dto.ProductMaterialResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toLineResponses(list), nil
}

func (s *productMaterialService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.ProductMaterialResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, translate(err, "product")
	}
	list, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toLineResponses(list), nil
}

func (s *productMaterialService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductMaterialRequest) (*dto.ProductMaterialResponse, error) {
	pm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "bill-of-materials line")
	}

	if req.RawMaterialID != nil {
		materialID, err := uuid.Parse(*req.RawMaterialID)
		if err != nil {
			return nil, errorf(ErrInvalid, "invalid rawMaterialId %q", *req.RawMaterialID)
		}
		if materialID != pm.RawMaterialID {
			if _, err := s.materials.FindByID(ctx, materialID); err != nil {
				return nil, translate(err, "raw material")
			}
			if err := s.ensureNotListed(ctx, pm.ProductID, materialID, pm.ID); err != nil {
				return nil, err
			}
			pm.RawMaterialID = materialID
		}
	}
	if req.QuantityRequired != nil {
		if err := checkScale("quantityRequired", *req.QuantityRequired, quantityPlaces); err != nil {
			return nil, err
		}
		pm.QuantityRequired = *req.QuantityRequired
	}

	if err := s.repo.Update(ctx, pm); err != nil {
		return nil, translate(err, "bill-of-materials line")
	}
	invalidateSuggestions(ctx, s.cache)

	resp := toProductMaterialResponse(pm)
	return &resp, nil
}

func (s *productMaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "bill-of-materials line")
	}
	invalidateSuggestions(ctx, s.cache)
	return nil
}

// ensureNotListed enforces one line per raw material within a product.
func (s *productMaterialService) ensureNotListed(ctx context.Context, productID, materialID, self uuid.UUID) error {
	lines, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.RawMaterialID == materialID && l.ID != self {
			return errorf(ErrConflict, "raw material already in the product's bill of materials")
		}
	}
	return nil
}

func toLineResponses(list []model.ProductMaterial) []dto.ProductMaterialResponse {
	out := make([]dto.ProductMaterialResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductMaterialResponse(&list[i]))
	}
	return out
}
