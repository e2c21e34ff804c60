package repository

import (
	"context"

	"github.com/stain603/industrial-inventory-manager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductMaterialRepository gives line-level access to bills of materials.
type ProductMaterialRepository interface {
	Create(ctx context.Context, pm *model.ProductMaterial) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductMaterial, error)
	List(ctx context.Context) ([]model.ProductMaterial, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductMaterial, error)
	Update(ctx context.Context, pm *model.ProductMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error

	// NextPosition returns the position a new line appended to the product's BOM gets.
	NextPosition(ctx context.Context, productID uuid.UUID) (int, error)
}

type productMaterialRepo struct{ db *gorm.DB }

func NewProductMaterialRepository(db *gorm.DB) ProductMaterialRepository {
	return &productMaterialRepo{db: db}
}

func (r *productMaterialRepo) Create(ctx context.Context, pm *model.ProductMaterial) error {
	if err := r.db.WithContext(ctx).Omit("RawMaterial").Create(pm).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("RawMaterial").First(pm, "id = ?", pm.ID).Error
}

func (r *productMaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductMaterial, error) {
	var pm model.ProductMaterial
	if err := r.db.WithContext(ctx).Preload("RawMaterial").First(&pm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *productMaterialRepo) List(ctx context.Context) ([]model.ProductMaterial, error) {
	var list []model.ProductMaterial
	err := r.db.WithContext(ctx).Preload("RawMaterial").Order("product_id ASC, position ASC").Find(&list).Error
	return list, err
}

func (r *productMaterialRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductMaterial, error) {
	var list []model.ProductMaterial
	err := r.db.WithContext(ctx).Preload("RawMaterial").
		Where("product_id = ?", productID).
		Order("position ASC").Find(&list).Error
	return list, err
}

func (r *productMaterialRepo) Update(ctx context.Context, pm *model.ProductMaterial) error {
	res := r.db.WithContext(ctx).Model(&model.ProductMaterial{}).Where("id = ?", pm.ID).Updates(map[string]interface{}{
		"raw_material_id":   pm.RawMaterialID,
		"quantity_required": pm.QuantityRequired,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Preload("RawMaterial").First(pm, "id = ?", pm.ID).Error
}

func (r *productMaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductMaterial{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productMaterialRepo) NextPosition(ctx context.Context, productID uuid.UUID) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Model(&model.ProductMaterial{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(position), -1) + 1").Scan(&next).Error
	return next, err
}
