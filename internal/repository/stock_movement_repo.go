package repository

import (
	"context"

	"github.com/stain603/industrial-inventory-manager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementFilter narrows a movement listing. Page is 1-based.
type StockMovementFilter struct {
	RawMaterialID *uuid.UUID
	Kind          string
	Page          int
	Limit         int
}

// Normalize clamps paging to sane values.
func (f StockMovementFilter) Normalize() StockMovementFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 100
	}
	return f
}

type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Omit("RawMaterial").Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error) {
	filter = filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.StockMovement{})
	if filter.RawMaterialID != nil {
		q = q.Where("raw_material_id = ?", *filter.RawMaterialID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.StockMovement
	err := q.Preload("RawMaterial").
		Order("created_at DESC, id").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}
