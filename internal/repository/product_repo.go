package repository

import (
	"context"

	"github.com/stain603/industrial-inventory-manager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products and their
// bill of materials. Every read preloads the BOM in position order.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)

	// Update saves the product columns and replaces its BOM with p.Materials.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes the product together with its BOM lines.
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func withBOM(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Materials.RawMaterial")
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := withBOM(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	if err := withBOM(r.db.WithContext(ctx)).Where("lower(code) = lower(?)", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var list []model.Product
	err := withBOM(r.db.WithContext(ctx)).Order("code ASC").Find(&list).Error
	return list, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"code":  p.Code,
			"name":  p.Name,
			"price": p.Price,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&model.ProductMaterial{}).Error; err != nil {
			return err
		}
		for i := range p.Materials {
			p.Materials[i].ID = uuid.Nil
			p.Materials[i].ProductID = p.ID
			p.Materials[i].Position = i
		}
		if len(p.Materials) > 0 {
			if err := tx.Omit("RawMaterial").Create(&p.Materials).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductMaterial{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
