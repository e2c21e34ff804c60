package repository

import (
	"context"
	"errors"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNegativeStock is returned when a stock adjustment would drop below zero.
var ErrNegativeStock = errors.New("stock cannot go below zero")

// RawMaterialRepository defines the data access contract for raw materials.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type RawMaterialRepository interface {
	Create(ctx context.Context, m *model.RawMaterial) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error)
	FindByCode(ctx context.Context, code string) (*model.RawMaterial, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.RawMaterial, error)
	List(ctx context.Context, filter dto.RawMaterialFilter) ([]model.RawMaterial, error)
	// Update writes only the fields set in patch. A stock change is recorded
	// in the ledger like any adjustment, inside the same transaction.
	Update(ctx context.Context, id uuid.UUID, patch RawMaterialPatch) (*model.RawMaterial, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock atomically adds delta to stock_quantity, records the
	// movement and returns the updated row. Fails with ErrNegativeStock
	// instead of going below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, reason string) (*model.RawMaterial, error)

	// CountReferences returns how many BOM lines use the raw material.
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

// RawMaterialPatch holds the editable columns of a raw material; nil means
// unchanged.
type RawMaterialPatch struct {
	Code          *string
	Name          *string
	Unit          *string
	CostPerUnit   *decimal.Decimal
	StockQuantity *decimal.Decimal
	StockReason   string
}

func (p RawMaterialPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Code != nil {
		cols["code"] = *p.Code
	}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Unit != nil {
		cols["unit"] = *p.Unit
	}
	if p.CostPerUnit != nil {
		cols["cost_per_unit"] = *p.CostPerUnit
	}
	return cols
}

type rawMaterialRepo struct {
	db        *gorm.DB
	movements StockMovementRepository
}

func NewRawMaterialRepository(db *gorm.DB) RawMaterialRepository {
	return &rawMaterialRepo{db: db, movements: NewStockMovementRepository(db)}
}

func (r *rawMaterialRepo) Create(ctx context.Context, m *model.RawMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *rawMaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error) {
	var m model.RawMaterial
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *rawMaterialRepo) FindByCode(ctx context.Context, code string) (*model.RawMaterial, error) {
	var m model.RawMaterial
	if err := r.db.WithContext(ctx).Where("lower(code) = lower(?)", code).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *rawMaterialRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var list []model.RawMaterial
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *rawMaterialRepo) List(ctx context.Context, filter dto.RawMaterialFilter) ([]model.RawMaterial, error) {
	var list []model.RawMaterial
	q := r.db.WithContext(ctx).Model(&model.RawMaterial{})
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("lower(code) LIKE lower(?) OR lower(name) LIKE lower(?)", like, like)
	}
	err := q.Order("code ASC").Find(&list).Error
	return list, err
}

func (r *rawMaterialRepo) Update(ctx context.Context, id uuid.UUID, patch RawMaterialPatch) (*model.RawMaterial, error) {
	var out model.RawMaterial
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// row lock so adjustments wait for us; sqlite ignores the clause
		var cur model.RawMaterial
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cur, "id = ?", id).Error; err != nil {
			return err
		}

		if cols := patch.columns(); len(cols) > 0 {
			if err := tx.Model(&model.RawMaterial{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return err
			}
		}

		if patch.StockQuantity != nil {
			target := *patch.StockQuantity
			if target.IsNegative() {
				return ErrNegativeStock
			}
			delta := target.Sub(cur.StockQuantity)
			if !delta.IsZero() {
				if err := tx.Model(&model.RawMaterial{}).Where("id = ?", id).
					Update("stock_quantity", target).Error; err != nil {
					return err
				}
				if err := r.movements.CreateTx(tx, &model.StockMovement{
					RawMaterialID: id,
					Kind:          movementKind(delta),
					Delta:         delta,
					StockBefore:   cur.StockQuantity,
					StockAfter:    target,
					Reason:        patch.StockReason,
				}); err != nil {
					return err
				}
			}
		}

		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func movementKind(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return model.MovementUsage
	}
	return model.MovementReceipt
}

func (r *rawMaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.RawMaterial{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rawMaterialRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal, reason string) (*model.RawMaterial, error) {
	var out *model.RawMaterial
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.RawMaterial{}).
			Where("id = ? AND stock_quantity + ? >= 0", id, delta).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}

		var m model.RawMaterial
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrNegativeStock
		}

		if err := r.movements.CreateTx(tx, &model.StockMovement{
			RawMaterialID: id,
			Kind:          movementKind(delta),
			Delta:         delta,
			StockBefore:   m.StockQuantity.Sub(delta),
			StockAfter:    m.StockQuantity,
			Reason:        reason,
		}); err != nil {
			return err
		}
		out = &m
		return nil
	})
	return out, err
}

func (r *rawMaterialRepo) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductMaterial{}).Where("raw_material_id = ?", id).Count(&n).Error
	return n, err
}
