package service_test

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/infra"
	"github.com/stain603/industrial-inventory-manager/internal/model"
	"github.com/stain603/industrial-inventory-manager/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubMaterialRepo struct {
	items map[uuid.UUID]*model.RawMaterial
	refs  map[uuid.UUID]int64
	moves []model.StockMovement
	// afterList runs once the list is copied, standing in for a write that
	// commits while a reader is still computing.
	afterList func()
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{items: map[uuid.UUID]*model.RawMaterial{}, refs: map[uuid.UUID]int64{}}
}

func (r *stubMaterialRepo) add(code string, stock string) *model.RawMaterial {
	m := &model.RawMaterial{ID: uuid.New(), Code: code, Name: code, Unit: "kg", StockQuantity: decimal.RequireFromString(stock)}
	r.items[m.ID] = m
	return m
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.RawMaterial) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RawMaterial, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMaterialRepo) FindByCode(_ context.Context, code string) (*model.RawMaterial, error) {
	for _, m := range r.items {
		if strings.EqualFold(m.Code, code) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMaterialRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.RawMaterial, error) {
	var out []model.RawMaterial
	for _, id := range ids {
		if m, ok := r.items[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMaterialRepo) List(_ context.Context, _ dto.RawMaterialFilter) ([]model.RawMaterial, error) {
	out := make([]model.RawMaterial, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return out, nil
}

func (r *stubMaterialRepo) Update(ctx context.Context, id uuid.UUID, patch repository.RawMaterialPatch) (*model.RawMaterial, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if patch.Code != nil {
		m.Code = *patch.Code
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Unit != nil {
		m.Unit = *patch.Unit
	}
	if patch.CostPerUnit != nil {
		m.CostPerUnit = *patch.CostPerUnit
	}
	if patch.StockQuantity != nil {
		delta := patch.StockQuantity.Sub(m.StockQuantity)
		if !delta.IsZero() {
			return r.AdjustStock(ctx, id, delta, patch.StockReason)
		}
	}
	cp := *m
	return &cp, nil
}

func (r *stubMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubMaterialRepo) AdjustStock(_ context.Context, id uuid.UUID, delta decimal.Decimal, reason string) (*model.RawMaterial, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	next := m.StockQuantity.Add(delta)
	if next.IsNegative() {
		return nil, repository.ErrNegativeStock
	}
	kind := model.MovementReceipt
	if delta.IsNegative() {
		kind = model.MovementUsage
	}
	r.moves = append([]model.StockMovement{{
		ID: uuid.New(), RawMaterialID: id, Kind: kind, Delta: delta,
		StockBefore: m.StockQuantity, StockAfter: next, Reason: reason,
	}}, r.moves...)
	m.StockQuantity = next
	cp := *m
	return &cp, nil
}

func (r *stubMaterialRepo) CountReferences(_ context.Context, id uuid.UUID) (int64, error) {
	return r.refs[id], nil
}

// stubMovementRepo reads the ledger kept by stubMaterialRepo.
type stubMovementRepo struct{ materials *stubMaterialRepo }

func (r *stubMovementRepo) CreateTx(*gorm.DB, *model.StockMovement) error { return nil }

func (r *stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var matched []model.StockMovement
	for _, mv := range r.materials.moves {
		if f.RawMaterialID != nil && mv.RawMaterialID != *f.RawMaterialID {
			continue
		}
		if f.Kind != "" && mv.Kind != f.Kind {
			continue
		}
		matched = append(matched, mv)
	}
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

type stubProductRepo struct {
	items     map[uuid.UUID]*model.Product
	materials *stubMaterialRepo
}

func newStubProductRepo(materials *stubMaterialRepo) *stubProductRepo {
	return &stubProductRepo{items: map[uuid.UUID]*model.Product{}, materials: materials}
}

// hydrate mimics the repository preload of each line's raw material.
func (r *stubProductRepo) hydrate(p *model.Product) *model.Product {
	cp := *p
	cp.Materials = make([]model.ProductMaterial, len(p.Materials))
	copy(cp.Materials, p.Materials)
	for i := range cp.Materials {
		if m, ok := r.materials.items[cp.Materials[i].RawMaterialID]; ok {
			mc := *m
			cp.Materials[i].RawMaterial = &mc
		}
	}
	return &cp
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Materials {
		p.Materials[i].ID = uuid.New()
		p.Materials[i].ProductID = p.ID
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(p), nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.items {
		if strings.EqualFold(p.Code, code) {
			return r.hydrate(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *r.hydrate(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *stubProductRepo) Update(ctx context.Context, p *model.Product) error {
	if _, ok := r.items[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	return r.Create(ctx, p)
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

// stubLineRepo stores lines inside the product stub so both views agree.
type stubLineRepo struct{ products *stubProductRepo }

func (r *stubLineRepo) find(id uuid.UUID) (*model.Product, int) {
	for _, p := range r.products.items {
		for i := range p.Materials {
			if p.Materials[i].ID == id {
				return p, i
			}
		}
	}
	return nil, -1
}

func (r *stubLineRepo) Create(_ context.Context, pm *model.ProductMaterial) error {
	p, ok := r.products.items[pm.ProductID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pm.ID = uuid.New()
	p.Materials = append(p.Materials, *pm)
	if m, ok := r.products.materials.items[pm.RawMaterialID]; ok {
		mc := *m
		pm.RawMaterial = &mc
	}
	return nil
}

func (r *stubLineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductMaterial, error) {
	p, i := r.find(id)
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	line := r.products.hydrate(p).Materials[i]
	return &line, nil
}

func (r *stubLineRepo) List(ctx context.Context) ([]model.ProductMaterial, error) {
	var out []model.ProductMaterial
	products, _ := r.products.List(ctx)
	for _, p := range products {
		out = append(out, p.Materials...)
	}
	return out, nil
}

func (r *stubLineRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.ProductMaterial, error) {
	p, ok := r.products.items[productID]
	if !ok {
		return nil, nil
	}
	return r.products.hydrate(p).Materials, nil
}

func (r *stubLineRepo) Update(_ context.Context, pm *model.ProductMaterial) error {
	p, i := r.find(pm.ID)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.Materials[i].RawMaterialID = pm.RawMaterialID
	p.Materials[i].QuantityRequired = pm.QuantityRequired
	if m, ok := r.products.materials.items[pm.RawMaterialID]; ok {
		mc := *m
		pm.RawMaterial = &mc
	}
	return nil
}

func (r *stubLineRepo) Delete(_ context.Context, id uuid.UUID) error {
	p, i := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.Materials = append(p.Materials[:i], p.Materials[i+1:]...)
	return nil
}

func (r *stubLineRepo) NextPosition(_ context.Context, productID uuid.UUID) (int, error) {
	return len(r.products.items[productID].Materials), nil
}

// ── Cache fake ────────────────────────────────────────────────────────────────

type memCache struct {
	data    map[string][]byte
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := c.data[key]
	if !ok {
		return nil, infra.ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deletes++
	return nil
}
