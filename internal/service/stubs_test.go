package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ───────────────────────────────────────────────────────────

// memStore backs every stub repository. Order fulfillment records movements
// from several goroutines, so all access goes through mu.
type memStore struct {
	mu        sync.Mutex
	products  map[int64]*model.Product
	movements map[int64]*model.StockMovement
	bundles   map[int64]*model.BundleProduct
	orders    map[string]*model.Order
	errLogs   []model.ErrorLog
	seq       int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[int64]*model.Product),
		movements: make(map[int64]*model.StockMovement),
		bundles:   make(map[int64]*model.BundleProduct),
		orders:    make(map[string]*model.Order),
	}
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *memStore) seedProduct(id int64, quantity int) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := &model.Product{ID: id, ProductNumber: id, Name: "Product", Pack: 1, Quantity: quantity, ActiveAt: &now}
	s.products[id] = p
	return p
}

func (s *memStore) seedBundle(id, productID int64, pack int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles[id] = &model.BundleProduct{ID: id, ProductID: productID, Name: "Bundle", Pack: pack}
}

func (s *memStore) quantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Quantity
}

// ledgerSum is the signed sum of the product's movements.
func (s *memStore) ledgerSum(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, m := range s.movements {
		if m.ProductID == productID {
			sum += m.Contribution()
		}
	}
	return sum
}

func (s *memStore) movementsOf(productID int64) []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockMovement
	for _, m := range s.movements {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── Product repository ────────────────────────────────────────────────────────

type stubProductRepo struct{ s *memStore }

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.s.nextID()
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) CreateBatch(_ context.Context, ps []model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range ps {
		cp := ps[i]
		r.s.products[cp.ID] = &cp
	}
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindWithMovements(ctx context.Context, id int64) (*model.Product, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Movements = r.s.movementsOf(id)
	return p, nil
}

func (r *stubProductRepo) FindPublishedByCode(_ context.Context, code string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Code != nil && *p.Code == code && p.Pack == 1 && p.ActiveAt != nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Quantity = cur.Quantity
	r.s.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Count(_ context.Context, _ repository.ProductQuery) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.products)), nil
}

func (r *stubProductRepo) List(_ context.Context, _ repository.ProductQuery, offset, limit int) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.Product
	for _, p := range r.s.products {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, offset, limit), nil
}

func (r *stubProductRepo) ListBelowThreshold(_ context.Context, reorderPoint int) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.Quantity <= p.Threshold(reorderPoint) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

func (r *stubProductRepo) CountByStatus(_ context.Context, reorderPoint int) (dto.ProductStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st dto.ProductStats
	for _, p := range r.s.products {
		st.Total++
		switch p.Status(reorderPoint) {
		case model.StockOutOfStock:
			st.OutOfStock++
		case model.StockLow:
			st.Low++
		default:
			st.Normal++
		}
	}
	return st, nil
}

func (r *stubProductRepo) FindByNumberTx(_ *gorm.DB, number int64) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ProductNumber == number {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) AdjustQuantityTx(_ *gorm.DB, id int64, delta int, allowNegative bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return apierror.ErrNotFound
	}
	if !allowNegative && delta < 0 && p.Quantity+delta < 0 {
		return apierror.ErrInsufficientStock
	}
	p.Quantity += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Stock movement repository ─────────────────────────────────────────────────

type stubMovementRepo struct{ s *memStore }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.nextID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *stubMovementRepo) FindByIDTx(_ *gorm.DB, id int64) (*model.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMovementRepo) UpdateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements[m.ID] = &cp
	return nil
}

func (r *stubMovementRepo) DeleteTx(_ *gorm.DB, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.movements, id)
	return nil
}

func (r *stubMovementRepo) filtered(q repository.StockQuery) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.s.movements {
		if q.ProductID != nil && m.ProductID != *q.ProductID {
			continue
		}
		if q.MovementType != "" && string(m.MovementType) != q.MovementType {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *stubMovementRepo) Count(_ context.Context, q repository.StockQuery) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(q))), nil
}

func (r *stubMovementRepo) List(_ context.Context, q repository.StockQuery, offset, limit int) ([]model.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.filtered(q), offset, limit), nil
}

func (r *stubMovementRepo) CountByType(_ context.Context) (dto.StockCountResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c dto.StockCountResponse
	for _, m := range r.s.movements {
		c.Total++
		switch m.MovementType {
		case model.MovementIn:
			c.In++
		case model.MovementOut:
			c.Out++
		case model.MovementTransfer:
			c.Transfer++
		}
	}
	return c, nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Bundle repository ─────────────────────────────────────────────────────────

type stubBundleRepo struct{ s *memStore }

func (r *stubBundleRepo) Create(_ context.Context, b *model.BundleProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.nextID()
	cp := *b
	r.s.bundles[b.ID] = &cp
	return nil
}

func (r *stubBundleRepo) CreateBatch(ctx context.Context, bs []model.BundleProduct) error {
	for i := range bs {
		if err := r.Create(ctx, &bs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubBundleRepo) FindByIDTx(_ *gorm.DB, id int64) (*model.BundleProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bundles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

var _ repository.BundleProductRepository = (*stubBundleRepo)(nil)

// ── Order repository ──────────────────────────────────────────────────────────

type stubOrderRepo struct{ s *memStore }

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.CreatedAt = time.Now()
	for i := range o.Details {
		o.Details[i].ID = r.s.nextID()
		o.Details[i].OrderID = o.ID
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) CreateBatch(ctx context.Context, orders []model.Order) error {
	for i := range orders {
		if err := r.CreateTx(nil, &orders[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) Count(_ context.Context, _ repository.OrderQuery) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.orders)), nil
}

func (r *stubOrderRepo) List(_ context.Context, _ repository.OrderQuery, offset, limit int) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []model.Order
	for _, o := range r.s.orders {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, offset, limit), nil
}

func (r *stubOrderRepo) Summary(_ context.Context) (dto.OrderStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := dto.OrderStats{Revenue: decimal.Zero}
	for _, o := range r.s.orders {
		st.Count++
		st.Revenue = st.Revenue.Add(o.OrderAmount)
	}
	return st, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Error log repository ──────────────────────────────────────────────────────

type stubErrorLogRepo struct{ s *memStore }

func (r *stubErrorLogRepo) Create(_ context.Context, e *model.ErrorLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.errLogs = append(r.s.errLogs, *e)
	return nil
}

var _ repository.ErrorLogRepository = (*stubErrorLogRepo)(nil)

// ── Stats cache ───────────────────────────────────────────────────────────────

type stubStatsCache struct {
	mu          sync.Mutex
	value       *dto.StatsResponse
	invalidated int
	// onInvalidate, when set, runs after each Invalidate.
	onInvalidate func()
}

func (c *stubStatsCache) Get(_ context.Context) (*dto.StatsResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.value != nil, nil
}

func (c *stubStatsCache) Set(_ context.Context, v *dto.StatsResponse, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	return nil
}

func (c *stubStatsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.value = nil
	c.invalidated++
	hook := c.onInvalidate
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

var _ cache.StatsCache = (*stubStatsCache)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func window[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:           "http://localhost:8000/api/v1",
		AllowNegativeStock:   true,
		ReorderPoint:         10,
		StatsCacheTTLSeconds: 60,
	}
}

type fixture struct {
	store    *memStore
	stats    *stubStatsCache
	products *stubProductRepo
	cfg      *config.Config
}

func newFixture() *fixture {
	s := newMemStore()
	return &fixture{
		store:    s,
		stats:    &stubStatsCache{},
		products: &stubProductRepo{s: s},
		cfg:      testConfig(),
	}
}
