package stock_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el motor de stock
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct {
	productID   string
	warehouseID string
}

// memStockRepo guarda saldos en un map. Devuelve copias para que las mutaciones
// del caso de uso no toquen el estado hasta el Upsert.
type memStockRepo struct {
	mu   sync.Mutex
	rows map[stockKey]entity.Stock
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{rows: make(map[stockKey]entity.Stock)}
}

func (r *memStockRepo) seed(productID, warehouseID string, available, reserved int64, unitType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[stockKey{productID, warehouseID}] = entity.Stock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Available:   decimal.NewFromInt(available),
		Reserved:    decimal.NewFromInt(reserved),
		UnitType:    unitType,
		UpdatedAt:   time.Now(),
	}
}

func (r *memStockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[stockKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (r *memStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *memStockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[stockKey{s.ProductID, s.WarehouseID}] = *s
	return nil
}

func (r *memStockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Stock
	for k, s := range r.rows {
		if k.productID == productID {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memStockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Stock
	for k, s := range r.rows {
		if k.warehouseID == warehouseID {
			cp := s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memStockRepo) snapshot() map[stockKey]entity.Stock {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[stockKey]entity.Stock, len(r.rows))
	for k, v := range r.rows {
		cp[k] = v
	}
	return cp
}

func (r *memStockRepo) restore(snap map[stockKey]entity.Stock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = snap
}

// memMovementRepo acumula el ledger en un slice, más reciente al final.
// failNextCreate fuerza el fallo del siguiente Create para probar rollback.
type memMovementRepo struct {
	mu             sync.Mutex
	movements      []*entity.StockMovement
	failNextCreate error
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNextCreate != nil {
		err := r.failNextCreate
		r.failNextCreate = nil
		return err
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByWarehouse(_ context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		touches := (m.OriginWarehouseID != nil && *m.OriginWarehouseID == warehouseID) ||
			(m.DestinationWarehouseID != nil && *m.DestinationWarehouseID == warehouseID)
		if touches {
			out = append(out, m)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

func (r *memMovementRepo) byType(t string) []*entity.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// memTxRunner serializa las "transacciones" con un mutex (equivalente al lock de
// fila) y restaura el estado previo si fn falla, simulando el rollback.
type memTxRunner struct {
	mu        sync.Mutex
	stockRepo *memStockRepo
	movRepo   *memMovementRepo
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.stockRepo.snapshot()
	movSnap := len(r.movRepo.movements)
	if err := fn(r.stockRepo, r.movRepo); err != nil {
		r.stockRepo.restore(snap)
		r.movRepo.movements = r.movRepo.movements[:movSnap]
		return err
	}
	return nil
}

// memProductRepo y memWarehouseRepo: catálogo mínimo para validateRefs.
type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetBySKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

type memWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *memWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *memWarehouseRepo) List(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}
