package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/sales"
	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
	"github.com/logiruta/logistica-api/pkg/logger"
)

const (
	saleCompanyID   = "33333333-3333-3333-3333-333333333333"
	saleWarehouseID = "22222222-2222-2222-2222-222222222222"
	saleUserID      = "44444444-4444-4444-4444-444444444444"
	saleProductA    = "11111111-1111-1111-1111-111111111111"
	saleProductB    = "55555555-5555-5555-5555-555555555555"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: un único store en memoria que hace de saldos, ledger, ventas y tx.
// RunSale toma un snapshot antes de fn y lo restaura si fn falla, simulando
// el rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type saleStoreKey struct{ productID, warehouseID string }

type saleStore struct {
	mu        sync.Mutex
	balances  map[saleStoreKey]entity.Stock
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
}

func newSaleStore() *saleStore {
	return &saleStore{
		balances: make(map[saleStoreKey]entity.Stock),
		sales:    make(map[string]*entity.Sale),
	}
}

func (s *saleStore) seed(productID string, available int64) {
	s.balances[saleStoreKey{productID, saleWarehouseID}] = entity.Stock{
		ProductID:   productID,
		WarehouseID: saleWarehouseID,
		Available:   decimal.NewFromInt(available),
		Reserved:    decimal.Zero,
		UnitType:    "unidad",
		UpdatedAt:   time.Now(),
	}
}

// StockRepository

func (s *saleStore) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	row, ok := s.balances[saleStoreKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	cp := row
	return &cp, nil
}

func (s *saleStore) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return s.Get(ctx, productID, warehouseID)
}

func (s *saleStore) Upsert(_ context.Context, st *entity.Stock) error {
	s.balances[saleStoreKey{st.ProductID, st.WarehouseID}] = *st
	return nil
}

func (s *saleStore) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	return nil, nil
}

func (s *saleStore) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	return nil, nil
}

// StockMovementRepository

func (s *saleStore) CreateMovement(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

// SaleRepository

func (s *saleStore) CreateSale(_ context.Context, sale *entity.Sale) error {
	s.sales[sale.ID] = sale
	return nil
}

func (s *saleStore) GetSaleByID(_ context.Context, id string) (*entity.Sale, error) {
	return s.sales[id], nil
}

func (s *saleStore) ListSales(_ context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range s.sales {
		if sale.CompanyID == companyID {
			out = append(out, sale)
		}
	}
	return out, nil
}

// SaleTxRunner con rollback por snapshot.

func (s *saleStore) RunSale(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	balSnap := make(map[saleStoreKey]entity.Stock, len(s.balances))
	for k, v := range s.balances {
		balSnap[k] = v
	}
	movSnap := len(s.movements)
	salesSnap := len(s.sales)
	err := fn(s, movementSink{s}, saleSink{s})
	if err != nil {
		s.balances = balSnap
		s.movements = s.movements[:movSnap]
		if len(s.sales) != salesSnap {
			s.sales = make(map[string]*entity.Sale)
		}
		return err
	}
	return nil
}

// Run satisface stock.TxRunner; las ventas no lo usan pero el motor lo exige.
func (s *saleStore) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return fn(s, movementSink{s})
}

// movementSink y saleSink adaptan saleStore a los puertos de repositorio.
type movementSink struct{ s *saleStore }

func (m movementSink) Create(ctx context.Context, mv *entity.StockMovement) error {
	return m.s.CreateMovement(ctx, mv)
}

func (m movementSink) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (m movementSink) ListByWarehouse(_ context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type saleSink struct{ s *saleStore }

func (r saleSink) Create(ctx context.Context, sale *entity.Sale) error {
	return r.s.CreateSale(ctx, sale)
}

func (r saleSink) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.s.GetSaleByID(ctx, id)
}

func (r saleSink) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	return r.s.ListSales(ctx, companyID, limit, offset)
}

// Catálogos mínimos.

type saleProducts map[string]*entity.Product

func (r saleProducts) Create(_ context.Context, p *entity.Product) error { r[p.ID] = p; return nil }
func (r saleProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r[id], nil
}
func (r saleProducts) GetBySKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	return nil, nil
}
func (r saleProducts) List(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r saleProducts) Update(_ context.Context, p *entity.Product) error { r[p.ID] = p; return nil }

type saleWarehouses map[string]*entity.Warehouse

func (r saleWarehouses) Create(_ context.Context, w *entity.Warehouse) error { r[w.ID] = w; return nil }
func (r saleWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return r[id], nil
}
func (r saleWarehouses) List(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (r saleWarehouses) Update(_ context.Context, w *entity.Warehouse) error { r[w.ID] = w; return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type saleFixture struct {
	uc    *sales.CreateSaleUseCase
	store *saleStore
}

func newSaleFixture(t *testing.T, availableA, availableB int64) *saleFixture {
	t.Helper()
	store := newSaleStore()
	store.seed(saleProductA, availableA)
	store.seed(saleProductB, availableB)

	products := saleProducts{
		saleProductA: {
			ID: saleProductA, CompanyID: saleCompanyID, SKU: "GASEOSA-350",
			Name: "Gaseosa 350ml", UnitType: "unidad", Price: decimal.NewFromInt(2500),
		},
		saleProductB: {
			ID: saleProductB, CompanyID: saleCompanyID, SKU: "PAN-500",
			Name: "Pan tajado 500g", UnitType: "unidad", Price: decimal.NewFromInt(6000),
		},
	}
	warehouses := saleWarehouses{
		saleWarehouseID: {ID: saleWarehouseID, CompanyID: saleCompanyID, Name: "Punto de venta Centro"},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	engine := stock.NewStockUseCase(store, store, movementSink{store}, products, warehouses, nil, log)
	uc := sales.NewCreateSaleUseCase(store, engine, products, warehouses, saleSink{store})
	return &saleFixture{uc: uc, store: store}
}

func (f *saleFixture) available(productID string) decimal.Decimal {
	return f.store.balances[saleStoreKey{productID, saleWarehouseID}].Available
}

func saleRequest(lines ...dto.SaleLineRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		WarehouseID:  saleWarehouseID,
		CustomerName: "Cliente mostrador",
		Lines:        lines,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYTotaliza(t *testing.T) {
	f := newSaleFixture(t, 10, 10)

	resp, err := f.uc.Create(context.Background(), saleCompanyID, saleUserID, saleRequest(
		dto.SaleLineRequest{ProductID: saleProductA, Quantity: decimal.NewFromInt(3)},
		dto.SaleLineRequest{ProductID: saleProductB, Quantity: decimal.NewFromInt(2)},
	))
	require.NoError(t, err)

	// 3*2500 + 2*6000 = 19500, con precio tomado del catálogo
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(19500)), "total %s", resp.Total)
	assert.Len(t, resp.Lines, 2)

	assert.True(t, f.available(saleProductA).Equal(decimal.NewFromInt(7)))
	assert.True(t, f.available(saleProductB).Equal(decimal.NewFromInt(8)))

	// un movimiento EXIT por renglón, referenciando la venta
	require.Len(t, f.store.movements, 2)
	for _, m := range f.store.movements {
		assert.Equal(t, entity.MovementTypeEXIT, m.Type)
		require.NotNil(t, m.ReferenceNumber)
		assert.Equal(t, resp.ID, *m.ReferenceNumber)
	}
	assert.Contains(t, f.store.sales, resp.ID, "la venta debe quedar persistida")
}

func TestCreateSale_PrecioExplicitoPesaMasQueElCatalogo(t *testing.T) {
	f := newSaleFixture(t, 10, 10)

	resp, err := f.uc.Create(context.Background(), saleCompanyID, saleUserID, saleRequest(
		dto.SaleLineRequest{ProductID: saleProductA, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(2000)},
	))
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(4000)))
}

func TestCreateSale_StockInsuficienteNoPersisteNada(t *testing.T) {
	f := newSaleFixture(t, 10, 1)

	_, err := f.uc.Create(context.Background(), saleCompanyID, saleUserID, saleRequest(
		dto.SaleLineRequest{ProductID: saleProductA, Quantity: decimal.NewFromInt(3)},
		dto.SaleLineRequest{ProductID: saleProductB, Quantity: decimal.NewFromInt(5)}, // solo hay 1
	))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// rollback total: ni venta, ni descuentos, ni movimientos
	assert.Empty(t, f.store.sales)
	assert.Empty(t, f.store.movements)
	assert.True(t, f.available(saleProductA).Equal(decimal.NewFromInt(10)),
		"el descuento del primer renglón debe revertirse")
	assert.True(t, f.available(saleProductB).Equal(decimal.NewFromInt(1)))
}

func TestCreateSale_SinRenglones(t *testing.T) {
	f := newSaleFixture(t, 10, 10)

	_, err := f.uc.Create(context.Background(), saleCompanyID, saleUserID, saleRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_CantidadNoPositiva(t *testing.T) {
	f := newSaleFixture(t, 10, 10)

	_, err := f.uc.Create(context.Background(), saleCompanyID, saleUserID, saleRequest(
		dto.SaleLineRequest{ProductID: saleProductA, Quantity: decimal.Zero},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_BodegaDeOtraEmpresa(t *testing.T) {
	f := newSaleFixture(t, 10, 10)

	_, err := f.uc.Create(context.Background(), "99999999-9999-9999-9999-999999999999", saleUserID, saleRequest(
		dto.SaleLineRequest{ProductID: saleProductA, Quantity: decimal.NewFromInt(1)},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_ProductoDeOtraEmpresa(t *testing.T) {
	f := newSaleFixture(t, 10, 10)

	_, err := f.uc.Create(context.Background(), saleCompanyID, saleUserID, saleRequest(
		dto.SaleLineRequest{ProductID: "99999999-9999-9999-9999-999999999999", Quantity: decimal.NewFromInt(1)},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
