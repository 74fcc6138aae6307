package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/usecase"
	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
)

const (
	batchProductID   = "11111111-1111-1111-1111-111111111111"
	batchWarehouseID = "22222222-2222-2222-2222-222222222222"
	batchCompanyID   = "33333333-3333-3333-3333-333333333333"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeBatchRepo struct {
	batches map[string]*entity.ProductBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[string]*entity.ProductBatch)}
}

func (r *fakeBatchRepo) Create(_ context.Context, b *entity.ProductBatch) error {
	r.batches[b.ID] = b
	return nil
}

func (r *fakeBatchRepo) GetByID(_ context.Context, id string) (*entity.ProductBatch, error) {
	return r.batches[id], nil
}

func (r *fakeBatchRepo) ListByProduct(_ context.Context, productID, warehouseID string) ([]*entity.ProductBatch, error) {
	var out []*entity.ProductBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.WarehouseID == warehouseID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) UpdateStatus(_ context.Context, id, status string) error {
	b, ok := r.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBatchRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.batches {
		if b.Status == entity.BatchStatusAvailable && b.Expired(now) {
			b.Status = entity.BatchStatusExpired
			n++
		}
	}
	return n, nil
}

func (r *fakeBatchRepo) SumQuantities(_ context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.batches {
		if b.ProductID != productID || b.WarehouseID != warehouseID {
			continue
		}
		if b.Status == entity.BatchStatusExpired || b.Status == entity.BatchStatusDamaged {
			continue
		}
		total = total.Add(b.Quantity)
	}
	return total, nil
}

// fakeBalanceRepo implementa solo los métodos de saldo que usa Reconcile.
type fakeBalanceRepo struct {
	stock *entity.Stock
}

func (r *fakeBalanceRepo) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	if r.stock != nil && r.stock.ProductID == productID && r.stock.WarehouseID == warehouseID {
		cp := *r.stock
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *fakeBalanceRepo) Upsert(_ context.Context, s *entity.Stock) error {
	r.stock = s
	return nil
}

func (r *fakeBalanceRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	return nil, nil
}

func (r *fakeBalanceRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	return nil, nil
}

type fakeProductCatalog struct {
	products map[string]*entity.Product
}

func (r *fakeProductCatalog) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductCatalog) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductCatalog) GetBySKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductCatalog) List(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductCatalog) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func newBatchFixture() (*usecase.BatchUseCase, *fakeBatchRepo, *fakeBalanceRepo) {
	batches := newFakeBatchRepo()
	balances := &fakeBalanceRepo{}
	catalog := &fakeProductCatalog{products: map[string]*entity.Product{
		batchProductID: {
			ID:        batchProductID,
			CompanyID: batchCompanyID,
			SKU:       "HARINA-25",
			Name:      "Harina de trigo 25kg",
			UnitType:  "kg",
		},
	}}
	return usecase.NewBatchUseCase(batches, balances, catalog), batches, balances
}

func seedStock(balances *fakeBalanceRepo, available, reserved int64) {
	balances.stock = &entity.Stock{
		ProductID:   batchProductID,
		WarehouseID: batchWarehouseID,
		Available:   decimal.NewFromInt(available),
		Reserved:    decimal.NewFromInt(reserved),
		UnitType:    "kg",
	}
}

func batchRequest(qty int64) dto.CreateBatchRequest {
	return dto.CreateBatchRequest{
		ProductID:   batchProductID,
		WarehouseID: batchWarehouseID,
		BatchNumber: "LOT-2026-001",
		Quantity:    decimal.NewFromInt(qty),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchCreate_HeredaUnidadDelProducto(t *testing.T) {
	uc, _, _ := newBatchFixture()

	resp, err := uc.Create(context.Background(), batchRequest(100))
	require.NoError(t, err)
	assert.Equal(t, "kg", resp.UnitType, "sin unidad explícita, hereda la del producto")
	assert.Equal(t, entity.BatchStatusAvailable, resp.Status)
	assert.NotEmpty(t, resp.ID)
}

func TestBatchCreate_UnidadDistintaSeRechaza(t *testing.T) {
	uc, _, _ := newBatchFixture()

	in := batchRequest(100)
	in.UnitType = "L" // el producto es kg

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBatchCreate_CantidadNoPositiva(t *testing.T) {
	uc, _, _ := newBatchFixture()

	_, err := uc.Create(context.Background(), batchRequest(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBatchCreate_ProductoInexistente(t *testing.T) {
	uc, _, _ := newBatchFixture()

	in := batchRequest(100)
	in.ProductID = "99999999-9999-9999-9999-999999999999"

	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchUpdateStatus_TransicionValida(t *testing.T) {
	uc, _, _ := newBatchFixture()
	created, err := uc.Create(context.Background(), batchRequest(50))
	require.NoError(t, err)

	resp, err := uc.UpdateStatus(context.Background(), created.ID, entity.BatchStatusReserved)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusReserved, resp.Status)
}

func TestBatchUpdateStatus_TransicionInvalida(t *testing.T) {
	uc, repo, _ := newBatchFixture()
	created, err := uc.Create(context.Background(), batchRequest(50))
	require.NoError(t, err)

	// EXPIRED es terminal: volver a AVAILABLE debe rechazarse
	_, err = uc.UpdateStatus(context.Background(), created.ID, entity.BatchStatusExpired)
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), created.ID, entity.BatchStatusAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.BatchStatusExpired, repo.batches[created.ID].Status,
		"el estado no debe cambiar tras una transición inválida")
}

func TestBatchUpdateStatus_LoteInexistente(t *testing.T) {
	uc, _, _ := newBatchFixture()

	_, err := uc.UpdateStatus(context.Background(), "99999999-9999-9999-9999-999999999999", entity.BatchStatusReserved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ExpireDue
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchExpireDue_SoloVencidosDisponibles(t *testing.T) {
	uc, repo, _ := newBatchFixture()
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	vencido, err := uc.Create(context.Background(), func() dto.CreateBatchRequest {
		in := batchRequest(10)
		in.ExpiryDate = &past
		return in
	}())
	require.NoError(t, err)

	vigente, err := uc.Create(context.Background(), func() dto.CreateBatchRequest {
		in := batchRequest(20)
		in.BatchNumber = "LOT-2026-002"
		in.ExpiryDate = &future
		return in
	}())
	require.NoError(t, err)

	n, err := uc.ExpireDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, entity.BatchStatusExpired, repo.batches[vencido.ID].Status)
	assert.Equal(t, entity.BatchStatusAvailable, repo.batches[vigente.ID].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile — reporte lotes vs saldo agregado
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchReconcile_Consistente(t *testing.T) {
	uc, _, balances := newBatchFixture()
	seedStock(balances, 80, 20) // total en bodega = 100

	_, err := uc.Create(context.Background(), batchRequest(60))
	require.NoError(t, err)

	rep, err := uc.Reconcile(context.Background(), batchProductID, batchWarehouseID)
	require.NoError(t, err)
	assert.True(t, rep.Consistent, "60 en lotes <= 100 en bodega")
	assert.True(t, rep.BatchTotal.Equal(decimal.NewFromInt(60)))
	assert.True(t, rep.BalanceOnHand.Equal(decimal.NewFromInt(100)))
}

func TestBatchReconcile_Inconsistente(t *testing.T) {
	uc, _, balances := newBatchFixture()
	seedStock(balances, 30, 0)

	_, err := uc.Create(context.Background(), batchRequest(50))
	require.NoError(t, err)

	rep, err := uc.Reconcile(context.Background(), batchProductID, batchWarehouseID)
	require.NoError(t, err)
	assert.False(t, rep.Consistent, "50 en lotes > 30 en bodega")
}

func TestBatchReconcile_LotesTerminalesNoSuman(t *testing.T) {
	uc, _, balances := newBatchFixture()
	seedStock(balances, 30, 0)

	created, err := uc.Create(context.Background(), batchRequest(50))
	require.NoError(t, err)
	_, err = uc.UpdateStatus(context.Background(), created.ID, entity.BatchStatusDamaged)
	require.NoError(t, err)

	rep, err := uc.Reconcile(context.Background(), batchProductID, batchWarehouseID)
	require.NoError(t, err)
	assert.True(t, rep.BatchTotal.IsZero(), "lotes dañados no cuentan en la conciliación")
	assert.True(t, rep.Consistent)
}

func TestBatchReconcile_SinFilaDeSaldo(t *testing.T) {
	uc, _, _ := newBatchFixture()

	_, err := uc.Create(context.Background(), batchRequest(10))
	require.NoError(t, err)

	rep, err := uc.Reconcile(context.Background(), batchProductID, batchWarehouseID)
	require.NoError(t, err)
	assert.True(t, rep.BalanceOnHand.IsZero(), "sin fila de saldo el total en bodega es cero")
	assert.False(t, rep.Consistent)
}
