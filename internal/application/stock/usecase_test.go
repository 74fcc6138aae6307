package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/pkg/logger"
)

const (
	testProductID   = "11111111-1111-1111-1111-111111111111"
	testWarehouseID = "22222222-2222-2222-2222-222222222222"
	testUserID      = "33333333-3333-3333-3333-333333333333"
	testCompanyID   = "44444444-4444-4444-4444-444444444444"
)

type engineFixture struct {
	uc        *stock.StockUseCase
	stockRepo *memStockRepo
	movRepo   *memMovementRepo
}

// newEngine arma el motor con fakes y un catálogo de un producto (kg) y una bodega.
func newEngine(t *testing.T) *engineFixture {
	t.Helper()
	stockRepo := newMemStockRepo()
	movRepo := newMemMovementRepo()
	txRunner := &memTxRunner{stockRepo: stockRepo, movRepo: movRepo}
	productRepo := &memProductRepo{products: map[string]*entity.Product{
		testProductID: {ID: testProductID, CompanyID: testCompanyID, SKU: "HARINA-25", Name: "Harina 25kg", UnitType: "kg"},
	}}
	warehouseRepo := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWarehouseID: {ID: testWarehouseID, CompanyID: testCompanyID, Name: "Bodega Central"},
	}}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := stock.NewStockUseCase(txRunner, stockRepo, movRepo, productRepo, warehouseRepo, nil, log)
	return &engineFixture{uc: uc, stockRepo: stockRepo, movRepo: movRepo}
}

func (f *engineFixture) balance(t *testing.T) *entity.Stock {
	t.Helper()
	s, err := f.stockRepo.Get(context.Background(), testProductID, testWarehouseID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Reserve
// ──────────────────────────────────────────────────────────────────────────────

// Reservar mueve cantidad de disponible a reservado sin cambiar el total en bodega.
func TestReserve_MueveDisponibleAReservado(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 0, "kg")

	s, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(4), testUserID, "RUTA-001")
	require.NoError(t, err)

	assert.True(t, s.Available.Equal(dec(6)), "disponible: %s", s.Available)
	assert.True(t, s.Reserved.Equal(dec(4)), "reservado: %s", s.Reserved)
	assert.True(t, s.OnHand().Equal(dec(10)), "el total en bodega no cambia")

	movs := f.movRepo.byType(entity.MovementTypeRESERVATION)
	require.Len(t, movs, 1, "exactamente una fila RESERVATION en el ledger")
	assert.True(t, movs[0].Quantity.Equal(dec(4)))
	require.NotNil(t, movs[0].OriginWarehouseID)
	assert.Equal(t, testWarehouseID, *movs[0].OriginWarehouseID)
	require.NotNil(t, movs[0].ReferenceNumber)
	assert.Equal(t, "RUTA-001", *movs[0].ReferenceNumber)
}

// Reservar exactamente todo el disponible debe funcionar (límite inclusive).
func TestReserve_TodoElDisponible(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 7, 0, "kg")

	s, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(7), testUserID, "")
	require.NoError(t, err)
	assert.True(t, s.Available.IsZero())
	assert.True(t, s.Reserved.Equal(dec(7)))
}

// Reservar disponible+1 se rechaza y no deja rastro: ni en el saldo ni en el ledger.
func TestReserve_InsuficienteNoTocaNada(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 7, 2, "kg")

	_, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(8), testUserID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	s := f.balance(t)
	assert.True(t, s.Available.Equal(dec(7)))
	assert.True(t, s.Reserved.Equal(dec(2)))
	assert.Zero(t, f.movRepo.count(), "una operación rechazada no escribe en el ledger")
}

func TestReserve_CantidadInvalida(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 5, 0, "kg")

	_, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(0), testUserID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(-3), testUserID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Sin fila de saldo no hay nada que reservar.
func TestReserve_SinFilaDeSaldo(t *testing.T) {
	f := newEngine(t)
	_, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(1), testUserID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos reservas simultáneas por todo el disponible: exactamente una gana.
// El lock de fila serializa; la que llega segunda ve el disponible ya en cero.
func TestReserve_ConcurrenciaSoloUnaGana(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 5, 0, "kg")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(5), testUserID, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var oks, insufficient int
	for err := range results {
		switch {
		case err == nil:
			oks++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, oks, "exactamente una reserva debe ganar")
	assert.Equal(t, 1, insufficient)

	s := f.balance(t)
	assert.True(t, s.Available.IsZero())
	assert.True(t, s.Reserved.Equal(dec(5)))
	assert.Equal(t, 1, f.movRepo.count(), "solo la reserva ganadora escribe en el ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// Release
// ──────────────────────────────────────────────────────────────────────────────

// Reservar y liberar la misma cantidad deja el saldo como estaba, y el ledger
// conserva ambas operaciones: RESERVATION y RETURN.
func TestRelease_IdaYVueltaConservaElSaldo(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 0, "kg")

	_, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(4), testUserID, "RUTA-002")
	require.NoError(t, err)
	s, err := f.uc.Release(context.Background(), testProductID, testWarehouseID, dec(4), testUserID, "RUTA-002")
	require.NoError(t, err)

	assert.True(t, s.Available.Equal(dec(10)))
	assert.True(t, s.Reserved.IsZero())

	require.Len(t, f.movRepo.byType(entity.MovementTypeRESERVATION), 1)
	returns := f.movRepo.byType(entity.MovementTypeRETURN)
	require.Len(t, returns, 1, "la liberación también deja fila en el ledger")
	assert.True(t, returns[0].Quantity.Equal(dec(4)))
	require.NotNil(t, returns[0].DestinationWarehouseID)
	assert.Equal(t, testWarehouseID, *returns[0].DestinationWarehouseID)
}

func TestRelease_MasDeLoReservado(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 5, 2, "kg")

	_, err := f.uc.Release(context.Background(), testProductID, testWarehouseID, dec(3), testUserID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientReserved)

	s := f.balance(t)
	assert.True(t, s.Available.Equal(dec(5)))
	assert.True(t, s.Reserved.Equal(dec(2)))
}

// ──────────────────────────────────────────────────────────────────────────────
// AddStock / RemoveStock
// ──────────────────────────────────────────────────────────────────────────────

// La primera entrada de un par (producto, bodega) crea la fila de saldo.
func TestAddStock_CreaFilaEnPrimeraEntrada(t *testing.T) {
	f := newEngine(t)

	s, err := f.uc.AddStock(context.Background(), stock.MovementInput{
		ProductID:              testProductID,
		DestinationWarehouseID: testWarehouseID,
		Quantity:               dec(25),
		ActorID:                testUserID,
		ReferenceNumber:        "OC-900",
	})
	require.NoError(t, err)

	assert.True(t, s.Available.Equal(dec(25)))
	assert.True(t, s.Reserved.IsZero())
	assert.Equal(t, "kg", s.UnitType, "hereda la unidad del producto")

	movs := f.movRepo.byType(entity.MovementTypeENTRY)
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].DestinationWarehouseID)
	assert.Equal(t, testWarehouseID, *movs[0].DestinationWarehouseID)
	assert.Nil(t, movs[0].OriginWarehouseID, "una entrada no tiene bodega de origen")
}

// Entradas posteriores suman al disponible sin tocar el reservado.
func TestAddStock_SumaAlDisponible(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 3, "kg")

	s, err := f.uc.AddStock(context.Background(), stock.MovementInput{
		ProductID:              testProductID,
		DestinationWarehouseID: testWarehouseID,
		Quantity:               dec(5),
		ActorID:                testUserID,
	})
	require.NoError(t, err)
	assert.True(t, s.Available.Equal(dec(15)))
	assert.True(t, s.Reserved.Equal(dec(3)))
}

// La unidad del movimiento debe coincidir con la declarada del producto.
func TestAddStock_UnidadDistintaSeRechaza(t *testing.T) {
	f := newEngine(t)
	_, err := f.uc.AddStock(context.Background(), stock.MovementInput{
		ProductID:              testProductID,
		DestinationWarehouseID: testWarehouseID,
		Quantity:               dec(5),
		UnitType:               "L",
		ActorID:                testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddStock_ProductoInexistente(t *testing.T) {
	f := newEngine(t)
	_, err := f.uc.AddStock(context.Background(), stock.MovementInput{
		ProductID:              "99999999-9999-9999-9999-999999999999",
		DestinationWarehouseID: testWarehouseID,
		Quantity:               dec(5),
		ActorID:                testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// EXIT descuenta del disponible y respeta el reservado.
func TestRemoveStock_EXITDescuentaDisponible(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 4, "kg")

	s, err := f.uc.RemoveStock(context.Background(), stock.MovementInput{
		ProductID:         testProductID,
		OriginWarehouseID: testWarehouseID,
		Quantity:          dec(6),
		ActorID:           testUserID,
	})
	require.NoError(t, err)
	assert.True(t, s.Available.Equal(dec(4)))
	assert.True(t, s.Reserved.Equal(dec(4)), "EXIT nunca toca el reservado")
}

// DISPATCH confirma una reserva previa: descuenta del reservado, no del disponible.
func TestRemoveStock_DISPATCHDescuentaReservado(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 0, "kg")

	_, err := f.uc.Reserve(context.Background(), testProductID, testWarehouseID, dec(4), testUserID, "RUTA-003")
	require.NoError(t, err)

	s, err := f.uc.RemoveStock(context.Background(), stock.MovementInput{
		ProductID:         testProductID,
		OriginWarehouseID: testWarehouseID,
		Type:              entity.MovementTypeDISPATCH,
		Quantity:          dec(4),
		ReferenceNumber:   "RUTA-003",
		ActorID:           testUserID,
	})
	require.NoError(t, err)
	assert.True(t, s.Available.Equal(dec(6)), "el disponible queda intacto")
	assert.True(t, s.Reserved.IsZero())
	assert.True(t, s.OnHand().Equal(dec(6)), "el despacho sí reduce el total en bodega")
}

// DISPATCH sin reserva suficiente se rechaza aunque haya disponible de sobra.
func TestRemoveStock_DISPATCHSinReservaSuficiente(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 100, 1, "kg")

	_, err := f.uc.RemoveStock(context.Background(), stock.MovementInput{
		ProductID:         testProductID,
		OriginWarehouseID: testWarehouseID,
		Type:              entity.MovementTypeDISPATCH,
		Quantity:          dec(2),
		ActorID:           testUserID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientReserved)

	s := f.balance(t)
	assert.True(t, s.Available.Equal(dec(100)))
	assert.True(t, s.Reserved.Equal(dec(1)))
}

// Si el insert en el ledger falla, el saldo vuelve atrás: nunca queda una
// mutación de saldo sin su fila de ledger.
func TestRemoveStock_FalloEnLedgerRevierteSaldo(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 0, "kg")
	f.movRepo.failNextCreate = errors.New("ledger no disponible")

	_, err := f.uc.RemoveStock(context.Background(), stock.MovementInput{
		ProductID:         testProductID,
		OriginWarehouseID: testWarehouseID,
		Quantity:          dec(6),
		ActorID:           testUserID,
	})
	require.Error(t, err)

	s := f.balance(t)
	assert.True(t, s.Available.Equal(dec(10)), "el descuento se revirtió con la tx")
	assert.Zero(t, f.movRepo.count())
}

// La variante transaccional aplica la misma validación de tipo que RemoveStock:
// un tipo desconocido se rechaza antes de tocar el saldo.
func TestRemoveStockInTx_TipoInvalido(t *testing.T) {
	f := newEngine(t)
	f.stockRepo.seed(testProductID, testWarehouseID, 10, 0, "kg")

	_, err := f.uc.RemoveStockInTx(context.Background(), f.stockRepo, f.movRepo, stock.MovementInput{
		ProductID:         testProductID,
		OriginWarehouseID: testWarehouseID,
		Type:              "TELETRANSPORTE",
		Quantity:          dec(2),
		ActorID:           testUserID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	s := f.balance(t)
	assert.True(t, s.Available.Equal(dec(10)))
	assert.Zero(t, f.movRepo.count())
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger y consultas
// ──────────────────────────────────────────────────────────────────────────────

// Cada mutación exitosa deja exactamente una fila en el ledger.
func TestLedger_UnaFilaPorMutacion(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	ops := 0
	_, err := f.uc.AddStock(ctx, stock.MovementInput{
		ProductID: testProductID, DestinationWarehouseID: testWarehouseID,
		Quantity: dec(20), ActorID: testUserID,
	})
	require.NoError(t, err)
	ops++

	_, err = f.uc.Reserve(ctx, testProductID, testWarehouseID, dec(5), testUserID, "")
	require.NoError(t, err)
	ops++

	_, err = f.uc.Release(ctx, testProductID, testWarehouseID, dec(2), testUserID, "")
	require.NoError(t, err)
	ops++

	_, err = f.uc.RemoveStock(ctx, stock.MovementInput{
		ProductID: testProductID, OriginWarehouseID: testWarehouseID,
		Type: entity.MovementTypeDISPATCH, Quantity: dec(3), ActorID: testUserID,
	})
	require.NoError(t, err)
	ops++

	assert.Equal(t, ops, f.movRepo.count())

	// saldo final: 20 - 5 + 2 disponibles, 5 - 2 - 3 reservados
	s := f.balance(t)
	assert.True(t, s.Available.Equal(dec(17)))
	assert.True(t, s.Reserved.IsZero())
}

func TestCheckAvailability(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	// sin fila: no disponible, sin error
	ok, err := f.uc.CheckAvailability(ctx, testProductID, testWarehouseID, dec(1))
	require.NoError(t, err)
	assert.False(t, ok)

	f.stockRepo.seed(testProductID, testWarehouseID, 5, 10, "kg")

	ok, err = f.uc.CheckAvailability(ctx, testProductID, testWarehouseID, dec(5))
	require.NoError(t, err)
	assert.True(t, ok, "el límite exacto cuenta como disponible")

	ok, err = f.uc.CheckAvailability(ctx, testProductID, testWarehouseID, dec(6))
	require.NoError(t, err)
	assert.False(t, ok, "el reservado no cuenta como disponible")
}

func TestGetBalance_SinFila(t *testing.T) {
	f := newEngine(t)
	_, err := f.uc.GetBalance(context.Background(), testProductID, testWarehouseID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El historial devuelve los movimientos más recientes primero, con tope.
func TestMovementHistory(t *testing.T) {
	f := newEngine(t)
	ctx := context.Background()

	_, err := f.uc.AddStock(ctx, stock.MovementInput{
		ProductID: testProductID, DestinationWarehouseID: testWarehouseID,
		Quantity: dec(10), ActorID: testUserID,
	})
	require.NoError(t, err)
	_, err = f.uc.Reserve(ctx, testProductID, testWarehouseID, dec(3), testUserID, "")
	require.NoError(t, err)

	movs, err := f.uc.MovementHistory(ctx, testProductID, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeRESERVATION, movs[0].Type, "más reciente primero")
	assert.Equal(t, entity.MovementTypeENTRY, movs[1].Type)

	movs, err = f.uc.MovementHistory(ctx, testProductID, 1)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}
