package inventory_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code && !p.IsDeleted() {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateStock(id string, stock int, updatedBy string, updatedAt time.Time) error {
	p, ok := r.products[id]
	if !ok {
		return domain.NewNotFoundError("Product", id)
	}
	p.Stock = stock
	p.UpdatedBy = updatedBy
	p.UpdatedAt = updatedAt
	return nil
}

func (r *fakeProductRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	if p, ok := r.products[id]; ok {
		p.DeletedAt = &deletedAt
	}
	return nil
}

func (r *fakeProductRepo) ListActiveCodesByPrefix(prefix string) ([]string, error) {
	var codes []string
	for _, p := range r.products {
		if !p.IsDeleted() && len(p.Code) >= len(prefix) && p.Code[:len(prefix)] == prefix {
			codes = append(codes, p.Code)
		}
	}
	return codes, nil
}

func (r *fakeProductRepo) ListActive(limit, offset int) ([]*entity.Product, error) {
	var active []*entity.Product
	for _, p := range r.products {
		if !p.IsDeleted() {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Code < active[j].Code })
	if offset >= len(active) {
		return nil, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], nil
}

func (r *fakeProductRepo) CountActiveByItemGroup(itemGroupID string) (int, error) {
	count := 0
	for _, p := range r.products {
		if !p.IsDeleted() && p.ItemGroupID == itemGroupID {
			count++
		}
	}
	return count, nil
}

type fakeMovementRepo struct {
	movements []*entity.Movement
	failNext  error // si está seteado, el próximo Create falla
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		if m.ProductID != productID || m.IsDeleted() {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByProductOrdered(productID string, through time.Time) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		if m.ProductID == productID && !m.IsDeleted() && !m.Date.After(through) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeMovementRepo) ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		if !m.IsDeleted() && !m.Date.Before(from) && !m.Date.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	for _, m := range r.movements {
		if m.ID == id {
			m.DeletedAt = &deletedAt
		}
	}
	return nil
}

type fakeAuditRepo struct {
	entries []*entity.AuditLog
}

func (r *fakeAuditRepo) Create(log *entity.AuditLog) error {
	r.entries = append(r.entries, log)
	return nil
}

type fakeRateRepo struct {
	rates []*entity.ExchangeRate
}

func (r *fakeRateRepo) Upsert(rate *entity.ExchangeRate) error {
	r.rates = append(r.rates, rate)
	return nil
}

func (r *fakeRateRepo) GetByDate(date time.Time) (*entity.ExchangeRate, error) {
	for _, rate := range r.rates {
		if rate.Date.Equal(date) {
			return rate, nil
		}
	}
	return nil, nil
}

func (r *fakeRateRepo) GetLatestThrough(date time.Time) (*entity.ExchangeRate, error) {
	var best *entity.ExchangeRate
	for _, rate := range r.rates {
		if rate.Date.After(date) {
			continue
		}
		if best == nil || rate.Date.After(best.Date) {
			best = rate
		}
	}
	return best, nil
}

func (r *fakeRateRepo) ListRange(from, to time.Time) ([]*entity.ExchangeRate, error) {
	var out []*entity.ExchangeRate
	for _, rate := range r.rates {
		if !rate.Date.Before(from) && !rate.Date.After(to) {
			out = append(out, rate)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta la función directamente sobre los fakes, sin
// transacción real.
type fakeTxRunner struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(r.movRepo, r.productRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func testProduct(id, code string, stock int) *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID:               id,
		Code:             code,
		Description:      "Socates Porcelana",
		Stock:            stock,
		PriceUSD:         decimal.NewFromFloat(2.00),
		AdjustmentFactor: decimal.NewFromFloat(1.1),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func buildUseCase(products ...*entity.Product) (*inventory.RegisterMovementUseCase, *fakeProductRepo, *fakeMovementRepo) {
	productRepo := newFakeProductRepo(products...)
	movRepo := &fakeMovementRepo{}
	tx := &fakeTxRunner{movRepo: movRepo, productRepo: productRepo}
	auditor := audit.NewRecorder(&fakeAuditRepo{}, logger.Nop())
	uc := inventory.NewRegisterMovementUseCase(tx, productRepo, movRepo, auditor, logger.Nop())
	return uc, productRepo, movRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaSumaStock(t *testing.T) {
	uc, productRepo, movRepo := buildUseCase(testProduct("p1", "E-SP-01", 10))

	mov, newStock, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "u1",
		ProductID: "p1",
		Type:      "entrada",
		Quantity:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, newStock)
	assert.Equal(t, entity.MovementTypeEntry, mov.Type)

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 15, p.Stock, "el stock materializado debe reflejar la entrada")
	assert.Len(t, movRepo.movements, 1, "debe quedar exactamente un asiento")
}

func TestRegisterMovement_SalidaRestaStock(t *testing.T) {
	uc, productRepo, _ := buildUseCase(testProduct("p1", "E-SP-01", 10))

	_, newStock, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "u1",
		ProductID: "p1",
		Type:      "SALIDA",
		Quantity:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, newStock, "sacar exactamente el stock disponible es legal")

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 0, p.Stock)
}

func TestRegisterMovement_SalidaInsuficienteNoMuta(t *testing.T) {
	uc, productRepo, movRepo := buildUseCase(testProduct("p1", "E-SP-01", 3))

	_, _, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "u1",
		ProductID: "p1",
		Type:      "salida",
		Quantity:  4,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, domain.CodeBusinessLogic, domain.ErrorCode(err))

	// Falla limpia: ni asiento ni cambio de stock.
	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 3, p.Stock, "el stock debe quedar intacto tras una salida rechazada")
	assert.Empty(t, movRepo.movements)
}

func TestRegisterMovement_AjusteFijaStockAbsoluto(t *testing.T) {
	uc, productRepo, _ := buildUseCase(testProduct("p1", "E-SP-01", 50))

	_, newStock, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "u1",
		ProductID: "p1",
		Type:      "ajuste",
		Quantity:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, newStock, "AJUSTE fija el stock en la cantidad, no suma ni resta")

	p, _ := productRepo.GetByID("p1")
	assert.Equal(t, 7, p.Stock)
}

func TestRegisterMovement_CantidadInvalida(t *testing.T) {
	uc, _, _ := buildUseCase(testProduct("p1", "E-SP-01", 10))

	for _, qty := range []int{0, -5} {
		_, _, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
			UserID:    "u1",
			ProductID: "p1",
			Type:      "entrada",
			Quantity:  qty,
		})
		require.Error(t, err, "cantidad %d", qty)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestRegisterMovement_TipoInvalido(t *testing.T) {
	uc, _, _ := buildUseCase(testProduct("p1", "E-SP-01", 10))

	_, _, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "u1",
		ProductID: "p1",
		Type:      "transferencia",
		Quantity:  1,
	})
	require.Error(t, err)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tipo", ve.Field)
}

func TestRegisterMovement_ProductoEliminado(t *testing.T) {
	p := testProduct("p1", "E-SP-01", 10)
	deleted := time.Now().UTC()
	p.DeletedAt = &deleted
	uc, _, _ := buildUseCase(p)

	_, _, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID:    "u1",
		ProductID: "p1",
		Type:      "entrada",
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestHistory_ProductoEliminadoSigueConsultable(t *testing.T) {
	p := testProduct("p1", "E-SP-01", 10)
	uc, productRepo, movRepo := buildUseCase(p)

	_, _, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		UserID: "u1", ProductID: "p1", Type: "entrada", Quantity: 5,
	})
	require.NoError(t, err)
	require.NoError(t, productRepo.SoftDelete("p1", "u1", time.Now().UTC()))

	movs, err := uc.History(context.Background(), "p1", nil, nil, 1, 50)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el historial de un producto soft-deleted sigue consultable")
	assert.Len(t, movRepo.movements, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Valoración
// ──────────────────────────────────────────────────────────────────────────────

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValuation_ReplayConAjuste(t *testing.T) {
	p := testProduct("p1", "E-SP-01", 0)
	productRepo := newFakeProductRepo(p)
	movRepo := &fakeMovementRepo{movements: []*entity.Movement{
		{ID: "m1", ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: 10, Date: day(2026, 1, 5)},
		{ID: "m2", ProductID: "p1", Type: entity.MovementTypeExit, Quantity: 3, Date: day(2026, 1, 20)},
		// Dentro de la ventana: el AJUSTE reinicia la base del replay.
		{ID: "m3", ProductID: "p1", Type: entity.MovementTypeAdjust, Quantity: 20, Date: day(2026, 2, 10)},
		{ID: "m4", ProductID: "p1", Type: entity.MovementTypeExit, Quantity: 5, Date: day(2026, 2, 15)},
	}}
	rateRepo := &fakeRateRepo{rates: []*entity.ExchangeRate{
		{ID: "r1", Date: day(2026, 2, 1), Rate: decimal.NewFromFloat(36.50)},
	}}

	uc := inventory.NewValuationUseCase(productRepo, movRepo, rateRepo)
	report, err := uc.Report(context.Background(), day(2026, 2, 1), day(2026, 2, 28))
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)

	line := report.Lines[0]
	assert.Equal(t, 7, line.OpeningStock, "apertura = replay de movimientos previos (10-3)")
	assert.Equal(t, 15, line.ClosingStock, "el AJUSTE a 20 reinicia la base; 20-5=15")
	assert.Equal(t, 0, line.Entries, "un AJUSTE no cuenta como entrada")
	assert.Equal(t, 5, line.Exits)

	// precio local: round2(round2(2.00×36.50)×1.1) = 80.30
	assert.True(t, line.PriceLocal.Equal(decimal.NewFromFloat(80.30)), "precio local %s", line.PriceLocal)
	assert.True(t, line.OpeningValue.Equal(decimal.NewFromFloat(562.10)), "apertura %s", line.OpeningValue)
	assert.True(t, line.ClosingValue.Equal(decimal.NewFromFloat(1204.50)), "cierre %s", line.ClosingValue)
}

func TestValuation_SinTasaFallaDuro(t *testing.T) {
	uc := inventory.NewValuationUseCase(newFakeProductRepo(), &fakeMovementRepo{}, &fakeRateRepo{})

	_, err := uc.Report(context.Background(), day(2026, 2, 1), day(2026, 2, 28))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoExchangeRate), "sin tasa no se valora: nunca se asume 1:1")
}

func TestValuation_ProductoSinMovimientos(t *testing.T) {
	p := testProduct("p1", "E-SP-01", 0)
	rateRepo := &fakeRateRepo{rates: []*entity.ExchangeRate{
		{ID: "r1", Date: day(2026, 2, 1), Rate: decimal.NewFromFloat(36.50)},
	}}
	uc := inventory.NewValuationUseCase(newFakeProductRepo(p), &fakeMovementRepo{}, rateRepo)

	report, err := uc.Report(context.Background(), day(2026, 2, 1), day(2026, 2, 28))
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, 0, report.Lines[0].OpeningStock)
	assert.Equal(t, 0, report.Lines[0].ClosingStock)
	assert.True(t, report.TotalClosing.IsZero())
}
