package catalog_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) { return r.products[id], nil }

func (r *fakeProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code && !p.IsDeleted() {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.products[id], nil }

func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) UpdateStock(id string, stock int, updatedBy string, updatedAt time.Time) error {
	if p, ok := r.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *fakeProductRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	if p, ok := r.products[id]; ok {
		p.DeletedAt = &deletedAt
		p.UpdatedBy = deletedBy
	}
	return nil
}

func (r *fakeProductRepo) ListActiveCodesByPrefix(prefix string) ([]string, error) {
	var codes []string
	for _, p := range r.products {
		if !p.IsDeleted() && strings.HasPrefix(p.Code, prefix) {
			codes = append(codes, p.Code)
		}
	}
	return codes, nil
}

func (r *fakeProductRepo) ListActive(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if !p.IsDeleted() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
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

type fakeItemGroupRepo struct {
	groups map[string]*entity.ItemGroup
}

func newFakeItemGroupRepo(groups ...*entity.ItemGroup) *fakeItemGroupRepo {
	r := &fakeItemGroupRepo{groups: make(map[string]*entity.ItemGroup)}
	for _, g := range groups {
		r.groups[g.ID] = g
	}
	return r
}

func (r *fakeItemGroupRepo) Create(g *entity.ItemGroup) error { r.groups[g.ID] = g; return nil }

func (r *fakeItemGroupRepo) GetByID(id string) (*entity.ItemGroup, error) { return r.groups[id], nil }

func (r *fakeItemGroupRepo) GetByName(name string) (*entity.ItemGroup, error) {
	for _, g := range r.groups {
		if g.Name == name && !g.IsDeleted() {
			return g, nil
		}
	}
	return nil, nil
}

func (r *fakeItemGroupRepo) Update(g *entity.ItemGroup) error { r.groups[g.ID] = g; return nil }

func (r *fakeItemGroupRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	if g, ok := r.groups[id]; ok {
		g.DeletedAt = &deletedAt
	}
	return nil
}

func (r *fakeItemGroupRepo) ListChildren(parentID string) ([]*entity.ItemGroup, error) {
	var out []*entity.ItemGroup
	for _, g := range r.groups {
		if g.ParentID == parentID && !g.IsDeleted() {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeItemGroupRepo) ListActive() ([]*entity.ItemGroup, error) {
	var out []*entity.ItemGroup
	for _, g := range r.groups {
		if !g.IsDeleted() {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { r.suppliers[s.ID] = s; return nil }

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) { return r.suppliers[id], nil }

func (r *fakeSupplierRepo) GetByRIF(rif string) (*entity.Supplier, error) {
	for _, s := range r.suppliers {
		if s.RIF == rif && !s.IsDeleted() {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSupplierRepo) Update(s *entity.Supplier) error { return nil }

func (r *fakeSupplierRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	if s, ok := r.suppliers[id]; ok {
		s.DeletedAt = &deletedAt
	}
	return nil
}

func (r *fakeSupplierRepo) ListActive(limit, offset int) ([]*entity.Supplier, error) { return nil, nil }

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(log *entity.AuditLog) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func nopAuditor() *audit.Recorder {
	return audit.NewRecorder(&fakeAuditRepo{}, logger.Nop())
}

func newProductFixture(groups ...*entity.ItemGroup) (*catalog.ProductUseCase, *fakeProductRepo, *fakeItemGroupRepo) {
	productRepo := newFakeProductRepo()
	groupRepo := newFakeItemGroupRepo(groups...)
	supplierRepo := &fakeSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
	uc := catalog.NewProductUseCase(productRepo, groupRepo, supplierRepo, nopAuditor(), logger.Nop())
	return uc, productRepo, groupRepo
}

func createInput(code, description string) catalog.CreateProductInput {
	return catalog.CreateProductInput{
		UserID:      "u1",
		Code:        code,
		Description: description,
		PriceUSD:    decimal.NewFromFloat(2.00),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_StockInicialCero(t *testing.T) {
	uc, _, _ := newProductFixture()

	p, err := uc.CreateProduct(context.Background(), createInput("E-SP-01", "Socates Porcelana"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock, "el alta nunca fija stock; eso es del libro de movimientos")
	assert.True(t, p.AdjustmentFactor.Equal(decimal.NewFromInt(1)), "factor por defecto 1.0")
}

func TestCreateProduct_CodigoManualDuplicado(t *testing.T) {
	uc, _, _ := newProductFixture()

	_, err := uc.CreateProduct(context.Background(), createInput("E-SP-01", "Socates Porcelana"))
	require.NoError(t, err)

	_, err = uc.CreateProduct(context.Background(), createInput("e-sp-01", "Otro Socate"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "la unicidad es case-insensitive vía normalización")
}

func TestCreateProduct_CodigoReutilizableTrasSoftDelete(t *testing.T) {
	uc, productRepo, _ := newProductFixture()

	first, err := uc.CreateProduct(context.Background(), createInput("E-SP-01", "Socates Porcelana"))
	require.NoError(t, err)
	require.NoError(t, productRepo.SoftDelete(first.ID, "u1", time.Now().UTC()))

	// La unicidad se evalúa solo entre activos.
	_, err = uc.CreateProduct(context.Background(), createInput("E-SP-01", "Socate Nuevo"))
	require.NoError(t, err)
}

func TestCreateProduct_GeneraCodigoDesdeRubro(t *testing.T) {
	group := &entity.ItemGroup{ID: "g1", Name: "Electricidad"}
	uc, _, _ := newProductFixture(group)

	in := createInput("", "Socates de Porcelana")
	in.ItemGroupID = "g1"
	p, err := uc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "E-SP-01", p.Code)

	// El siguiente con el mismo prefijo toma el secuencial 02.
	in2 := createInput("", "Socates Plasticos")
	in2.ItemGroupID = "g1"
	p2, err := uc.CreateProduct(context.Background(), in2)
	require.NoError(t, err)
	assert.Equal(t, "E-SP-02", p2.Code)
}

func TestCreateProduct_FactorInvalido(t *testing.T) {
	uc, _, _ := newProductFixture()

	in := createInput("E-SP-01", "Socates Porcelana")
	in.AdjustmentFactor = decimal.NewFromFloat(-0.5)
	_, err := uc.CreateProduct(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUpdateProduct_ParcialNoTocaStock(t *testing.T) {
	uc, productRepo, _ := newProductFixture()

	p, err := uc.CreateProduct(context.Background(), createInput("E-SP-01", "Socates Porcelana"))
	require.NoError(t, err)
	productRepo.products[p.ID].Stock = 42 // stock acumulado vía movimientos

	newPrice := decimal.NewFromFloat(3.25)
	updated, err := uc.UpdateProduct(context.Background(), p.ID, catalog.UpdateProductInput{
		UserID:   "u1",
		PriceUSD: &newPrice,
	})
	require.NoError(t, err)
	assert.True(t, updated.PriceUSD.Equal(newPrice))
	assert.Equal(t, 42, updated.Stock, "el update de catálogo no pasa por el stock")
	assert.Equal(t, "Socates Porcelana", updated.Description, "los campos no enviados no cambian")
}

func TestDeleteProduct_DesapareceDeListados(t *testing.T) {
	uc, _, _ := newProductFixture()

	p, err := uc.CreateProduct(context.Background(), createInput("E-SP-01", "Socates Porcelana"))
	require.NoError(t, err)
	require.NoError(t, uc.DeleteProduct(context.Background(), p.ID, "u1"))

	_, err = uc.GetProduct(context.Background(), p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := uc.ListProducts(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// ItemGroup: árbol de categorías
// ──────────────────────────────────────────────────────────────────────────────

func newGroupFixture(groups ...*entity.ItemGroup) (*catalog.ItemGroupUseCase, *fakeItemGroupRepo, *fakeProductRepo) {
	productRepo := newFakeProductRepo()
	groupRepo := newFakeItemGroupRepo(groups...)
	uc := catalog.NewItemGroupUseCase(groupRepo, productRepo, nopAuditor(), logger.Nop())
	return uc, groupRepo, productRepo
}

func TestCreateItemGroup_NombreDuplicado(t *testing.T) {
	uc, _, _ := newGroupFixture(&entity.ItemGroup{ID: "g1", Name: "Electricidad"})

	_, err := uc.CreateItemGroup(context.Background(), catalog.CreateItemGroupInput{
		UserID: "u1", Name: "Electricidad",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestReparent_RechazaAutoPadre(t *testing.T) {
	uc, _, _ := newGroupFixture(&entity.ItemGroup{ID: "g1", Name: "Electricidad"})

	_, err := uc.Reparent(context.Background(), "g1", "g1", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReparent_RechazaCiclo(t *testing.T) {
	// g1 → g2 → g3; colgar g1 bajo g3 formaría un ciclo.
	uc, _, _ := newGroupFixture(
		&entity.ItemGroup{ID: "g1", Name: "Raíz"},
		&entity.ItemGroup{ID: "g2", Name: "Media", ParentID: "g1"},
		&entity.ItemGroup{ID: "g3", Name: "Hoja", ParentID: "g2"},
	)

	_, err := uc.Reparent(context.Background(), "g1", "g3", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Mover una hoja a la raíz sí es legal.
	moved, err := uc.Reparent(context.Background(), "g3", "", "u1")
	require.NoError(t, err)
	assert.Empty(t, moved.ParentID)
}

func TestProductCount_RecursivoFiltrandoEliminados(t *testing.T) {
	uc, groupRepo, productRepo := newGroupFixture(
		&entity.ItemGroup{ID: "g1", Name: "Raíz"},
		&entity.ItemGroup{ID: "g2", Name: "Hija", ParentID: "g1"},
		&entity.ItemGroup{ID: "g3", Name: "Nieta", ParentID: "g2"},
	)

	add := func(id, groupID string, deleted bool) {
		p := &entity.Product{ID: id, Code: "E-" + id, ItemGroupID: groupID}
		if deleted {
			now := time.Now().UTC()
			p.DeletedAt = &now
		}
		productRepo.products[id] = p
	}
	add("p1", "g1", false)
	add("p2", "g2", false)
	add("p3", "g3", false)
	add("p4", "g3", true) // soft-deleted: no cuenta

	count, err := uc.ProductCount(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Soft-deletear una rama la saca del conteo recursivo.
	require.NoError(t, groupRepo.SoftDelete("g2", "u1", time.Now().UTC()))
	count, err = uc.ProductCount(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "la rama eliminada y sus descendientes quedan fuera")
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores y clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSupplier_NormalizaYUnicidadRIF(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
	uc := catalog.NewSupplierUseCase(supplierRepo, nopAuditor())

	s, err := uc.CreateSupplier(context.Background(), catalog.PartyInput{
		UserID: "u1", Name: "Distribuidora Omega", RIF: " j-12345678-9 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "J-12345678-9", s.RIF, "el RIF se normaliza al formato canónico")

	_, err = uc.CreateSupplier(context.Background(), catalog.PartyInput{
		UserID: "u1", Name: "Otra Distribuidora", RIF: "J-12345678-9",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestCreateSupplier_RIFInvalido(t *testing.T) {
	supplierRepo := &fakeSupplierRepo{suppliers: make(map[string]*entity.Supplier)}
	uc := catalog.NewSupplierUseCase(supplierRepo, nopAuditor())

	_, err := uc.CreateSupplier(context.Background(), catalog.PartyInput{
		UserID: "u1", Name: "Distribuidora Omega", RIF: "X-99-9",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
