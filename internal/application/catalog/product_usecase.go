// Package catalog implementa el mantenimiento del catálogo: productos,
// categorías (rubros), proveedores y clientes.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/codegen"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/internal/domain/validation"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// ProductUseCase mantiene el catálogo de productos. El stock NO se toca aquí:
// el alta fija el stock inicial en cero y de ahí en adelante solo el libro de
// movimientos lo muta.
type ProductUseCase struct {
	productRepo   repository.ProductRepository
	itemGroupRepo repository.ItemGroupRepository
	supplierRepo  repository.SupplierRepository
	auditor       *audit.Recorder
	log           *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	itemGroupRepo repository.ItemGroupRepository,
	supplierRepo repository.SupplierRepository,
	auditor *audit.Recorder,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:   productRepo,
		itemGroupRepo: itemGroupRepo,
		supplierRepo:  supplierRepo,
		auditor:       auditor,
		log:           log,
	}
}

// CreateProductInput entrada para crear un producto. Code vacío activa la
// generación automática a partir del rubro y la descripción; Code presente
// es la vía manual heredada (se valida contra el mismo formato y el mismo
// chequeo de unicidad que la automática).
type CreateProductInput struct {
	UserID           string
	Code             string
	Description      string
	PriceUSD         decimal.Decimal
	AdjustmentFactor decimal.Decimal
	ReorderPoint     int
	ReorderQuantity  int
	SupplierID       string
	ItemGroupID      string
}

// CreateProduct valida, resuelve el código (manual o generado) y persiste el
// producto con stock inicial cero.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	descripcion, err := validation.ValidateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePrice("precio_dolares", input.PriceUSD); err != nil {
		return nil, err
	}
	factor := input.AdjustmentFactor
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}
	if err := validation.ValidateAdjustmentFactor(factor); err != nil {
		return nil, err
	}
	if input.ReorderPoint < 0 || input.ReorderQuantity < 0 {
		return nil, domain.NewValidationError("reorder_point", "los parámetros de reorden no pueden ser negativos")
	}
	if input.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil || supplier.IsDeleted() {
			return nil, domain.NewValidationError("proveedor_id", "el proveedor no existe")
		}
	}

	code, err := uc.resolveCode(input.Code, input.ItemGroupID, descripcion)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Code:             code,
		Description:      descripcion,
		Stock:            0,
		PriceUSD:         input.PriceUSD,
		AdjustmentFactor: factor,
		ReorderPoint:     input.ReorderPoint,
		ReorderQuantity:  input.ReorderQuantity,
		SupplierID:       input.SupplierID,
		ItemGroupID:      input.ItemGroupID,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        input.UserID,
		UpdatedBy:        input.UserID,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	uc.log.Info().Str("codigo", code).Str("descripcion", descripcion).Msg("producto creado")
	uc.auditor.Record(input.UserID, audit.ActionCreate, "Product", product.ID, nil, product)

	return product, nil
}

// resolveCode devuelve el código a usar: el manual normalizado o uno generado.
// Ambos caminos comparten el chequeo de unicidad contra códigos activos.
func (uc *ProductUseCase) resolveCode(manual, itemGroupID, descripcion string) (string, error) {
	if manual != "" {
		code, err := validation.NormalizeProductCode(manual)
		if err != nil {
			return "", err
		}
		existing, err := uc.productRepo.GetByCode(code)
		if err != nil {
			return "", err
		}
		if existing != nil && !existing.IsDeleted() {
			return "", domain.NewBusinessLogicError(domain.ErrDuplicate, "ya existe un producto activo con el código %s", code)
		}
		return code, nil
	}

	categoryName := ""
	if itemGroupID != "" {
		group, err := uc.itemGroupRepo.GetByID(itemGroupID)
		if err != nil {
			return "", err
		}
		if group != nil && !group.IsDeleted() {
			categoryName = group.Name
		}
	}
	prefix := codegen.Prefix(categoryName, descripcion)
	existingCodes, err := uc.productRepo.ListActiveCodesByPrefix(prefix)
	if err != nil {
		return "", err
	}
	code, err := codegen.Generate(categoryName, descripcion, existingCodes)
	if err != nil {
		return "", err
	}
	// El generado debe pasar la misma validación que el manual.
	if err := validation.ValidateProductCode(code); err != nil {
		return "", err
	}
	return code, nil
}

// UpdateProductInput campos actualizables de un producto. Punteros nil se
// dejan como están. El stock no es actualizable por esta vía.
type UpdateProductInput struct {
	UserID           string
	Description      *string
	PriceUSD         *decimal.Decimal
	AdjustmentFactor *decimal.Decimal
	ReorderPoint     *int
	ReorderQuantity  *int
	SupplierID       *string
	ItemGroupID      *string
}

// UpdateProduct actualiza los campos de catálogo de un producto activo.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*entity.Product, error) {
	product, err := uc.activeProduct(productID)
	if err != nil {
		return nil, err
	}
	old := *product

	if input.Description != nil {
		descripcion, err := validation.ValidateDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		product.Description = descripcion
	}
	if input.PriceUSD != nil {
		if err := validation.ValidatePrice("precio_dolares", *input.PriceUSD); err != nil {
			return nil, err
		}
		product.PriceUSD = *input.PriceUSD
	}
	if input.AdjustmentFactor != nil {
		if err := validation.ValidateAdjustmentFactor(*input.AdjustmentFactor); err != nil {
			return nil, err
		}
		product.AdjustmentFactor = *input.AdjustmentFactor
	}
	if input.ReorderPoint != nil {
		if *input.ReorderPoint < 0 {
			return nil, domain.NewValidationError("reorder_point", "no puede ser negativo")
		}
		product.ReorderPoint = *input.ReorderPoint
	}
	if input.ReorderQuantity != nil {
		if *input.ReorderQuantity < 0 {
			return nil, domain.NewValidationError("reorder_quantity", "no puede ser negativo")
		}
		product.ReorderQuantity = *input.ReorderQuantity
	}
	if input.SupplierID != nil {
		product.SupplierID = *input.SupplierID
	}
	if input.ItemGroupID != nil {
		product.ItemGroupID = *input.ItemGroupID
	}

	product.UpdatedBy = input.UserID
	product.UpdatedAt = time.Now().UTC()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}

	uc.auditor.Record(input.UserID, audit.ActionUpdate, "Product", product.ID, &old, product)
	return product, nil
}

// DeleteProduct marca el producto como eliminado (soft delete). Su historial
// de movimientos sigue consultable.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, productID, userID string) error {
	product, err := uc.activeProduct(productID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := uc.productRepo.SoftDelete(productID, userID, now); err != nil {
		return err
	}
	uc.auditor.Record(userID, audit.ActionDelete, "Product", productID, product, nil)
	return nil
}

// GetProduct devuelve un producto activo.
func (uc *ProductUseCase) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	return uc.activeProduct(productID)
}

// ListProducts devuelve productos activos paginados.
func (uc *ProductUseCase) ListProducts(ctx context.Context, page, perPage int) ([]*entity.Product, error) {
	page, perPage, err := validation.ValidatePagination(page, perPage)
	if err != nil {
		return nil, err
	}
	return uc.productRepo.ListActive(perPage, (page-1)*perPage)
}

func (uc *ProductUseCase) activeProduct(productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.NewNotFoundError("Product", productID)
	}
	return product, nil
}
