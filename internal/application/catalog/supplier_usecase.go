package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/internal/domain/validation"
)

// SupplierUseCase mantiene los proveedores (RIF único entre activos).
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
	auditor      *audit.Recorder
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository, auditor *audit.Recorder) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo, auditor: auditor}
}

// PartyInput entrada común para proveedores y clientes.
type PartyInput struct {
	UserID  string
	Name    string
	RIF     string
	Phone   string
	Email   string
	Address string
}

// CreateSupplier valida el RIF y persiste el proveedor.
func (uc *SupplierUseCase) CreateSupplier(ctx context.Context, input PartyInput) (*entity.Supplier, error) {
	name, err := validation.ValidateDescription(input.Name)
	if err != nil {
		return nil, domain.NewValidationError("nombre", "el nombre del proveedor es requerido")
	}
	rif, err := validation.NormalizeRIF(input.RIF)
	if err != nil {
		return nil, err
	}
	existing, err := uc.supplierRepo.GetByRIF(rif)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.IsDeleted() {
		return nil, domain.NewBusinessLogicError(domain.ErrDuplicate, "ya existe un proveedor activo con RIF %s", rif)
	}

	now := time.Now().UTC()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      name,
		RIF:       rif,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: input.UserID,
		UpdatedBy: input.UserID,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	uc.auditor.Record(input.UserID, audit.ActionCreate, "Supplier", supplier.ID, nil, supplier)
	return supplier, nil
}

// DeleteSupplier soft-deletea el proveedor.
func (uc *SupplierUseCase) DeleteSupplier(ctx context.Context, supplierID, userID string) error {
	supplier, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil {
		return err
	}
	if supplier == nil || supplier.IsDeleted() {
		return domain.NewNotFoundError("Supplier", supplierID)
	}
	if err := uc.supplierRepo.SoftDelete(supplierID, userID, time.Now().UTC()); err != nil {
		return err
	}
	uc.auditor.Record(userID, audit.ActionDelete, "Supplier", supplierID, supplier, nil)
	return nil
}

// ListSuppliers devuelve proveedores activos paginados.
func (uc *SupplierUseCase) ListSuppliers(ctx context.Context, page, perPage int) ([]*entity.Supplier, error) {
	page, perPage, err := validation.ValidatePagination(page, perPage)
	if err != nil {
		return nil, err
	}
	return uc.supplierRepo.ListActive(perPage, (page-1)*perPage)
}
