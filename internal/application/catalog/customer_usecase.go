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

// CustomerUseCase mantiene los clientes de las órdenes de venta.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	auditor      *audit.Recorder
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository, auditor *audit.Recorder) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, auditor: auditor}
}

// CreateCustomer valida el RIF y persiste el cliente.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input PartyInput) (*entity.Customer, error) {
	name, err := validation.ValidateDescription(input.Name)
	if err != nil {
		return nil, domain.NewValidationError("nombre", "el nombre del cliente es requerido")
	}
	rif, err := validation.NormalizeRIF(input.RIF)
	if err != nil {
		return nil, err
	}
	existing, err := uc.customerRepo.GetByRIF(rif)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.IsDeleted() {
		return nil, domain.NewBusinessLogicError(domain.ErrDuplicate, "ya existe un cliente activo con RIF %s", rif)
	}

	now := time.Now().UTC()
	customer := &entity.Customer{
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
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	uc.auditor.Record(input.UserID, audit.ActionCreate, "Customer", customer.ID, nil, customer)
	return customer, nil
}

// DeleteCustomer soft-deletea el cliente. Sus órdenes históricas se conservan.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, customerID, userID string) error {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return err
	}
	if customer == nil || customer.IsDeleted() {
		return domain.NewNotFoundError("Customer", customerID)
	}
	if err := uc.customerRepo.SoftDelete(customerID, userID, time.Now().UTC()); err != nil {
		return err
	}
	uc.auditor.Record(userID, audit.ActionDelete, "Customer", customerID, customer, nil)
	return nil
}

// ListCustomers devuelve clientes activos paginados.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, page, perPage int) ([]*entity.Customer, error) {
	page, perPage, err := validation.ValidatePagination(page, perPage)
	if err != nil {
		return nil, err
	}
	return uc.customerRepo.ListActive(perPage, (page-1)*perPage)
}
