// Package orders implementa el motor de órdenes de venta: creación,
// máquina de estados y las transiciones confirm/cancel que reservan y
// liberan inventario a través del libro de movimientos.
package orders

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/internal/domain/validation"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// SalesOrderUseCase orquesta el ciclo de vida de las órdenes de venta.
type SalesOrderUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.SalesOrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	movementUC   *inventory.RegisterMovementUseCase
	auditor      *audit.Recorder
	log          *logger.Logger
}

// NewSalesOrderUseCase construye el caso de uso.
func NewSalesOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.SalesOrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	movementUC *inventory.RegisterMovementUseCase,
	auditor *audit.Recorder,
	log *logger.Logger,
) *SalesOrderUseCase {
	return &SalesOrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		movementUC:   movementUC,
		auditor:      auditor,
		log:          log,
	}
}

// OrderItemInput línea de una orden nueva.
type OrderItemInput struct {
	ProductID       string
	Quantity        int
	UnitPrice       *decimal.Decimal // nil = precio USD actual del producto
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	Notes           string
}

// CreateOrderInput entrada para crear una orden.
type CreateOrderInput struct {
	UserID               string
	CustomerID           string
	OrderDate            time.Time // cero = hoy
	ExpectedDeliveryDate *time.Time
	Items                []OrderItemInput
	TaxAmount            decimal.Decimal
	DiscountAmount       decimal.Decimal
	ShippingCost         decimal.Decimal
	ShippingAddress      string
	ShippingMethod       string
	Notes                string
}

// CreateOrder crea una orden en estado draft. Valida cliente y productos,
// calcula los totales por línea y de la orden, y genera el número de orden.
// No tiene ningún efecto sobre el stock: eso ocurre solo al confirmar.
func (uc *SalesOrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.SalesOrder, error) {
	if input.CustomerID == "" {
		return nil, domain.NewValidationError("customer_id", "el cliente es requerido")
	}
	customer, err := uc.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.IsDeleted() {
		return nil, domain.NewValidationError("customer_id", "el cliente no existe")
	}
	if len(input.Items) == 0 {
		return nil, domain.NewValidationError("items", "la orden debe tener al menos un producto")
	}
	for _, amount := range []struct {
		field string
		value decimal.Decimal
	}{
		{"tax_amount", input.TaxAmount},
		{"discount_amount", input.DiscountAmount},
		{"shipping_cost", input.ShippingCost},
	} {
		if err := validation.ValidatePrice(amount.field, amount.value); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}

	order := &entity.SalesOrder{
		ID:                   uuid.New().String(),
		OrderDate:            orderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		CustomerID:           input.CustomerID,
		Status:               entity.OrderStatusDraft,
		TaxAmount:            input.TaxAmount,
		DiscountAmount:       input.DiscountAmount,
		ShippingCost:         input.ShippingCost,
		PaymentStatus:        entity.PaymentStatusPending,
		PaidAmount:           decimal.Zero,
		ShippingAddress:      strings.TrimSpace(input.ShippingAddress),
		ShippingMethod:       strings.TrimSpace(input.ShippingMethod),
		Notes:                strings.TrimSpace(input.Notes),
		CreatedAt:            now,
		UpdatedAt:            now,
		CreatedBy:            input.UserID,
		UpdatedBy:            input.UserID,
	}

	for _, in := range input.Items {
		item, err := uc.buildItem(order.ID, in)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	order.CalculateTotals()

	order.OrderNumber, err = uc.nextOrderNumber(now)
	if err != nil {
		return nil, err
	}

	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_number", order.OrderNumber).
		Str("customer_id", order.CustomerID).
		Int("items", len(order.Items)).
		Msg("orden de venta creada")
	uc.auditor.Record(input.UserID, audit.ActionCreate, "SalesOrder", order.ID, nil, order)

	return order, nil
}

func (uc *SalesOrderUseCase) buildItem(orderID string, in OrderItemInput) (*entity.SalesOrderItem, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "el producto es requerido")
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.NewValidationError("product_id", fmt.Sprintf("el producto %s no existe", in.ProductID))
	}
	if err := validation.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}

	unitPrice := product.PriceUSD
	if in.UnitPrice != nil {
		if err := validation.ValidatePrice("unit_price", *in.UnitPrice); err != nil {
			return nil, err
		}
		unitPrice = *in.UnitPrice
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.NewValidationError("discount_percent", "el descuento debe estar entre 0 y 100")
	}
	if in.TaxPercent.IsNegative() {
		return nil, domain.NewValidationError("tax_percent", "el impuesto no puede ser negativo")
	}

	item := &entity.SalesOrderItem{
		ID:              uuid.New().String(),
		SalesOrderID:    orderID,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: in.DiscountPercent,
		TaxPercent:      in.TaxPercent,
		Notes:           strings.TrimSpace(in.Notes),
	}
	item.CalculateTotal()
	return item, nil
}

// nextOrderNumber genera SO-YYYYMMDD-NNNN con secuencial diario.
func (uc *SalesOrderUseCase) nextOrderNumber(now time.Time) (string, error) {
	prefix := "SO-" + now.Format("20060102")
	last, err := uc.orderRepo.LastOrderNumberWithPrefix(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		parts := strings.Split(last, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}

// Confirm confirma una orden draft reservando inventario: verifica la
// suficiencia de TODOS los productos antes de mutar CUALQUIERA (bloqueando
// las filas en orden determinista de id para evitar deadlocks) y recién
// entonces registra una SALIDA por línea. Todo dentro de una transacción:
// si una línea falla, el stock queda intacto y la orden sigue en draft.
func (uc *SalesOrderUseCase) Confirm(ctx context.Context, orderID, userID string) (*entity.SalesOrder, error) {
	now := time.Now().UTC()
	var confirmed *entity.SalesOrder

	err := uc.txRunner.RunOrders(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.SalesOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.IsDeleted() {
			return domain.NewNotFoundError("SalesOrder", orderID)
		}
		// Re-confirmar una orden ya confirmada falla limpio, nunca
		// duplica la reserva.
		if !order.CanBeConfirmed() {
			return domain.NewBusinessLogicError(domain.ErrInvalidTransition,
				"la orden %s no puede confirmarse desde el estado '%s'", order.OrderNumber, order.Status)
		}

		products, err := uc.lockProducts(productRepo, order)
		if err != nil {
			return err
		}

		// Primero verificar todas las líneas contra las filas bloqueadas.
		required := make(map[string]int)
		for _, item := range order.Items {
			required[item.ProductID] += item.Quantity
		}
		for productID, qty := range required {
			p := products[productID]
			if p.Stock < qty {
				return domain.NewBusinessLogicError(domain.ErrInsufficientStock,
					"stock insuficiente para %s: stock actual %d, requerido %d",
					p.Description, p.Stock, qty)
			}
		}

		// Recién ahora mutar: una SALIDA por línea.
		for _, item := range order.Items {
			p := products[item.ProductID]
			if _, err := uc.movementUC.RegisterExitInTx(movRepo, productRepo, p, item.Quantity,
				"orden "+order.OrderNumber, userID, now); err != nil {
				return err
			}
		}

		if err := orderRepo.UpdateStatus(order.ID, entity.OrderStatusConfirmed, userID, now); err != nil {
			return err
		}
		order.Status = entity.OrderStatusConfirmed
		order.UpdatedBy = userID
		order.UpdatedAt = now
		confirmed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_number", confirmed.OrderNumber).Msg("orden confirmada, stock reservado")
	uc.auditor.Record(userID, audit.ActionConfirm, "SalesOrder", confirmed.ID,
		map[string]string{"status": entity.OrderStatusDraft},
		map[string]string{"status": entity.OrderStatusConfirmed})

	return confirmed, nil
}

// Cancel cancela una orden draft o confirmed. Si estaba confirmada, devuelve
// la reserva registrando una ENTRADA por línea (el stock queda exactamente
// como antes de confirmar); desde draft no hay efecto de stock.
func (uc *SalesOrderUseCase) Cancel(ctx context.Context, orderID, userID string) (*entity.SalesOrder, error) {
	now := time.Now().UTC()
	var cancelled *entity.SalesOrder

	err := uc.txRunner.RunOrders(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.SalesOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.IsDeleted() {
			return domain.NewNotFoundError("SalesOrder", orderID)
		}
		if !order.CanBeCancelled() {
			return domain.NewBusinessLogicError(domain.ErrInvalidTransition,
				"la orden %s no puede cancelarse desde el estado '%s'", order.OrderNumber, order.Status)
		}

		prevStatus := order.Status
		if prevStatus == entity.OrderStatusConfirmed {
			products, err := uc.lockProducts(productRepo, order)
			if err != nil {
				return err
			}
			for _, item := range order.Items {
				p := products[item.ProductID]
				if _, err := uc.movementUC.RegisterEntryInTx(movRepo, productRepo, p, item.Quantity,
					"cancelación orden "+order.OrderNumber, userID, now); err != nil {
					return err
				}
			}
		}

		if err := orderRepo.UpdateStatus(order.ID, entity.OrderStatusCancelled, userID, now); err != nil {
			return err
		}
		order.Status = entity.OrderStatusCancelled
		order.UpdatedBy = userID
		order.UpdatedAt = now
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_number", cancelled.OrderNumber).Msg("orden cancelada")
	uc.auditor.Record(userID, audit.ActionCancel, "SalesOrder", cancelled.ID, nil,
		map[string]string{"status": entity.OrderStatusCancelled})

	return cancelled, nil
}

// SetStatus aplica una transición simple entre los estados que no afectan
// stock (confirmed→packed→shipped→delivered). Rechaza valores fuera del
// conjunto enumerado y cualquier salto ilegal; confirm y cancel tienen sus
// propias operaciones y no pasan por aquí.
func (uc *SalesOrderUseCase) SetStatus(ctx context.Context, orderID, newStatus, userID string) (*entity.SalesOrder, error) {
	if !entity.IsValidOrderStatus(newStatus) {
		return nil, domain.NewValidationError("status", "estado desconocido: "+newStatus)
	}
	if newStatus == entity.OrderStatusConfirmed || newStatus == entity.OrderStatusCancelled {
		return nil, domain.NewBusinessLogicError(domain.ErrInvalidTransition,
			"use las operaciones de confirmación o cancelación para el estado '%s'", newStatus)
	}

	now := time.Now().UTC()
	var updated *entity.SalesOrder

	err := uc.txRunner.RunOrders(ctx, func(
		_ repository.MovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.SalesOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.IsDeleted() {
			return domain.NewNotFoundError("SalesOrder", orderID)
		}
		if !order.CanTransitionTo(newStatus) {
			return domain.NewBusinessLogicError(domain.ErrInvalidTransition,
				"transición ilegal de '%s' a '%s'", order.Status, newStatus)
		}
		prev := order.Status
		if err := orderRepo.UpdateStatus(order.ID, newStatus, userID, now); err != nil {
			return err
		}
		order.Status = newStatus
		order.UpdatedBy = userID
		order.UpdatedAt = now
		updated = order

		uc.auditor.Record(userID, audit.ActionStatus, "SalesOrder", order.ID,
			map[string]string{"status": prev}, map[string]string{"status": newStatus})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetOrder devuelve una orden activa con sus líneas.
func (uc *SalesOrderUseCase) GetOrder(ctx context.Context, orderID string) (*entity.SalesOrder, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.IsDeleted() {
		return nil, domain.NewNotFoundError("SalesOrder", orderID)
	}
	return order, nil
}

// ListByCustomer devuelve las órdenes activas de un cliente, paginadas.
func (uc *SalesOrderUseCase) ListByCustomer(ctx context.Context, customerID string, page, perPage int) ([]*entity.SalesOrder, error) {
	page, perPage, err := validation.ValidatePagination(page, perPage)
	if err != nil {
		return nil, err
	}
	return uc.orderRepo.ListByCustomer(customerID, perPage, (page-1)*perPage)
}

// lockProducts bloquea las filas de todos los productos de la orden en orden
// ascendente de id (orden determinista: dos confirmaciones concurrentes que
// comparten productos nunca se bloquean en cruz). Devuelve los productos
// indexados por id.
func (uc *SalesOrderUseCase) lockProducts(
	productRepo repository.ProductRepository,
	order *entity.SalesOrder,
) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(order.Items))
	seen := make(map[string]bool, len(order.Items))
	for _, item := range order.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := productRepo.GetForUpdate(id)
		if err != nil {
			return nil, err
		}
		if p == nil || p.IsDeleted() {
			return nil, domain.NewNotFoundError("Product", id)
		}
		products[id] = p
	}
	return products, nil
}
