package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta. Flujo: draft → confirmed → packed →
// shipped → delivered, con draft/confirmed → cancelled como escapes.
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPacked    = "packed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Estados de pago.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// SalesOrder representa una orden de venta de un cliente con sus líneas.
type SalesOrder struct {
	ID                   string
	OrderNumber          string // único, formato SO-YYYYMMDD-NNNN
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	CustomerID           string
	Status               string
	Subtotal             decimal.Decimal
	TaxAmount            decimal.Decimal
	DiscountAmount       decimal.Decimal
	ShippingCost         decimal.Decimal
	TotalAmount          decimal.Decimal
	PaymentStatus        string
	PaidAmount           decimal.Decimal
	ShippingAddress      string
	ShippingMethod       string
	Notes                string
	InternalNotes        string
	Items                []*SalesOrderItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CreatedBy            string
	UpdatedBy            string
	DeletedAt            *time.Time
}

// IsDeleted indica si la orden está soft-deleted.
func (o *SalesOrder) IsDeleted() bool { return o.DeletedAt != nil }

// CanBeConfirmed: solo una orden draft puede confirmarse.
func (o *SalesOrder) CanBeConfirmed() bool { return o.Status == OrderStatusDraft }

// CanBeCancelled: solo draft o confirmed pueden cancelarse.
func (o *SalesOrder) CanBeCancelled() bool {
	return o.Status == OrderStatusDraft || o.Status == OrderStatusConfirmed
}

// CalculateTotals recalcula subtotal y total desde las líneas.
// total = subtotal + impuesto + envío - descuento.
func (o *SalesOrder) CalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Add(o.TaxAmount).Add(o.ShippingCost).Sub(o.DiscountAmount)
}

// nextStatus define las transiciones simples que no tocan stock.
// confirm y cancel no pasan por aquí: tienen sus propias operaciones.
var nextStatus = map[string]string{
	OrderStatusConfirmed: OrderStatusPacked,
	OrderStatusPacked:    OrderStatusShipped,
	OrderStatusShipped:   OrderStatusDelivered,
}

// CanTransitionTo verifica una transición simple de estado (sin efecto de stock).
func (o *SalesOrder) CanTransitionTo(status string) bool {
	return nextStatus[o.Status] == status
}

// IsValidOrderStatus verifica que el valor pertenezca al conjunto enumerado.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusPacked,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// SalesOrderItem es una línea de la orden.
type SalesOrderItem struct {
	ID              string
	SalesOrderID    string
	ProductID       string
	Quantity        int // > 0
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	TotalPrice      decimal.Decimal
	Notes           string
}

var oneHundred = decimal.NewFromInt(100)

// CalculateTotal fija TotalPrice = (cant × precio) × (1 − desc%/100) ×
// (1 + imp%/100), redondeado a 2 decimales (unidad menor de la moneda).
func (i *SalesOrderItem) CalculateTotal() {
	subtotal := decimal.NewFromInt(int64(i.Quantity)).Mul(i.UnitPrice)
	discount := subtotal.Mul(i.DiscountPercent.Div(oneHundred))
	afterDiscount := subtotal.Sub(discount)
	tax := afterDiscount.Mul(i.TaxPercent.Div(oneHundred))
	i.TotalPrice = afterDiscount.Add(tax).Round(2)
}
