package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/orders"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// OrderHandler maneja las órdenes de venta (protegido).
type OrderHandler struct {
	uc *orders.SalesOrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.SalesOrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type orderItemRequest struct {
	ProductID       string           `json:"product_id"`
	Quantity        int              `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"` // nil = precio USD actual del producto
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	TaxPercent      decimal.Decimal  `json:"tax_percent"`
	Notes           string           `json:"notes"`
}

type createOrderRequest struct {
	CustomerID           string             `json:"customer_id"`
	OrderDate            string             `json:"order_date"` // opcional, vacío = hoy
	ExpectedDeliveryDate string             `json:"expected_delivery_date"`
	Items                []orderItemRequest `json:"items"`
	TaxAmount            decimal.Decimal    `json:"tax_amount"`
	DiscountAmount       decimal.Decimal    `json:"discount_amount"`
	ShippingCost         decimal.Decimal    `json:"shipping_cost"`
	ShippingAddress      string             `json:"shipping_address"`
	ShippingMethod       string             `json:"shipping_method"`
	Notes                string             `json:"notes"`
}

type orderItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Notes           string          `json:"notes,omitempty"`
}

type orderResponse struct {
	ID                   string              `json:"id"`
	OrderNumber          string              `json:"order_number"`
	OrderDate            time.Time           `json:"order_date"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	CustomerID           string              `json:"customer_id"`
	Status               string              `json:"status"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	TaxAmount            decimal.Decimal     `json:"tax_amount"`
	DiscountAmount       decimal.Decimal     `json:"discount_amount"`
	ShippingCost         decimal.Decimal     `json:"shipping_cost"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	PaymentStatus        string              `json:"payment_status"`
	PaidAmount           decimal.Decimal     `json:"paid_amount"`
	ShippingAddress      string              `json:"shipping_address,omitempty"`
	ShippingMethod       string              `json:"shipping_method,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	Items                []orderItemResponse `json:"items"`
}

func toOrderResponse(o *entity.SalesOrder) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			TotalPrice:      it.TotalPrice,
			Notes:           it.Notes,
		})
	}
	return orderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		CustomerID:           o.CustomerID,
		Status:               o.Status,
		Subtotal:             o.Subtotal,
		TaxAmount:            o.TaxAmount,
		DiscountAmount:       o.DiscountAmount,
		ShippingCost:         o.ShippingCost,
		TotalAmount:          o.TotalAmount,
		PaymentStatus:        o.PaymentStatus,
		PaidAmount:           o.PaidAmount,
		ShippingAddress:      o.ShippingAddress,
		ShippingMethod:       o.ShippingMethod,
		Notes:                o.Notes,
		Items:                items,
	}
}

// Create godoc
// @Summary      Crear orden de venta en estado draft (no toca stock)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  orderResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in createOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	orderDate, err := parseDateQuery(in.OrderDate)
	if err != nil {
		return writeError(c, err)
	}
	expected, err := parseDateQuery(in.ExpectedDeliveryDate)
	if err != nil {
		return writeError(c, err)
	}
	input := orders.CreateOrderInput{
		UserID:               GetUserID(c),
		CustomerID:           in.CustomerID,
		ExpectedDeliveryDate: expected,
		TaxAmount:            in.TaxAmount,
		DiscountAmount:       in.DiscountAmount,
		ShippingCost:         in.ShippingCost,
		ShippingAddress:      in.ShippingAddress,
		ShippingMethod:       in.ShippingMethod,
		Notes:                in.Notes,
	}
	if orderDate != nil {
		input.OrderDate = *orderDate
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, orders.OrderItemInput{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxPercent:      it.TaxPercent,
			Notes:           it.Notes,
		})
	}
	order, err := h.uc.CreateOrder(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// GetByID devuelve una orden activa con sus líneas.
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// ListByCustomer devuelve las órdenes activas de un cliente, paginadas.
func (h *OrderHandler) ListByCustomer(c *fiber.Ctx) error {
	ordersList, err := h.uc.ListByCustomer(c.Context(), c.Params("customerId"), c.QueryInt("page"), c.QueryInt("per_page"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]orderResponse, 0, len(ordersList))
	for _, o := range ordersList {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "orders": out})
}

// Confirm godoc
// @Summary      Confirmar orden draft reservando inventario
// @Description  Verifica suficiencia de todas las líneas antes de mutar; con 409 el stock queda intacto y la orden sigue en draft.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	order, err := h.uc.Confirm(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Cancel cancela una orden draft o confirmed; si estaba confirmada devuelve
// la reserva de stock.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus aplica una transición simple (confirmed→packed→shipped→delivered).
func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	var in setStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := h.uc.SetStatus(c.Context(), c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}
