package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// CustomerHandler maneja los clientes (protegido).
type CustomerHandler struct {
	uc *catalog.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *catalog.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

func toCustomerResponse(cu *entity.Customer) partyResponse {
	return partyResponse{ID: cu.ID, Name: cu.Name, RIF: cu.RIF, Phone: cu.Phone, Email: cu.Email, Address: cu.Address}
}

// Create godoc
// @Summary      Crear cliente (RIF único entre activos)
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  partyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in partyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.CreateCustomer(c.Context(), catalog.PartyInput{
		UserID:  GetUserID(c),
		Name:    in.Name,
		RIF:     in.RIF,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(customer))
}

// List devuelve clientes activos paginados.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.uc.ListCustomers(c.Context(), c.QueryInt("page"), c.QueryInt("per_page"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]partyResponse, 0, len(customers))
	for _, cu := range customers {
		out = append(out, toCustomerResponse(cu))
	}
	return c.JSON(fiber.Map{"total": len(out), "customers": out})
}

// Delete soft-deletea el cliente; sus órdenes históricas siguen consultables.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteCustomer(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
