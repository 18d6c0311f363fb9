package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// SupplierHandler maneja los proveedores (protegido).
type SupplierHandler struct {
	uc *catalog.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *catalog.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// partyRequest cuerpo común para proveedores y clientes.
type partyRequest struct {
	Name    string `json:"nombre"`
	RIF     string `json:"rif"`
	Phone   string `json:"telefono"`
	Email   string `json:"email"`
	Address string `json:"direccion"`
}

type partyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"nombre"`
	RIF     string `json:"rif"`
	Phone   string `json:"telefono,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"direccion,omitempty"`
}

func toSupplierResponse(s *entity.Supplier) partyResponse {
	return partyResponse{ID: s.ID, Name: s.Name, RIF: s.RIF, Phone: s.Phone, Email: s.Email, Address: s.Address}
}

// Create godoc
// @Summary      Crear proveedor (RIF único entre activos)
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  partyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in partyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	supplier, err := h.uc.CreateSupplier(c.Context(), catalog.PartyInput{
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
	return c.Status(fiber.StatusCreated).JSON(toSupplierResponse(supplier))
}

// List devuelve proveedores activos paginados.
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.uc.ListSuppliers(c.Context(), c.QueryInt("page"), c.QueryInt("per_page"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]partyResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return c.JSON(fiber.Map{"total": len(out), "suppliers": out})
}

// Delete soft-deletea el proveedor; sus productos conservan la referencia.
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSupplier(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
