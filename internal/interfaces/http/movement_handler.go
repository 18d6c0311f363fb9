package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// MovementHandler maneja el libro de movimientos de inventario (protegido).
type MovementHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RegisterMovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// parseDateQuery acepta fecha sola (2006-01-02) o RFC3339 completo.
func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.NewValidationError("fecha", "formato de fecha inválido: "+raw)
}

type createMovementRequest struct {
	ProductID string `json:"producto_id"`
	Type      string `json:"tipo"`
	Quantity  int    `json:"cantidad"`
	Date      string `json:"fecha"` // opcional, vacío = hoy
	Note      string `json:"nota"`
}

type movementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"producto_id"`
	Type      string    `json:"tipo"`
	Quantity  int       `json:"cantidad"`
	Date      time.Time `json:"fecha"`
	Note      string    `json:"nota,omitempty"`
}

func toMovementResponse(m *entity.Movement) movementResponse {
	return movementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Date:      m.Date,
		Note:      m.Note,
	}
}

// Register godoc
// @Summary      Registrar movimiento (ENTRADA, SALIDA o AJUSTE)
// @Description  Único camino para mutar el stock. SALIDA falla con 409 si no hay suficiencia; AJUSTE fija el stock en la cantidad.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  movementResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in createMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDateQuery(in.Date)
	if err != nil {
		return writeError(c, err)
	}
	input := inventory.MovementInput{
		UserID:    GetUserID(c),
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Note:      in.Note,
	}
	if date != nil {
		input.Date = *date
	}
	mov, newStock, err := h.uc.RegisterMovement(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"movement":  toMovementResponse(mov),
		"new_stock": newStock,
	})
}

// History devuelve el historial de un producto (?from=&to=&page=&per_page=).
// El historial de un producto soft-deleted sigue siendo consultable.
func (h *MovementHandler) History(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	movements, err := h.uc.History(c.Context(), c.Params("id"), from, to, c.QueryInt("page"), c.QueryInt("per_page"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// ListByDateRange devuelve los movimientos de todos los productos en un
// rango de fechas (?from=&to= requeridos).
func (h *MovementHandler) ListByDateRange(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	if from == nil || to == nil {
		return writeError(c, domain.NewValidationError("rango", "los parámetros from y to son requeridos"))
	}
	movements, err := h.uc.ListByDateRange(c.Context(), *from, *to, c.QueryInt("page"), c.QueryInt("per_page"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]movementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}
