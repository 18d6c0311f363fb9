package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/rates"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// RateHandler maneja las tasas de cambio USD → Bs (protegido).
type RateHandler struct {
	uc *rates.ExchangeRateUseCase
}

// NewRateHandler construye el handler.
func NewRateHandler(uc *rates.ExchangeRateUseCase) *RateHandler {
	return &RateHandler{uc: uc}
}

type setRateRequest struct {
	Date string          `json:"fecha"` // opcional, vacío = hoy
	Rate decimal.Decimal `json:"tasa"`
}

type rateResponse struct {
	ID   string          `json:"id"`
	Date string          `json:"fecha"`
	Rate decimal.Decimal `json:"tasa"`
}

func toRateResponse(r *entity.ExchangeRate) rateResponse {
	return rateResponse{ID: r.ID, Date: r.Date.Format("2006-01-02"), Rate: r.Rate}
}

// Set godoc
// @Summary      Registrar la tasa de un día (la fecha es llave natural)
// @Tags         rates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  rateResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /api/rates [put]
func (h *RateHandler) Set(c *fiber.Ctx) error {
	var in setRateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDateQuery(in.Date)
	if err != nil {
		return writeError(c, err)
	}
	var day time.Time
	if date != nil {
		day = *date
	}
	entry, err := h.uc.SetRate(c.Context(), GetUserID(c), day, in.Rate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRateResponse(entry))
}

// Current devuelve la tasa vigente. Sin tasa cargada responde 409: el
// sistema nunca asume 1:1.
func (h *RateHandler) Current(c *fiber.Ctx) error {
	rate, err := h.uc.CurrentRate(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRateResponse(rate))
}

// History devuelve las tasas de un rango (?from=&to= requeridos).
func (h *RateHandler) History(c *fiber.Ctx) error {
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
	history, err := h.uc.History(c.Context(), *from, *to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]rateResponse, 0, len(history))
	for _, r := range history {
		out = append(out, toRateResponse(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "rates": out})
}
