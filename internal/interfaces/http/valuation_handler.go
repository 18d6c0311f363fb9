package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/infrastructure/pdf"
)

// ValuationHandler expone el reporte de valoración de inventario en JSON y
// en PDF (protegido).
type ValuationHandler struct {
	uc  *inventory.ValuationUseCase
	pdf *pdf.ValuationPDFGenerator
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc *inventory.ValuationUseCase, gen *pdf.ValuationPDFGenerator) *ValuationHandler {
	return &ValuationHandler{uc: uc, pdf: gen}
}

type valuationLineResponse struct {
	ProductID    string          `json:"producto_id"`
	Code         string          `json:"codigo"`
	Description  string          `json:"descripcion"`
	PriceLocal   decimal.Decimal `json:"precio_local"`
	OpeningStock int             `json:"stock_apertura"`
	Entries      int             `json:"entradas"`
	Exits        int             `json:"salidas"`
	ClosingStock int             `json:"stock_cierre"`
	OpeningValue decimal.Decimal `json:"valor_apertura"`
	ClosingValue decimal.Decimal `json:"valor_cierre"`
}

type valuationResponse struct {
	Start        string                  `json:"desde"`
	End          string                  `json:"hasta"`
	Rate         decimal.Decimal         `json:"tasa"`
	Lines        []valuationLineResponse `json:"lineas"`
	TotalOpening decimal.Decimal         `json:"total_apertura"`
	TotalClosing decimal.Decimal         `json:"total_cierre"`
}

func (h *ValuationHandler) window(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == nil || to == nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("rango", "los parámetros from y to son requeridos")
	}
	return *from, *to, nil
}

// Report godoc
// @Summary      Reporte de valoración de inventario por rango de fechas
// @Description  Apertura y cierre por replay del libro; cada línea valorada a precio_usd × tasa × factor_ajuste.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  valuationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/reports/valuation [get]
func (h *ValuationHandler) Report(c *fiber.Ctx) error {
	from, to, err := h.window(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.Report(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := valuationResponse{
		Start:        report.Start.Format("2006-01-02"),
		End:          report.End.Format("2006-01-02"),
		Rate:         report.Rate,
		Lines:        make([]valuationLineResponse, 0, len(report.Lines)),
		TotalOpening: report.TotalOpening,
		TotalClosing: report.TotalClosing,
	}
	for _, l := range report.Lines {
		out.Lines = append(out.Lines, valuationLineResponse{
			ProductID:    l.ProductID,
			Code:         l.Code,
			Description:  l.Description,
			PriceLocal:   l.PriceLocal,
			OpeningStock: l.OpeningStock,
			Entries:      l.Entries,
			Exits:        l.Exits,
			ClosingStock: l.ClosingStock,
			OpeningValue: l.OpeningValue,
			ClosingValue: l.ClosingValue,
		})
	}
	return c.JSON(out)
}

// ReportPDF devuelve el mismo reporte renderizado como PDF descargable.
func (h *ValuationHandler) ReportPDF(c *fiber.Ctx) error {
	from, to, err := h.window(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.Report(c.Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.pdf.Generate(report)
	if err != nil {
		return writeError(c, err)
	}
	filename := fmt.Sprintf("valoracion_%s_%s.pdf", report.Start.Format("20060102"), report.End.Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
