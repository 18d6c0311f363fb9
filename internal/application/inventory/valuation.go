package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/pricing"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/internal/domain/validation"
)

// tamaño de página interno al recorrer el catálogo para el reporte.
const valuationBatchSize = 200

// ValuationLine resume un producto en la ventana del reporte. Las cantidades
// salen del replay del libro (nunca del stock materializado, que solo vale
// para el presente); los montos se valoran al precio local del producto.
type ValuationLine struct {
	ProductID    string
	Code         string
	Description  string
	PriceLocal   decimal.Decimal
	OpeningStock int
	Entries      int
	Exits        int
	ClosingStock int
	OpeningValue decimal.Decimal
	ClosingValue decimal.Decimal
}

// ValuationReport es el reporte de valoración de inventario de una ventana.
type ValuationReport struct {
	Start        time.Time
	End          time.Time
	Rate         decimal.Decimal
	Lines        []ValuationLine
	TotalOpening decimal.Decimal
	TotalClosing decimal.Decimal
}

// ValuationUseCase arma reportes de valoración por rango de fechas.
type ValuationUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	rateRepo     repository.ExchangeRateRepository
}

// NewValuationUseCase construye el caso de uso.
func NewValuationUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	rateRepo repository.ExchangeRateRepository,
) *ValuationUseCase {
	return &ValuationUseCase{productRepo: productRepo, movementRepo: movementRepo, rateRepo: rateRepo}
}

// Report calcula, por producto activo: stock de apertura (replay de los
// movimientos estrictamente anteriores a la ventana), entradas y salidas del
// período, y stock de cierre (replay continuado dentro de la ventana, donde
// un AJUSTE también reinicia la base). Cada línea se valora a
// precio_usd × tasa × factor_ajuste.
func (uc *ValuationUseCase) Report(ctx context.Context, start, end time.Time) (*ValuationReport, error) {
	if err := validation.ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	rate, err := uc.rateRepo.GetLatestThrough(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.NewBusinessLogicError(domain.ErrNoExchangeRate,
			"no hay tasa de cambio registrada: registre la tasa del día antes de valorar")
	}

	report := &ValuationReport{
		Start:        start,
		End:          end,
		Rate:         rate.Rate,
		TotalOpening: decimal.Zero,
		TotalClosing: decimal.Zero,
	}

	for offset := 0; ; offset += valuationBatchSize {
		products, err := uc.productRepo.ListActive(valuationBatchSize, offset)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			break
		}
		for _, p := range products {
			line, err := uc.buildLine(p, start, end, rate.Rate)
			if err != nil {
				return nil, err
			}
			report.Lines = append(report.Lines, line)
			report.TotalOpening = report.TotalOpening.Add(line.OpeningValue)
			report.TotalClosing = report.TotalClosing.Add(line.ClosingValue)
		}
		if len(products) < valuationBatchSize {
			break
		}
	}
	return report, nil
}

func (uc *ValuationUseCase) buildLine(p *entity.Product, start, end time.Time, rate decimal.Decimal) (ValuationLine, error) {
	movements, err := uc.movementRepo.ListByProductOrdered(p.ID, end)
	if err != nil {
		return ValuationLine{}, err
	}

	var before, window []*entity.Movement
	for _, m := range movements {
		if m.Date.Before(start) {
			before = append(before, m)
		} else {
			window = append(window, m)
		}
	}

	opening := pricing.Replay(0, before)
	closing := pricing.Replay(opening, window)

	var entries, exits int
	for _, m := range window {
		switch m.Type {
		case entity.MovementTypeEntry:
			entries += m.Quantity
		case entity.MovementTypeExit:
			exits += m.Quantity
		}
	}

	priceLocal := pricing.PriceLocal(p.PriceUSD, rate, p.AdjustmentFactor)
	return ValuationLine{
		ProductID:    p.ID,
		Code:         p.Code,
		Description:  p.Description,
		PriceLocal:   priceLocal,
		OpeningStock: opening,
		Entries:      entries,
		Exits:        exits,
		ClosingStock: closing,
		OpeningValue: priceLocal.Mul(decimal.NewFromInt(int64(opening))).Round(2),
		ClosingValue: priceLocal.Mul(decimal.NewFromInt(int64(closing))).Round(2),
	}, nil
}
