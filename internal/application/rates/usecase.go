// Package rates administra la tasa de cambio USD → Bs usada por el pricing.
package rates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// ExchangeRateUseCase registra y consulta tasas de cambio. No hay tasa por
// defecto: si nunca se cargó una tasa, toda conversión de precios falla con
// un error explícito en vez de asumir 1:1.
type ExchangeRateUseCase struct {
	rateRepo repository.ExchangeRateRepository
	auditor  *audit.Recorder
	log      *logger.Logger
}

// NewExchangeRateUseCase construye el caso de uso.
func NewExchangeRateUseCase(rateRepo repository.ExchangeRateRepository, auditor *audit.Recorder, log *logger.Logger) *ExchangeRateUseCase {
	return &ExchangeRateUseCase{rateRepo: rateRepo, auditor: auditor, log: log}
}

// SetRate registra la tasa de un día. La fecha es llave natural: cargar dos
// veces el mismo día reemplaza la tasa anterior.
func (uc *ExchangeRateUseCase) SetRate(ctx context.Context, userID string, date time.Time, rate decimal.Decimal) (*entity.ExchangeRate, error) {
	if !rate.IsPositive() {
		return nil, domain.NewValidationError("tasa", "la tasa de cambio debe ser mayor que cero")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	day := date.UTC().Truncate(24 * time.Hour)

	previous, err := uc.rateRepo.GetByDate(day)
	if err != nil {
		return nil, err
	}

	entry := &entity.ExchangeRate{
		ID:        uuid.New().String(),
		Date:      day,
		Rate:      rate,
		CreatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}
	if err := uc.rateRepo.Upsert(entry); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("fecha", day.Format("2006-01-02")).
		Str("tasa", rate.String()).
		Msg("tasa de cambio registrada")
	uc.auditor.Record(userID, audit.ActionUpdate, "ExchangeRate", entry.ID, previous, entry)
	return entry, nil
}

// CurrentRate devuelve la tasa vigente: la más reciente con fecha <= hoy.
// Sin tasa cargada el sistema no inventa una; devuelve error.
func (uc *ExchangeRateUseCase) CurrentRate(ctx context.Context) (*entity.ExchangeRate, error) {
	rate, err := uc.rateRepo.GetLatestThrough(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.NewBusinessLogicError(domain.ErrNoExchangeRate, "no hay tasa de cambio registrada")
	}
	return rate, nil
}

// RateForDate devuelve la tasa vigente a una fecha dada (la más reciente con
// fecha <= date).
func (uc *ExchangeRateUseCase) RateForDate(ctx context.Context, date time.Time) (*entity.ExchangeRate, error) {
	rate, err := uc.rateRepo.GetLatestThrough(date.UTC())
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.NewBusinessLogicError(domain.ErrNoExchangeRate,
			"no hay tasa de cambio registrada al %s", date.Format("2006-01-02"))
	}
	return rate, nil
}

// History devuelve las tasas registradas en un rango de fechas.
func (uc *ExchangeRateUseCase) History(ctx context.Context, from, to time.Time) ([]*entity.ExchangeRate, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("rango", "la fecha final no puede ser anterior a la inicial")
	}
	return uc.rateRepo.ListRange(from.UTC(), to.UTC())
}
