package rates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/application/rates"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

type fakeRateRepo struct {
	byDate map[string]*entity.ExchangeRate
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{byDate: make(map[string]*entity.ExchangeRate)}
}

func (r *fakeRateRepo) Upsert(rate *entity.ExchangeRate) error {
	r.byDate[rate.Date.Format("2006-01-02")] = rate
	return nil
}

func (r *fakeRateRepo) GetByDate(date time.Time) (*entity.ExchangeRate, error) {
	return r.byDate[date.Format("2006-01-02")], nil
}

func (r *fakeRateRepo) GetLatestThrough(date time.Time) (*entity.ExchangeRate, error) {
	var best *entity.ExchangeRate
	for _, rate := range r.byDate {
		if rate.Date.After(date) {
			continue
		}
		if best == nil || rate.Date.After(best.Date) {
			best = rate
		}
	}
	return best, nil
}

func (r *fakeRateRepo) ListRange(from, to time.Time) ([]*entity.ExchangeRate, error) {
	var out []*entity.ExchangeRate
	for _, rate := range r.byDate {
		if !rate.Date.Before(from) && !rate.Date.After(to) {
			out = append(out, rate)
		}
	}
	return out, nil
}

type fakeAuditRepo struct{}

func (r *fakeAuditRepo) Create(log *entity.AuditLog) error { return nil }

func newUseCase() (*rates.ExchangeRateUseCase, *fakeRateRepo) {
	repo := newFakeRateRepo()
	auditor := audit.NewRecorder(&fakeAuditRepo{}, logger.Nop())
	return rates.NewExchangeRateUseCase(repo, auditor, logger.Nop()), repo
}

func TestSetRate_RechazaNoPositiva(t *testing.T) {
	uc, _ := newUseCase()

	for _, v := range []float64{0, -36.50} {
		_, err := uc.SetRate(context.Background(), "u1", time.Now(), decimal.NewFromFloat(v))
		require.Error(t, err, "tasa %v", v)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestSetRate_MismoDiaReemplaza(t *testing.T) {
	uc, repo := newUseCase()
	day := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	_, err := uc.SetRate(context.Background(), "u1", day, decimal.NewFromFloat(36.50))
	require.NoError(t, err)
	_, err = uc.SetRate(context.Background(), "u1", day, decimal.NewFromFloat(37.00))
	require.NoError(t, err)

	stored, err := repo.GetByDate(day.Truncate(24 * time.Hour))
	require.NoError(t, err)
	assert.True(t, stored.Rate.Equal(decimal.NewFromFloat(37.00)), "la fecha es llave natural: el segundo valor reemplaza")
}

func TestCurrentRate_SinTasaFallaDuro(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.CurrentRate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoExchangeRate), "sin tasa no hay fallback 1:1")
	assert.Equal(t, domain.CodeBusinessLogic, domain.ErrorCode(err))
}

func TestRateForDate_TomaLaMasRecienteAnterior(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.SetRate(context.Background(), "u1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromFloat(36.00))
	require.NoError(t, err)
	_, err = uc.SetRate(context.Background(), "u1", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), decimal.NewFromFloat(36.80))
	require.NoError(t, err)

	// Al 7 de marzo rige la del 5; la del 1 quedó superada.
	rate, err := uc.RateForDate(context.Background(), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, rate.Rate.Equal(decimal.NewFromFloat(36.80)))

	// Al 2 de marzo todavía rige la del 1.
	rate, err = uc.RateForDate(context.Background(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, rate.Rate.Equal(decimal.NewFromFloat(36.00)))
}
