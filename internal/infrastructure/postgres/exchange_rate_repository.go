package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo implementación del puerto ExchangeRateRepository sobre
// PostgreSQL. La fecha es llave natural (constraint único sobre date).
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador de persistencia de tasas.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

// Upsert inserta la tasa del día o reemplaza la existente.
func (r *ExchangeRateRepo) Upsert(rate *entity.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (id, date, rate, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date) DO UPDATE
		SET rate = EXCLUDED.rate, created_at = EXCLUDED.created_at, created_by = EXCLUDED.created_by`
	_, err := r.q.Exec(context.Background(), query,
		rate.ID, rate.Date, rate.Rate, rate.CreatedAt, rate.CreatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("upsert exchange rate", err)
	}
	return nil
}

// GetByDate obtiene la tasa de una fecha exacta.
func (r *ExchangeRateRepo) GetByDate(date time.Time) (*entity.ExchangeRate, error) {
	var rate entity.ExchangeRate
	err := r.q.QueryRow(context.Background(),
		`SELECT id, date, rate, created_at, created_by
		 FROM exchange_rates WHERE date = $1`, date).Scan(
		&rate.ID, &rate.Date, &rate.Rate, &rate.CreatedAt, &rate.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get exchange rate", err)
	}
	return &rate, nil
}

// GetLatestThrough devuelve la tasa más reciente con fecha <= date, o nil.
func (r *ExchangeRateRepo) GetLatestThrough(date time.Time) (*entity.ExchangeRate, error) {
	var rate entity.ExchangeRate
	err := r.q.QueryRow(context.Background(),
		`SELECT id, date, rate, created_at, created_by
		 FROM exchange_rates WHERE date <= $1
		 ORDER BY date DESC LIMIT 1`, date).Scan(
		&rate.ID, &rate.Date, &rate.Rate, &rate.CreatedAt, &rate.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get latest exchange rate", err)
	}
	return &rate, nil
}

// ListRange devuelve las tasas de un rango de fechas, ascendente.
func (r *ExchangeRateRepo) ListRange(from, to time.Time) ([]*entity.ExchangeRate, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, date, rate, created_at, created_by
		 FROM exchange_rates WHERE date >= $1 AND date <= $2
		 ORDER BY date ASC`, from, to)
	if err != nil {
		return nil, domain.NewDatabaseError("list exchange rates", err)
	}
	defer rows.Close()

	var list []*entity.ExchangeRate
	for rows.Next() {
		var rate entity.ExchangeRate
		if err := rows.Scan(&rate.ID, &rate.Date, &rate.Rate, &rate.CreatedAt, &rate.CreatedBy); err != nil {
			return nil, domain.NewDatabaseError("scan exchange rate", err)
		}
		list = append(list, &rate)
	}
	return list, rows.Err()
}
