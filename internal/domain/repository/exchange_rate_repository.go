package repository

import (
	"time"

	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// ExchangeRateRepository puerto de persistencia para tasas de cambio.
type ExchangeRateRepository interface {
	// Upsert inserta la tasa del día o la reemplaza (la fecha es llave natural).
	Upsert(rate *entity.ExchangeRate) error
	GetByDate(date time.Time) (*entity.ExchangeRate, error)
	// GetLatestThrough devuelve la tasa más reciente con fecha <= date,
	// o nil si no existe ninguna.
	GetLatestThrough(date time.Time) (*entity.ExchangeRate, error)
	ListRange(from, to time.Time) ([]*entity.ExchangeRate, error)
}
