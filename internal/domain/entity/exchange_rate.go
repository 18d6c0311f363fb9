package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate es la tasa de cambio USD → Bs de un día. La fecha es la llave
// natural (única); "tasa actual" = la más reciente con fecha <= hoy.
type ExchangeRate struct {
	ID        string
	Date      time.Time
	Rate      decimal.Decimal // Bs por dólar, > 0
	CreatedAt time.Time
	CreatedBy string
}
