// Package pricing contiene la composición de precios USD → Bs y el replay de
// movimientos sobre el que se apoyan los reportes de valoración.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// PriceLocal compone el precio local de venta:
// precio_bs = precio_usd × tasa × factor_ajuste, redondeando a 2 decimales en
// cada frontera de multiplicación (el redondeo incremental es parte del
// contrato: 2.00 × 36.50 × 1.1 = 80.30).
func PriceLocal(priceUSD, rate, adjustmentFactor decimal.Decimal) decimal.Decimal {
	converted := priceUSD.Mul(rate).Round(2)
	return converted.Mul(adjustmentFactor).Round(2)
}

// Replay aplica movimientos en orden cronológico sobre un stock base:
// ENTRADA suma, SALIDA resta y AJUSTE fija el acumulado en su cantidad
// (reinicia la línea base en vez de sumar). Movimientos soft-deleted se
// ignoran.
func Replay(baseline int, movements []*entity.Movement) int {
	stock := baseline
	for _, m := range movements {
		if m.IsDeleted() {
			continue
		}
		switch m.Type {
		case entity.MovementTypeEntry:
			stock += m.Quantity
		case entity.MovementTypeExit:
			stock -= m.Quantity
		case entity.MovementTypeAdjust:
			stock = m.Quantity
		}
	}
	return stock
}
