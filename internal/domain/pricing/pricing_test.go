package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/pricing"
)

// Vector del contrato de redondeo incremental:
// 2.00 USD × 36.50 Bs/$ × factor 1.1 = 80.30 Bs exactos.
func TestPriceLocal_VectorExacto(t *testing.T) {
	got := pricing.PriceLocal(
		decimal.RequireFromString("2.00"),
		decimal.RequireFromString("36.50"),
		decimal.RequireFromString("1.1"),
	)
	assert.True(t, got.Equal(decimal.RequireFromString("80.30")),
		"esperado 80.30, obtenido %s", got)
}

func TestPriceLocal_RedondeaEnCadaFrontera(t *testing.T) {
	// 1.99 × 36.77 = 73.1723 → 73.17; 73.17 × 1.33 = 97.3161 → 97.32.
	// Sin redondeo intermedio daría 73.1723 × 1.33 = 97.319159 → 97.32 igual,
	// pero con otros operandos diverge; el vector fija la semántica.
	got := pricing.PriceLocal(
		decimal.RequireFromString("1.99"),
		decimal.RequireFromString("36.77"),
		decimal.RequireFromString("1.33"),
	)
	assert.Equal(t, "97.32", got.StringFixed(2))
}

func mov(tipo string, cantidad int) *entity.Movement {
	return &entity.Movement{Type: tipo, Quantity: cantidad}
}

func TestReplay_EntradasYSalidas(t *testing.T) {
	movs := []*entity.Movement{
		mov(entity.MovementTypeEntry, 10),
		mov(entity.MovementTypeExit, 4),
		mov(entity.MovementTypeEntry, 2),
	}
	assert.Equal(t, 8, pricing.Replay(0, movs))
	assert.Equal(t, 13, pricing.Replay(5, movs))
}

func TestReplay_AjusteReiniciaLaBase(t *testing.T) {
	movs := []*entity.Movement{
		mov(entity.MovementTypeEntry, 10),
		mov(entity.MovementTypeAdjust, 3), // fija el stock en 3, no suma
		mov(entity.MovementTypeEntry, 2),
	}
	assert.Equal(t, 5, pricing.Replay(0, movs))
	// La base previa al ajuste es irrelevante
	assert.Equal(t, 5, pricing.Replay(100, movs))
}

func TestReplay_IgnoraSoftDeleted(t *testing.T) {
	borrado := mov(entity.MovementTypeEntry, 50)
	now := borrado.CreatedAt
	borrado.DeletedAt = &now

	movs := []*entity.Movement{mov(entity.MovementTypeEntry, 10), borrado}
	assert.Equal(t, 10, pricing.Replay(0, movs))
}
