package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock para el tablero de reposición.
const (
	StockStatusCritical = "critical"
	StockStatusLow      = "low"
	StockStatusMedium   = "medium"
	StockStatusGood     = "good"
)

// Product representa un producto del inventario. Stock es el campo
// materializado y autoritativo: solo el libro de movimientos lo actualiza;
// mutarlo por fuera de esa operación es una violación del protocolo.
type Product struct {
	ID               string
	Code             string // formato L-XX-NN, único entre activos
	Description      string
	Stock            int             // invariante: >= 0 siempre
	PriceUSD         decimal.Decimal // precio en dólares, >= 0
	AdjustmentFactor decimal.Decimal // multiplicador de precio, > 0
	ReorderPoint     int
	ReorderQuantity  int
	SupplierID       string // vacío si no tiene proveedor
	ItemGroupID      string // vacío si no tiene categoría
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        string
	UpdatedBy        string
	DeletedAt        *time.Time // soft delete: excluido de lookups activos, historial consultable
}

// IsDeleted indica si el producto está soft-deleted.
func (p *Product) IsDeleted() bool { return p.DeletedAt != nil }

// NeedsReorder indica si el stock llegó al punto de reorden.
func (p *Product) NeedsReorder() bool { return p.Stock <= p.ReorderPoint }

// StockStatus clasifica el stock actual: critical, low, medium o good.
func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return StockStatusCritical
	case p.Stock <= p.ReorderPoint:
		return StockStatusLow
	case p.Stock <= p.ReorderPoint*2:
		return StockStatusMedium
	default:
		return StockStatusGood
	}
}
