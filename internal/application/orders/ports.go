package orders

import (
	"context"

	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios de órdenes e inventario
// atados a una misma transacción. La confirmación y la cancelación dependen
// de esta atomicidad para la garantía todo-o-nada sobre múltiples productos.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.SalesOrderRepository,
	) error) error
}
