package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/internal/domain/validation"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// RegisterMovementUseCase registra movimientos de inventario (ENTRADA,
// SALIDA, AJUSTE) de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) sobre el producto afectado. Es el único camino legal
// para mutar el stock materializado de un producto.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	auditor      *audit.Recorder
	log          *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	auditor *audit.Recorder,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		auditor:      auditor,
		log:          log,
	}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	UserID    string
	ProductID string
	Type      string // entrada/salida/ajuste, cualquier capitalización
	Quantity  int
	Date      time.Time // cero = hoy
	Note      string
}

// RegisterMovement valida la entrada, abre una transacción, bloquea la fila
// del producto, calcula el nuevo stock según el tipo y persiste el asiento y
// el stock materializado como una sola unidad atómica. Devuelve el movimiento
// creado y el stock resultante.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, int, error) {
	tipo, err := validation.NormalizeMovementType(input.Type)
	if err != nil {
		return nil, 0, err
	}
	if err := validation.ValidateQuantity(input.Quantity); err != nil {
		return nil, 0, err
	}
	if input.ProductID == "" {
		return nil, 0, domain.NewValidationError("producto_id", "el ID del producto es requerido")
	}

	now := time.Now().UTC()
	fecha := input.Date
	if fecha.IsZero() {
		fecha = now
	}

	var (
		created  *entity.Movement
		newStock int
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.IsDeleted() {
			return domain.NewNotFoundError("Product", input.ProductID)
		}
		created, newStock, err = applyLocked(movRepo, productRepo, product, tipo, input.Quantity, fecha, input.Note, input.UserID, now)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	uc.log.Info().
		Str("producto_id", input.ProductID).
		Str("tipo", tipo).
		Int("cantidad", input.Quantity).
		Int("nuevo_stock", newStock).
		Msg("movimiento registrado")
	uc.auditor.Record(input.UserID, audit.ActionCreate, "Movement", created.ID, nil, created)

	return created, newStock, nil
}

// applyLocked aplica un movimiento sobre un producto cuya fila ya está
// bloqueada en la transacción actual: calcula el nuevo stock, persiste el
// asiento y actualiza el stock materializado. El motor de órdenes reutiliza
// este mismo camino para reservar y liberar inventario.
func applyLocked(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	tipo string,
	cantidad int,
	fecha time.Time,
	note, userID string,
	now time.Time,
) (*entity.Movement, int, error) {
	var newStock int
	switch tipo {
	case entity.MovementTypeEntry:
		newStock = product.Stock + cantidad
	case entity.MovementTypeExit:
		// Chequeo estricto de suficiencia: sin mutación parcial.
		if product.Stock < cantidad {
			return nil, 0, domain.NewBusinessLogicError(domain.ErrInsufficientStock,
				"stock insuficiente para %s: stock actual %d, cantidad solicitada %d",
				product.Code, product.Stock, cantidad)
		}
		newStock = product.Stock - cantidad
	case entity.MovementTypeAdjust:
		// AJUSTE fija el stock en la cantidad (valor absoluto, no delta).
		newStock = cantidad
	default:
		return nil, 0, domain.NewValidationError("tipo", "tipo de movimiento inválido: "+tipo)
	}

	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      tipo,
		Quantity:  cantidad,
		Date:      fecha,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, 0, err
	}
	if err := productRepo.UpdateStock(product.ID, newStock, userID, now); err != nil {
		return nil, 0, err
	}
	product.Stock = newStock
	return mov, newStock, nil
}

// RegisterExitInTx ejecuta una SALIDA usando los repositorios de la
// transacción del caller, sobre un producto ya bloqueado con FOR UPDATE.
// Lo usa el motor de órdenes para reservar inventario al confirmar;
// transactionNote suele referenciar el número de orden.
func (uc *RegisterMovementUseCase) RegisterExitInTx(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	cantidad int,
	transactionNote, userID string,
	now time.Time,
) (*entity.Movement, error) {
	mov, _, err := applyLocked(movRepo, productRepo, product, entity.MovementTypeExit, cantidad, now, transactionNote, userID, now)
	return mov, err
}

// RegisterEntryInTx ejecuta una ENTRADA en la transacción del caller sobre un
// producto bloqueado. Lo usa el motor de órdenes para devolver la reserva al
// cancelar una orden confirmada.
func (uc *RegisterMovementUseCase) RegisterEntryInTx(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	cantidad int,
	transactionNote, userID string,
	now time.Time,
) (*entity.Movement, error) {
	mov, _, err := applyLocked(movRepo, productRepo, product, entity.MovementTypeEntry, cantidad, now, transactionNote, userID, now)
	return mov, err
}

// History devuelve el historial de movimientos de un producto, opcionalmente
// filtrado por rango de fechas y paginado. El producto debe existir, pero el
// historial de un producto soft-deleted sigue siendo consultable.
func (uc *RegisterMovementUseCase) History(ctx context.Context, productID string, from, to *time.Time, page, perPage int) ([]*entity.Movement, error) {
	page, perPage, err := validation.ValidatePagination(page, perPage)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil {
		if err := validation.ValidateDateRange(*from, *to); err != nil {
			return nil, err
		}
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("Product", productID)
	}
	return uc.movementRepo.ListByProduct(productID, from, to, perPage, (page-1)*perPage)
}

// ListByDateRange devuelve los movimientos de todos los productos en un rango
// de fechas, paginados.
func (uc *RegisterMovementUseCase) ListByDateRange(ctx context.Context, from, to time.Time, page, perPage int) ([]*entity.Movement, error) {
	if err := validation.ValidateDateRange(from, to); err != nil {
		return nil, err
	}
	page, perPage, err := validation.ValidatePagination(page, perPage)
	if err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByDateRange(from, to, perPage, (page-1)*perPage)
}
