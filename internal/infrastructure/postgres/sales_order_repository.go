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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

const orderColumns = `id, order_number, order_date, expected_delivery_date, customer_id,
	status, subtotal, tax_amount, discount_amount, shipping_cost, total_amount,
	payment_status, paid_amount, shipping_address, shipping_method, notes, internal_notes,
	created_at, updated_at, created_by, updated_by, deleted_at`

// SalesOrderRepo implementación del puerto SalesOrderRepository sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador de persistencia para órdenes.
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste la orden y sus líneas.
func (r *SalesOrderRepo) Create(o *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, order_number, order_date, expected_delivery_date, customer_id,
			status, subtotal, tax_amount, discount_amount, shipping_cost, total_amount,
			payment_status, paid_amount, shipping_address, shipping_method, notes, internal_notes,
			created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.OrderNumber, o.OrderDate, o.ExpectedDeliveryDate, o.CustomerID,
		o.Status, o.Subtotal, o.TaxAmount, o.DiscountAmount, o.ShippingCost, o.TotalAmount,
		o.PaymentStatus, o.PaidAmount, o.ShippingAddress, o.ShippingMethod, o.Notes, o.InternalNotes,
		o.CreatedAt, o.UpdatedAt, o.CreatedBy, o.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewBusinessLogicError(domain.ErrDuplicate,
				"ya existe una orden con el número %s", o.OrderNumber)
		}
		return domain.NewDatabaseError("insert sales order", err)
	}
	for _, item := range o.Items {
		if err := r.insertItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (r *SalesOrderRepo) insertItem(item *entity.SalesOrderItem) error {
	query := `
		INSERT INTO sales_order_items (id, sales_order_id, product_id, quantity,
			unit_price, discount_percent, tax_percent, total_price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SalesOrderID, item.ProductID, item.Quantity,
		item.UnitPrice, item.DiscountPercent, item.TaxPercent, item.TotalPrice, item.Notes,
	)
	if err != nil {
		return domain.NewDatabaseError("insert sales order item", err)
	}
	return nil
}

// GetByID devuelve la orden con sus líneas cargadas.
func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) y la devuelve
// con sus líneas.
func (r *SalesOrderRepo) GetForUpdate(id string) (*entity.SalesOrder, error) {
	return r.get(id, true)
}

func (r *SalesOrderRepo) get(id string, forUpdate bool) (*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var o entity.SalesOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.OrderNumber, &o.OrderDate, &o.ExpectedDeliveryDate, &o.CustomerID,
		&o.Status, &o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.ShippingCost, &o.TotalAmount,
		&o.PaymentStatus, &o.PaidAmount, &o.ShippingAddress, &o.ShippingMethod, &o.Notes, &o.InternalNotes,
		&o.CreatedAt, &o.UpdatedAt, &o.CreatedBy, &o.UpdatedBy, &o.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get sales order", err)
	}
	if err := r.loadItems(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SalesOrderRepo) loadItems(o *entity.SalesOrder) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sales_order_id, product_id, quantity, unit_price,
			discount_percent, tax_percent, total_price, notes
		 FROM sales_order_items WHERE sales_order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return domain.NewDatabaseError("list sales order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.SalesOrderItem
		if err := rows.Scan(
			&item.ID, &item.SalesOrderID, &item.ProductID, &item.Quantity, &item.UnitPrice,
			&item.DiscountPercent, &item.TaxPercent, &item.TotalPrice, &item.Notes,
		); err != nil {
			return domain.NewDatabaseError("scan sales order item", err)
		}
		o.Items = append(o.Items, &item)
	}
	return rows.Err()
}

// Update actualiza la cabecera de la orden (las líneas son inmutables tras crear).
func (r *SalesOrderRepo) Update(o *entity.SalesOrder) error {
	query := `
		UPDATE sales_orders SET expected_delivery_date = $2, status = $3,
			payment_status = $4, paid_amount = $5, shipping_address = $6,
			shipping_method = $7, notes = $8, internal_notes = $9,
			updated_at = $10, updated_by = $11
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.ExpectedDeliveryDate, o.Status,
		o.PaymentStatus, o.PaidAmount, o.ShippingAddress,
		o.ShippingMethod, o.Notes, o.InternalNotes,
		o.UpdatedAt, o.UpdatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update sales order", err)
	}
	return nil
}

// UpdateStatus fija el estado de la orden.
func (r *SalesOrderRepo) UpdateStatus(id, status, updatedBy string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET status = $2, updated_at = $3, updated_by = $4
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, status, updatedAt, updatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update sales order status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("SalesOrder", id)
	}
	return nil
}

// SoftDelete marca la orden como eliminada.
func (r *SalesOrderRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET deleted_at = $2, updated_at = $2, updated_by = $3
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("soft delete sales order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("SalesOrder", id)
	}
	return nil
}

// LastOrderNumberWithPrefix devuelve el mayor order_number con el prefijo
// dado ("" si no hay ninguno), para el secuencial diario.
func (r *SalesOrderRepo) LastOrderNumberWithPrefix(prefix string) (string, error) {
	var last string
	err := r.q.QueryRow(context.Background(),
		`SELECT order_number FROM sales_orders
		 WHERE order_number LIKE $1 || '%'
		 ORDER BY order_number DESC LIMIT 1`, prefix).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", domain.NewDatabaseError("last order number", err)
	}
	return last, nil
}

// ListByCustomer lista las órdenes activas de un cliente, de la más reciente
// a la más antigua, con sus líneas.
func (r *SalesOrderRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.SalesOrder, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+orderColumns+` FROM sales_orders
		 WHERE customer_id = $1 AND deleted_at IS NULL
		 ORDER BY order_number DESC LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, domain.NewDatabaseError("list sales orders", err)
	}
	defer rows.Close()

	var list []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.OrderDate, &o.ExpectedDeliveryDate, &o.CustomerID,
			&o.Status, &o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.ShippingCost, &o.TotalAmount,
			&o.PaymentStatus, &o.PaidAmount, &o.ShippingAddress, &o.ShippingMethod, &o.Notes, &o.InternalNotes,
			&o.CreatedAt, &o.UpdatedAt, &o.CreatedBy, &o.UpdatedBy, &o.DeletedAt,
		); err != nil {
			return nil, domain.NewDatabaseError("scan sales order", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadItems(o); err != nil {
			return nil, err
		}
	}
	return list, nil
}
