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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, rif, phone, email, address,
	created_at, updated_at, created_by, updated_by, deleted_at`

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, rif, phone, email, address,
			created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.RIF, c.Phone, c.Email, c.Address,
		c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewBusinessLogicError(domain.ErrDuplicate,
				"ya existe un cliente con RIF %s", c.RIF)
		}
		return domain.NewDatabaseError("insert customer", err)
	}
	return nil
}

// GetByID obtiene un cliente por id (incluye soft-deleted).
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(context.Background(),
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.RIF, &c.Phone, &c.Email, &c.Address,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get customer", err)
	}
	return &c, nil
}

// GetByRIF obtiene el cliente activo con el RIF dado.
func (r *CustomerRepo) GetByRIF(rif string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(context.Background(),
		`SELECT `+customerColumns+` FROM customers WHERE rif = $1 AND deleted_at IS NULL`, rif).Scan(
		&c.ID, &c.Name, &c.RIF, &c.Phone, &c.Email, &c.Address,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get customer by rif", err)
	}
	return &c, nil
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, rif = $3, phone = $4, email = $5,
			address = $6, updated_at = $7, updated_by = $8
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.RIF, c.Phone, c.Email, c.Address, c.UpdatedAt, c.UpdatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update customer", err)
	}
	return nil
}

// SoftDelete marca el cliente como eliminado.
func (r *CustomerRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE customers SET deleted_at = $2, updated_at = $2, updated_by = $3
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("soft delete customer", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("Customer", id)
	}
	return nil
}

// ListActive lista clientes activos paginados, por nombre.
func (r *CustomerRepo) ListActive(limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+customerColumns+` FROM customers
		 WHERE deleted_at IS NULL ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.NewDatabaseError("list customers", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.RIF, &c.Phone, &c.Email, &c.Address,
			&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy, &c.DeletedAt,
		); err != nil {
			return nil, domain.NewDatabaseError("scan customer", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
