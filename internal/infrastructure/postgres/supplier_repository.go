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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, rif, phone, email, address,
	created_at, updated_at, created_by, updated_by, deleted_at`

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, rif, phone, email, address,
			created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.RIF, s.Phone, s.Email, s.Address,
		s.CreatedAt, s.UpdatedAt, s.CreatedBy, s.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewBusinessLogicError(domain.ErrDuplicate,
				"ya existe un proveedor con RIF %s", s.RIF)
		}
		return domain.NewDatabaseError("insert supplier", err)
	}
	return nil
}

// GetByID obtiene un proveedor por id (incluye soft-deleted).
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(),
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id).Scan(
		&s.ID, &s.Name, &s.RIF, &s.Phone, &s.Email, &s.Address,
		&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy, &s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get supplier", err)
	}
	return &s, nil
}

// GetByRIF obtiene el proveedor activo con el RIF dado.
func (r *SupplierRepo) GetByRIF(rif string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(),
		`SELECT `+supplierColumns+` FROM suppliers WHERE rif = $1 AND deleted_at IS NULL`, rif).Scan(
		&s.ID, &s.Name, &s.RIF, &s.Phone, &s.Email, &s.Address,
		&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy, &s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get supplier by rif", err)
	}
	return &s, nil
}

// Update actualiza un proveedor.
func (r *SupplierRepo) Update(s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, rif = $3, phone = $4, email = $5,
			address = $6, updated_at = $7, updated_by = $8
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.RIF, s.Phone, s.Email, s.Address, s.UpdatedAt, s.UpdatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update supplier", err)
	}
	return nil
}

// SoftDelete marca el proveedor como eliminado.
func (r *SupplierRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE suppliers SET deleted_at = $2, updated_at = $2, updated_by = $3
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("soft delete supplier", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("Supplier", id)
	}
	return nil
}

// ListActive lista proveedores activos paginados, por nombre.
func (r *SupplierRepo) ListActive(limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+supplierColumns+` FROM suppliers
		 WHERE deleted_at IS NULL ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.NewDatabaseError("list suppliers", err)
	}
	defer rows.Close()

	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(
			&s.ID, &s.Name, &s.RIF, &s.Phone, &s.Email, &s.Address,
			&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy, &s.DeletedAt,
		); err != nil {
			return nil, domain.NewDatabaseError("scan supplier", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
