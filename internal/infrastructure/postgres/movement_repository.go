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

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, date, note,
	created_at, updated_at, created_by, updated_by, deleted_at`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// El libro es append-only: solo INSERT y soft delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia del libro.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un asiento.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, type, quantity, date, note,
			created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Date, m.Note,
		m.CreatedAt, m.UpdatedAt, m.CreatedBy, m.UpdatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("insert movement", err)
	}
	return nil
}

// GetByID obtiene un asiento por id.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	var m entity.Movement
	err := r.q.QueryRow(context.Background(),
		`SELECT `+movementColumns+` FROM movements WHERE id = $1`, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Date, &m.Note,
		&m.CreatedAt, &m.UpdatedAt, &m.CreatedBy, &m.UpdatedBy, &m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get movement", err)
	}
	return &m, nil
}

// ListByProduct lista los asientos activos de un producto, opcionalmente
// filtrados por rango de fechas, del más reciente al más antiguo.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements
		WHERE product_id = $1 AND deleted_at IS NULL
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, domain.NewDatabaseError("list movements by product", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByProductOrdered devuelve todos los asientos activos de un producto con
// fecha <= through, en orden cronológico ascendente. Es la base del replay de
// valoración.
func (r *MovementRepo) ListByProductOrdered(productID string, through time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements
		WHERE product_id = $1 AND deleted_at IS NULL AND date <= $2
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID, through)
	if err != nil {
		return nil, domain.NewDatabaseError("list movements ordered", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByDateRange lista los asientos activos de todos los productos en un
// rango de fechas, paginados.
func (r *MovementRepo) ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements
		WHERE deleted_at IS NULL AND date >= $1 AND date <= $2
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, domain.NewDatabaseError("list movements by range", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// SoftDelete marca un asiento como eliminado (queda fuera de replay y listados).
func (r *MovementRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE movements SET deleted_at = $2, updated_at = $2, updated_by = $3
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("soft delete movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("Movement", id)
	}
	return nil
}

func scanMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Date, &m.Note,
			&m.CreatedAt, &m.UpdatedAt, &m.CreatedBy, &m.UpdatedBy, &m.DeletedAt,
		); err != nil {
			return nil, domain.NewDatabaseError("scan movement", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
