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

var _ repository.ItemGroupRepository = (*ItemGroupRepo)(nil)

const itemGroupColumns = `id, name, description, parent_id, color, icon,
	created_at, updated_at, created_by, updated_by, deleted_at`

// ItemGroupRepo implementación del puerto ItemGroupRepository sobre PostgreSQL.
type ItemGroupRepo struct {
	q Querier
}

// NewItemGroupRepository construye el adaptador de persistencia para categorías.
func NewItemGroupRepository(q Querier) *ItemGroupRepo {
	return &ItemGroupRepo{q: q}
}

func scanItemGroup(row pgx.Row) (*entity.ItemGroup, error) {
	var g entity.ItemGroup
	err := row.Scan(
		&g.ID, &g.Name, &g.Description, &g.ParentID, &g.Color, &g.Icon,
		&g.CreatedAt, &g.UpdatedAt, &g.CreatedBy, &g.UpdatedBy, &g.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create persiste una categoría.
func (r *ItemGroupRepo) Create(g *entity.ItemGroup) error {
	query := `
		INSERT INTO item_groups (id, name, description, parent_id, color, icon,
			created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		g.ID, g.Name, g.Description, g.ParentID, g.Color, g.Icon,
		g.CreatedAt, g.UpdatedAt, g.CreatedBy, g.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewBusinessLogicError(domain.ErrDuplicate,
				"ya existe una categoría llamada '%s'", g.Name)
		}
		return domain.NewDatabaseError("insert item group", err)
	}
	return nil
}

// GetByID obtiene una categoría por id (incluye soft-deleted).
func (r *ItemGroupRepo) GetByID(id string) (*entity.ItemGroup, error) {
	g, err := scanItemGroup(r.q.QueryRow(context.Background(),
		`SELECT `+itemGroupColumns+` FROM item_groups WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get item group", err)
	}
	return g, nil
}

// GetByName obtiene la categoría activa con el nombre dado.
func (r *ItemGroupRepo) GetByName(name string) (*entity.ItemGroup, error) {
	g, err := scanItemGroup(r.q.QueryRow(context.Background(),
		`SELECT `+itemGroupColumns+` FROM item_groups WHERE name = $1 AND deleted_at IS NULL`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get item group by name", err)
	}
	return g, nil
}

// Update actualiza una categoría.
func (r *ItemGroupRepo) Update(g *entity.ItemGroup) error {
	query := `
		UPDATE item_groups SET name = $2, description = $3, parent_id = $4,
			color = $5, icon = $6, updated_at = $7, updated_by = $8
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		g.ID, g.Name, g.Description, g.ParentID, g.Color, g.Icon, g.UpdatedAt, g.UpdatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update item group", err)
	}
	return nil
}

// SoftDelete marca la categoría como eliminada.
func (r *ItemGroupRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE item_groups SET deleted_at = $2, updated_at = $2, updated_by = $3
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("soft delete item group", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("ItemGroup", id)
	}
	return nil
}

// ListChildren devuelve los hijos activos directos de un nodo.
func (r *ItemGroupRepo) ListChildren(parentID string) ([]*entity.ItemGroup, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+itemGroupColumns+` FROM item_groups
		 WHERE parent_id = $1 AND deleted_at IS NULL ORDER BY name`, parentID)
	if err != nil {
		return nil, domain.NewDatabaseError("list item group children", err)
	}
	defer rows.Close()
	return scanItemGroups(rows)
}

// ListActive devuelve todas las categorías activas.
func (r *ItemGroupRepo) ListActive() ([]*entity.ItemGroup, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+itemGroupColumns+` FROM item_groups WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, domain.NewDatabaseError("list item groups", err)
	}
	defer rows.Close()
	return scanItemGroups(rows)
}

func scanItemGroups(rows pgx.Rows) ([]*entity.ItemGroup, error) {
	var list []*entity.ItemGroup
	for rows.Next() {
		var g entity.ItemGroup
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.ParentID, &g.Color, &g.Icon,
			&g.CreatedAt, &g.UpdatedAt, &g.CreatedBy, &g.UpdatedBy, &g.DeletedAt,
		); err != nil {
			return nil, domain.NewDatabaseError("scan item group", err)
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}
