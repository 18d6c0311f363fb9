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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, description, stock, price_usd, adjustment_factor,
	reorder_point, reorder_quantity, supplier_id, item_group_id,
	created_at, updated_at, created_by, updated_by, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.Stock, &p.PriceUSD, &p.AdjustmentFactor,
		&p.ReorderPoint, &p.ReorderQuantity, &p.SupplierID, &p.ItemGroupID,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, code, description, stock, price_usd, adjustment_factor,
			reorder_point, reorder_quantity, supplier_id, item_group_id,
			created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, product.Description, product.Stock,
		product.PriceUSD, product.AdjustmentFactor,
		product.ReorderPoint, product.ReorderQuantity,
		product.SupplierID, product.ItemGroupID,
		product.CreatedAt, product.UpdatedAt, product.CreatedBy, product.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewBusinessLogicError(domain.ErrDuplicate,
				"ya existe un producto con el código %s", product.Code)
		}
		return domain.NewDatabaseError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por id (incluye soft-deleted; el caso de uso
// decide qué hacer con ellos).
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get product", err)
	}
	return p, nil
}

// GetByCode obtiene el producto activo con el código dado.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE code = $1 AND deleted_at IS NULL`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("get product by code", err)
	}
	return p, nil
}

// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE). Solo tiene
// sentido dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewDatabaseError("lock product", err)
	}
	return p, nil
}

// Update actualiza los campos de catálogo. El stock no se toca por esta vía:
// eso es exclusivo de UpdateStock.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET description = $2, price_usd = $3, adjustment_factor = $4,
			reorder_point = $5, reorder_quantity = $6, supplier_id = $7, item_group_id = $8,
			updated_at = $9, updated_by = $10
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Description, product.PriceUSD, product.AdjustmentFactor,
		product.ReorderPoint, product.ReorderQuantity, product.SupplierID, product.ItemGroupID,
		product.UpdatedAt, product.UpdatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update product", err)
	}
	return nil
}

// UpdateStock fija el stock materializado (solo el libro de movimientos lo invoca).
func (r *ProductRepo) UpdateStock(id string, stock int, updatedBy string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = $3, updated_by = $4 WHERE id = $1`,
		id, stock, updatedAt, updatedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("update stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("Product", id)
	}
	return nil
}

// SoftDelete marca el producto como eliminado.
func (r *ProductRepo) SoftDelete(id, deletedBy string, deletedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = $2, updated_at = $2, updated_by = $3
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, deletedAt, deletedBy,
	)
	if err != nil {
		return domain.NewDatabaseError("soft delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("Product", id)
	}
	return nil
}

// ListActiveCodesByPrefix devuelve los códigos activos con el prefijo dado,
// para el secuencial del generador de códigos.
func (r *ProductRepo) ListActiveCodesByPrefix(prefix string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT code FROM products WHERE code LIKE $1 || '%' AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, domain.NewDatabaseError("list codes by prefix", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, domain.NewDatabaseError("scan code", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// ListActive lista productos activos con paginación, ordenados por código.
func (r *ProductRepo) ListActive(limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+productColumns+` FROM products
		 WHERE deleted_at IS NULL ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, domain.NewDatabaseError("list products", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Description, &p.Stock, &p.PriceUSD, &p.AdjustmentFactor,
			&p.ReorderPoint, &p.ReorderQuantity, &p.SupplierID, &p.ItemGroupID,
			&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy, &p.DeletedAt,
		); err != nil {
			return nil, domain.NewDatabaseError("scan product", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountActiveByItemGroup cuenta los productos activos de una categoría (solo
// el nodo, sin descendientes; la recursión vive en el caso de uso).
func (r *ProductRepo) CountActiveByItemGroup(itemGroupID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products WHERE item_group_id = $1 AND deleted_at IS NULL`,
		itemGroupID).Scan(&count)
	if err != nil {
		return 0, domain.NewDatabaseError("count products by item group", err)
	}
	return count, nil
}
