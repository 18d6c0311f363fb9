package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// ProductHandler maneja el catálogo de productos (protegido).
type ProductHandler struct {
	uc *catalog.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type createProductRequest struct {
	Code             string          `json:"codigo"`
	Description      string          `json:"descripcion"`
	PriceUSD         decimal.Decimal `json:"precio_dolares"`
	AdjustmentFactor decimal.Decimal `json:"factor_ajuste"`
	ReorderPoint     int             `json:"reorder_point"`
	ReorderQuantity  int             `json:"reorder_quantity"`
	SupplierID       string          `json:"proveedor_id"`
	ItemGroupID      string          `json:"item_group_id"`
}

type productResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"codigo"`
	Description      string          `json:"descripcion"`
	Stock            int             `json:"stock"`
	PriceUSD         decimal.Decimal `json:"precio_dolares"`
	AdjustmentFactor decimal.Decimal `json:"factor_ajuste"`
	ReorderPoint     int             `json:"reorder_point"`
	ReorderQuantity  int             `json:"reorder_quantity"`
	SupplierID       string          `json:"proveedor_id,omitempty"`
	ItemGroupID      string          `json:"item_group_id,omitempty"`
	StockStatus      string          `json:"stock_status"`
	NeedsReorder     bool            `json:"needs_reorder"`
}

func toProductResponse(p *entity.Product) productResponse {
	return productResponse{
		ID:               p.ID,
		Code:             p.Code,
		Description:      p.Description,
		Stock:            p.Stock,
		PriceUSD:         p.PriceUSD,
		AdjustmentFactor: p.AdjustmentFactor,
		ReorderPoint:     p.ReorderPoint,
		ReorderQuantity:  p.ReorderQuantity,
		SupplierID:       p.SupplierID,
		ItemGroupID:      p.ItemGroupID,
		StockStatus:      p.StockStatus(),
		NeedsReorder:     p.NeedsReorder(),
	}
}

// Create godoc
// @Summary      Crear producto (código manual o autogenerado si viene vacío)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  productResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in createProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.CreateProduct(c.Context(), catalog.CreateProductInput{
		UserID:           GetUserID(c),
		Code:             in.Code,
		Description:      in.Description,
		PriceUSD:         in.PriceUSD,
		AdjustmentFactor: in.AdjustmentFactor,
		ReorderPoint:     in.ReorderPoint,
		ReorderQuantity:  in.ReorderQuantity,
		SupplierID:       in.SupplierID,
		ItemGroupID:      in.ItemGroupID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

type updateProductRequest struct {
	Description      *string          `json:"descripcion"`
	PriceUSD         *decimal.Decimal `json:"precio_dolares"`
	AdjustmentFactor *decimal.Decimal `json:"factor_ajuste"`
	ReorderPoint     *int             `json:"reorder_point"`
	ReorderQuantity  *int             `json:"reorder_quantity"`
	SupplierID       *string          `json:"proveedor_id"`
	ItemGroupID      *string          `json:"item_group_id"`
}

// Update actualiza campos de catálogo (parcial; el stock no se toca por aquí).
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in updateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.UpdateProduct(c.Context(), c.Params("id"), catalog.UpdateProductInput{
		UserID:           GetUserID(c),
		Description:      in.Description,
		PriceUSD:         in.PriceUSD,
		AdjustmentFactor: in.AdjustmentFactor,
		ReorderPoint:     in.ReorderPoint,
		ReorderQuantity:  in.ReorderQuantity,
		SupplierID:       in.SupplierID,
		ItemGroupID:      in.ItemGroupID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// GetByID devuelve un producto activo.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// List devuelve productos activos paginados (?page=&per_page=).
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.ListProducts(c.Context(), c.QueryInt("page"), c.QueryInt("per_page"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}

// Delete soft-deletea un producto; su historial sigue consultable.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteProduct(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
