package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

// ItemGroupHandler maneja el árbol de categorías (protegido).
type ItemGroupHandler struct {
	uc *catalog.ItemGroupUseCase
}

// NewItemGroupHandler construye el handler.
func NewItemGroupHandler(uc *catalog.ItemGroupUseCase) *ItemGroupHandler {
	return &ItemGroupHandler{uc: uc}
}

type itemGroupResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func toItemGroupResponse(g *entity.ItemGroup) itemGroupResponse {
	return itemGroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		ParentID:    g.ParentID,
		Color:       g.Color,
		Icon:        g.Icon,
	}
}

type createItemGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Create crea una categoría (nombre único entre activas).
func (h *ItemGroupHandler) Create(c *fiber.Ctx) error {
	var in createItemGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	group, err := h.uc.CreateItemGroup(c.Context(), catalog.CreateItemGroupInput{
		UserID:      GetUserID(c),
		Name:        in.Name,
		Description: in.Description,
		ParentID:    in.ParentID,
		Color:       in.Color,
		Icon:        in.Icon,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemGroupResponse(group))
}

type reparentRequest struct {
	ParentID string `json:"parent_id"` // vacío = mover a raíz
}

// Reparent cuelga la categoría de otro padre; rechaza ciclos.
func (h *ItemGroupHandler) Reparent(c *fiber.Ctx) error {
	var in reparentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	group, err := h.uc.Reparent(c.Context(), c.Params("id"), in.ParentID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toItemGroupResponse(group))
}

// ProductCount cuenta los productos activos del subárbol.
func (h *ItemGroupHandler) ProductCount(c *fiber.Ctx) error {
	count, err := h.uc.ProductCount(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"item_group_id": c.Params("id"), "product_count": count})
}

// List devuelve las categorías activas.
func (h *ItemGroupHandler) List(c *fiber.Ctx) error {
	groups, err := h.uc.ListItemGroups(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]itemGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toItemGroupResponse(g))
	}
	return c.JSON(fiber.Map{"total": len(out), "item_groups": out})
}

// Delete soft-deletea la categoría.
func (h *ItemGroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteItemGroup(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
