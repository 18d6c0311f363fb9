package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
	"github.com/tu-usuario/inventario-retail/internal/domain/repository"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

// ItemGroupUseCase mantiene el árbol de categorías. La invariante dura es la
// ausencia de ciclos: antes de colgar un nodo de un padre se recorre la
// cadena de ancestros del padre y se rechaza si el nodo aparece en ella.
type ItemGroupUseCase struct {
	groupRepo   repository.ItemGroupRepository
	productRepo repository.ProductRepository
	auditor     *audit.Recorder
	log         *logger.Logger
}

// NewItemGroupUseCase construye el caso de uso.
func NewItemGroupUseCase(
	groupRepo repository.ItemGroupRepository,
	productRepo repository.ProductRepository,
	auditor *audit.Recorder,
	log *logger.Logger,
) *ItemGroupUseCase {
	return &ItemGroupUseCase{groupRepo: groupRepo, productRepo: productRepo, auditor: auditor, log: log}
}

// CreateItemGroupInput entrada para crear una categoría.
type CreateItemGroupInput struct {
	UserID      string
	Name        string
	Description string
	ParentID    string
	Color       string
	Icon        string
}

// CreateItemGroup crea un nodo. El nombre es único entre activos y el padre,
// si se indica, debe existir y estar activo.
func (uc *ItemGroupUseCase) CreateItemGroup(ctx context.Context, input CreateItemGroupInput) (*entity.ItemGroup, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre de la categoría es requerido")
	}
	existing, err := uc.groupRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.IsDeleted() {
		return nil, domain.NewBusinessLogicError(domain.ErrDuplicate, "ya existe una categoría activa llamada '%s'", name)
	}
	if input.ParentID != "" {
		parent, err := uc.groupRepo.GetByID(input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.IsDeleted() {
			return nil, domain.NewNotFoundError("ItemGroup", input.ParentID)
		}
	}

	now := time.Now().UTC()
	group := &entity.ItemGroup{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ParentID:    input.ParentID,
		Color:       defaultString(input.Color, "#007bff"),
		Icon:        defaultString(input.Icon, "bi-box"),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   input.UserID,
		UpdatedBy:   input.UserID,
	}
	if err := uc.groupRepo.Create(group); err != nil {
		return nil, err
	}
	uc.auditor.Record(input.UserID, audit.ActionCreate, "ItemGroup", group.ID, nil, group)
	return group, nil
}

// Reparent cuelga una categoría de otro padre (vacío = raíz), rechazando
// auto-referencias y cualquier colgado que forme un ciclo.
func (uc *ItemGroupUseCase) Reparent(ctx context.Context, groupID, newParentID, userID string) (*entity.ItemGroup, error) {
	group, err := uc.activeGroup(groupID)
	if err != nil {
		return nil, err
	}

	if newParentID != "" {
		if newParentID == groupID {
			return nil, domain.NewBusinessLogicError(domain.ErrInvalidInput,
				"la categoría '%s' no puede ser su propio padre", group.Name)
		}
		parent, err := uc.activeGroup(newParentID)
		if err != nil {
			return nil, err
		}
		// Recorrer la cadena de ancestros del nuevo padre: si el nodo
		// aparece, el colgado formaría un ciclo.
		for ancestor := parent; ancestor != nil && ancestor.ParentID != ""; {
			if ancestor.ParentID == groupID {
				return nil, domain.NewBusinessLogicError(domain.ErrInvalidInput,
					"no se puede mover '%s' bajo '%s': formaría un ciclo", group.Name, parent.Name)
			}
			ancestor, err = uc.groupRepo.GetByID(ancestor.ParentID)
			if err != nil {
				return nil, err
			}
		}
	}

	old := *group
	group.ParentID = newParentID
	group.UpdatedBy = userID
	group.UpdatedAt = time.Now().UTC()
	if err := uc.groupRepo.Update(group); err != nil {
		return nil, err
	}
	uc.auditor.Record(userID, audit.ActionUpdate, "ItemGroup", group.ID, &old, group)
	return group, nil
}

// ProductCount cuenta los productos activos de la categoría más los de todos
// sus descendientes activos, filtrando soft-deleted en cada nivel.
func (uc *ItemGroupUseCase) ProductCount(ctx context.Context, groupID string) (int, error) {
	if _, err := uc.activeGroup(groupID); err != nil {
		return 0, err
	}
	return uc.countRecursive(groupID)
}

func (uc *ItemGroupUseCase) countRecursive(groupID string) (int, error) {
	count, err := uc.productRepo.CountActiveByItemGroup(groupID)
	if err != nil {
		return 0, err
	}
	children, err := uc.groupRepo.ListChildren(groupID)
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		childCount, err := uc.countRecursive(child.ID)
		if err != nil {
			return 0, err
		}
		count += childCount
	}
	return count, nil
}

// DeleteItemGroup soft-deletea la categoría. Sus productos conservan la
// referencia pero dejan de contarse en los totales del árbol.
func (uc *ItemGroupUseCase) DeleteItemGroup(ctx context.Context, groupID, userID string) error {
	group, err := uc.activeGroup(groupID)
	if err != nil {
		return err
	}
	if err := uc.groupRepo.SoftDelete(groupID, userID, time.Now().UTC()); err != nil {
		return err
	}
	uc.auditor.Record(userID, audit.ActionDelete, "ItemGroup", groupID, group, nil)
	return nil
}

// ListItemGroups devuelve las categorías activas.
func (uc *ItemGroupUseCase) ListItemGroups(ctx context.Context) ([]*entity.ItemGroup, error) {
	return uc.groupRepo.ListActive()
}

func (uc *ItemGroupUseCase) activeGroup(groupID string) (*entity.ItemGroup, error) {
	group, err := uc.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil || group.IsDeleted() {
		return nil, domain.NewNotFoundError("ItemGroup", groupID)
	}
	return group, nil
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
