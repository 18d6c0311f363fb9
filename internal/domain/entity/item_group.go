package entity

import "time"

// ItemGroup es un nodo del árbol de categorías (rubros). ParentID vacío
// significa raíz. Nunca puede formar ciclos: un nodo no puede ser su propio
// ancestro (el caso de uso lo verifica antes de cada reparenting).
type ItemGroup struct {
	ID          string
	Name        string // único entre nodos activos
	Description string
	ParentID    string
	Color       string // hex para la UI
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
	DeletedAt   *time.Time
}

// IsDeleted indica si la categoría está soft-deleted.
func (g *ItemGroup) IsDeleted() bool { return g.DeletedAt != nil }
