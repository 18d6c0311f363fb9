// Package validation agrupa las validaciones puras de formato y rango.
// Ninguna función hace I/O: o la entrada completa se normaliza y se devuelve,
// o se devuelve un ValidationError con el campo ofensor — nunca se aplica un
// payload a medias.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/entity"
)

var (
	// Formato de código de producto: L-XX-NN (ej. E-SO-01).
	productCodePattern = regexp.MustCompile(`^[A-Z]-[A-Z]{2}-\d{2}$`)
	// RIF venezolano: J-12345678-9, V-12345678-9, etc.
	rifPattern = regexp.MustCompile(`^[JVEGP]-\d{8,9}-\d$`)
)

// Límites de paginación.
const (
	MaxPerPage     = 100
	DefaultPerPage = 50
)

// ValidateProductCode verifica el formato L-XX-NN. El código ya debe venir
// en mayúsculas (normalizar con strings.ToUpper antes si viene del caller).
func ValidateProductCode(code string) error {
	if !productCodePattern.MatchString(code) {
		return domain.NewValidationError("codigo", "el código debe tener el formato L-XX-NN (ej. E-SO-01)")
	}
	return nil
}

// NormalizeProductCode recorta, pasa a mayúsculas y valida el código.
func NormalizeProductCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := ValidateProductCode(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// NormalizeMovementType acepta el tipo en cualquier combinación de mayúsculas
// y devuelve el token canónico (ENTRADA, SALIDA o AJUSTE).
func NormalizeMovementType(tipo string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(tipo)) {
	case entity.MovementTypeEntry:
		return entity.MovementTypeEntry, nil
	case entity.MovementTypeExit:
		return entity.MovementTypeExit, nil
	case entity.MovementTypeAdjust:
		return entity.MovementTypeAdjust, nil
	}
	return "", domain.NewValidationError("tipo", "tipo de movimiento inválido: debe ser ENTRADA, SALIDA o AJUSTE")
}

// ValidateQuantity verifica que la cantidad de un movimiento sea un entero positivo.
func ValidateQuantity(cantidad int) error {
	if cantidad <= 0 {
		return domain.NewValidationError("cantidad", "la cantidad debe ser mayor a 0")
	}
	return nil
}

// ParsePrice interpreta un monto como decimal de punto fijo no negativo.
func ParsePrice(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "el precio debe ser un número válido")
	}
	if d.IsNegative() {
		return decimal.Zero, domain.NewValidationError(field, "el precio no puede ser negativo")
	}
	return d, nil
}

// ParseAdjustmentFactor interpreta el factor de ajuste, estrictamente positivo.
func ParseAdjustmentFactor(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, domain.NewValidationError("factor_ajuste", "el factor de ajuste debe ser un número válido")
	}
	if !d.IsPositive() {
		return decimal.Zero, domain.NewValidationError("factor_ajuste", "el factor de ajuste debe ser mayor que cero")
	}
	return d, nil
}

// ValidatePrice verifica un monto ya parseado (>= 0).
func ValidatePrice(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError(field, "el monto no puede ser negativo")
	}
	return nil
}

// ValidateAdjustmentFactor verifica un factor ya parseado (> 0).
func ValidateAdjustmentFactor(d decimal.Decimal) error {
	if !d.IsPositive() {
		return domain.NewValidationError("factor_ajuste", "el factor de ajuste debe ser mayor que cero")
	}
	return nil
}

// ValidatePagination normaliza página y tamaño. Cero significa "usar defaults";
// valores fuera de rango son error, no se recortan en silencio.
func ValidatePagination(page, perPage int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		return 0, 0, domain.NewValidationError("page", "la página debe ser >= 1")
	}
	if perPage < 1 || perPage > MaxPerPage {
		return 0, 0, domain.NewValidationError("per_page", "per_page debe estar entre 1 y 100")
	}
	return page, perPage, nil
}

// ValidateDateRange verifica inicio <= fin.
func ValidateDateRange(start, end time.Time) error {
	if start.After(end) {
		return domain.NewValidationError("start_date", "la fecha inicial no puede ser posterior a la final")
	}
	return nil
}

// NormalizeRIF recorta, pasa a mayúsculas y valida el RIF.
func NormalizeRIF(rif string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(rif))
	if !rifPattern.MatchString(normalized) {
		return "", domain.NewValidationError("rif", "el formato del RIF es inválido, debe ser J-12345678-9 o V-12345678-9")
	}
	return normalized, nil
}

// ValidateDescription verifica una descripción no vacía de hasta 200 caracteres.
func ValidateDescription(descripcion string) (string, error) {
	trimmed := strings.TrimSpace(descripcion)
	if trimmed == "" {
		return "", domain.NewValidationError("descripcion", "la descripción es requerida")
	}
	if len([]rune(trimmed)) > 200 {
		return "", domain.NewValidationError("descripcion", "la descripción no puede exceder 200 caracteres")
	}
	return trimmed, nil
}
