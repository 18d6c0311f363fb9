package codegen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/inventario-retail/internal/domain"
	"github.com/tu-usuario/inventario-retail/internal/domain/codegen"
	"github.com/tu-usuario/inventario-retail/internal/domain/validation"
)

func TestCleanWord_Diacriticos(t *testing.T) {
	cases := map[string]string{
		"Albañilería": "ALBANILERIA",
		"cañería":     "CANERIA",
		"tubo-1/2":    "TUBO12",
		"électrico":   "ELECTRICO",
		"...":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, codegen.CleanWord(in), in)
	}
}

func TestCategoryLetter(t *testing.T) {
	// Mapeo explícito de rubros conocidos
	assert.Equal(t, "E", codegen.CategoryLetter("Electricidad"))
	assert.Equal(t, "P", codegen.CategoryLetter("Plomeria"))
	assert.Equal(t, "A", codegen.CategoryLetter("Albañileria"))
	// Rubro desconocido: primera letra alfabética
	assert.Equal(t, "F", codegen.CategoryLetter("Ferretería general"))
	// Sin letras: X
	assert.Equal(t, "X", codegen.CategoryLetter("123"))
	assert.Equal(t, "X", codegen.CategoryLetter(""))
}

func TestDescriptionInitials(t *testing.T) {
	cases := map[string]string{
		"Socates Porcelana":       "SP", // dos palabras significativas
		"Tubo de cobre":           "TC", // "de" se descarta por corta
		"Cable":                   "CX", // una sola palabra: relleno X
		"":                        "XX",
		"la de":                   "LD", // sin significativas: se usan todas
		"Cañería PVC media":       "CP", // PVC limpia a 3 caracteres: cuenta como significativa
		"Clavos 3\" acero":        "CA",
	}
	for in, want := range cases {
		assert.Equal(t, want, codegen.DescriptionInitials(in), "descripción %q", in)
	}
}

func TestGenerate_PrimerCodigo(t *testing.T) {
	code, err := codegen.Generate("Electricidad", "Socates Porcelana", nil)
	require.NoError(t, err)
	assert.Equal(t, "E-SP-01", code)
	// Todo código generado debe pasar la misma validación que el manual
	assert.NoError(t, validation.ValidateProductCode(code))
}

func TestGenerate_SecuencialIncrementa(t *testing.T) {
	existing := []string{"E-SP-01", "E-SP-03", "E-XX-09", "P-SP-07"}
	code, err := codegen.Generate("Electricidad", "Socates Porcelana", existing)
	require.NoError(t, err)
	// max del prefijo E-SP es 03; códigos de otros prefijos no cuentan
	assert.Equal(t, "E-SP-04", code)
}

func TestNextSequence_IgnoraCodigosMalformados(t *testing.T) {
	seq, err := codegen.NextSequence("E-SP", []string{"E-SP-02", "E-SP-XY", "E-SP-"})
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}

func TestNextSequence_PrefijoAgotado(t *testing.T) {
	existing := make([]string, 0, 99)
	for i := 1; i <= 99; i++ {
		existing = append(existing, fmt.Sprintf("E-SP-%02d", i))
	}
	_, err := codegen.NextSequence("E-SP", existing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPrefixExhausted))

	var bl *domain.BusinessLogicError
	require.ErrorAs(t, err, &bl)
	assert.Equal(t, domain.CodeBusinessLogic, bl.Code())
}

func TestGenerate_NuncaReutilizaTrasAgotar(t *testing.T) {
	// Con solo el 99 presente el máximo ya es 99: error, no vuelve a 01
	_, err := codegen.Generate("Electricidad", "Socates Porcelana", []string{"E-SP-99"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPrefixExhausted))
}
