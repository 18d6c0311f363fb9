// Package codegen deriva códigos de producto con formato L-XX-NN:
// letra del rubro, iniciales de la descripción y secuencial de dos dígitos.
//
// Algoritmo canónico: XX = primera letra de cada una de las dos primeras
// palabras significativas de la descripción (más de 2 caracteres tras quitar
// diacríticos y no alfanuméricos), rellenando con X si faltan palabras.
// El secuencial NN va de 01 a 99 por prefijo L-XX; agotarlo es un error duro,
// nunca se reutiliza ni se reinicia en silencio.
package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tu-usuario/inventario-retail/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSequence es el último secuencial válido por prefijo.
const MaxSequence = 99

// CategoryLetters mapea rubros conocidos a su letra de código.
var CategoryLetters = map[string]string{
	"Electricidad": "E",
	"Plomeria":     "P",
	"Albañileria":  "A",
	"Carpinteria":  "C",
	"Herreria":     "H",
	"Tornilleria":  "T",
	"Miselaneos":   "M",
}

// quita diacríticos: NFD, elimina marcas combinantes, recompone.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CleanWord quita diacríticos y caracteres no alfanuméricos y pasa a mayúsculas.
func CleanWord(word string) string {
	stripped, _, err := transform.String(stripDiacritics, word)
	if err != nil {
		stripped = word
	}
	var b strings.Builder
	for _, r := range stripped {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// CategoryLetter resuelve la letra del rubro: mapeo explícito si el nombre es
// conocido, si no la primera letra alfabética del nombre, si no X.
func CategoryLetter(categoryName string) string {
	if letter, ok := CategoryLetters[categoryName]; ok {
		return letter
	}
	for _, r := range CleanWord(categoryName) {
		if unicode.IsLetter(r) {
			return string(r)
		}
	}
	return "X"
}

// DescriptionInitials devuelve las dos letras XX: la inicial de cada una de
// las dos primeras palabras significativas, rellenando con X.
func DescriptionInitials(description string) string {
	var meaningful []string
	var all []string
	for _, w := range strings.Fields(description) {
		cleaned := CleanWord(w)
		if cleaned == "" {
			continue
		}
		all = append(all, cleaned)
		if len(cleaned) > 2 {
			meaningful = append(meaningful, cleaned)
		}
	}
	// Sin suficientes palabras significativas, usar todas las palabras.
	if len(meaningful) < 2 {
		meaningful = all
	}

	initials := [2]string{"X", "X"}
	for i := 0; i < 2 && i < len(meaningful); i++ {
		initials[i] = meaningful[i][:1]
	}
	return initials[0] + initials[1]
}

// Prefix compone el prefijo L-XX de un rubro y una descripción.
func Prefix(categoryName, description string) string {
	return CategoryLetter(categoryName) + "-" + DescriptionInitials(description)
}

// NextSequence calcula el próximo secuencial para un prefijo L-XX a partir de
// los códigos activos existentes que lo comparten (max + 1). Si el mayor ya es
// 99 devuelve ErrPrefixExhausted.
func NextSequence(prefix string, existingCodes []string) (int, error) {
	maxSeq := 0
	for _, code := range existingCodes {
		rest, ok := strings.CutPrefix(code, prefix+"-")
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	if maxSeq >= MaxSequence {
		return 0, domain.NewBusinessLogicError(domain.ErrPrefixExhausted,
			"secuencia agotada para el prefijo %s: ya existe el código %s-%02d", prefix, prefix, MaxSequence)
	}
	return maxSeq + 1, nil
}

// Generate deriva el código completo L-XX-NN dado el rubro, la descripción y
// los códigos activos que comparten el prefijo.
func Generate(categoryName, description string, existingCodes []string) (string, error) {
	prefix := Prefix(categoryName, description)
	seq, err := NextSequence(prefix, existingCodes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%02d", prefix, seq), nil
}
