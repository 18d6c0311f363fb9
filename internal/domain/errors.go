// Package domain define las entidades, puertos y errores del núcleo, sin
// dependencias de infraestructura.
package domain

import (
	"errors"
	"fmt"
)

// Errores centinela del dominio, comparables con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrPrefixExhausted   = errors.New("secuencia de códigos agotada para el prefijo")
	ErrNoExchangeRate    = errors.New("no hay tasa de cambio registrada")
)

// Códigos estables para la capa HTTP y los logs. No cambian aunque cambie el
// texto del mensaje.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeBusinessLogic = "BUSINESS_LOGIC_ERROR"
	CodeDatabase      = "DB_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternal      = "INTERNAL_ERROR"
)

// ValidationError señala una entrada que no pasó la validación, con el campo
// ofensor. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Code devuelve el código estable del error.
func (e *ValidationError) Code() string { return CodeValidation }

// NewValidationError construye un ValidationError para un campo.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError señala que un recurso identificado no existe o está eliminado.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Code devuelve el código estable del error.
func (e *NotFoundError) Code() string { return CodeNotFound }

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// BusinessLogicError señala una regla de negocio violada. Envuelve uno de los
// centinelas para que errors.Is distinga la regla concreta.
type BusinessLogicError struct {
	Message  string
	Sentinel error
}

func (e *BusinessLogicError) Error() string { return e.Message }

func (e *BusinessLogicError) Unwrap() error { return e.Sentinel }

// Code devuelve el código estable del error.
func (e *BusinessLogicError) Code() string { return CodeBusinessLogic }

// NewBusinessLogicError construye un BusinessLogicError sobre un centinela.
func NewBusinessLogicError(sentinel error, format string, args ...any) error {
	return &BusinessLogicError{
		Message:  fmt.Sprintf(format, args...),
		Sentinel: sentinel,
	}
}

// DatabaseError envuelve un fallo de la capa de persistencia con la operación
// que lo produjo.
type DatabaseError struct {
	Op    string
	Cause error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("db: %s: %v", e.Op, e.Cause)
}

func (e *DatabaseError) Unwrap() error { return e.Cause }

// Code devuelve el código estable del error.
func (e *DatabaseError) Code() string { return CodeDatabase }

// NewDatabaseError construye un DatabaseError.
func NewDatabaseError(op string, cause error) error {
	return &DatabaseError{Op: op, Cause: cause}
}

type coder interface{ Code() string }

// ErrorCode devuelve el código estable de un error del dominio, o
// CodeInternal si el error no es del dominio.
func ErrorCode(err error) string {
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPrefixExhausted),
		errors.Is(err, ErrNoExchangeRate):
		return CodeBusinessLogic
	}
	return CodeInternal
}
