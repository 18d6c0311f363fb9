// Package http expone la API REST sobre Fiber.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-retail/internal/domain"
)

// ErrorResponse cuerpo estándar de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError traduce un error del dominio a su status HTTP por código
// estable. El texto del mensaje llega al cliente; el código es el contrato.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	status := fiber.StatusInternalServerError
	switch code {
	case domain.CodeValidation:
		status = fiber.StatusBadRequest
	case domain.CodeNotFound:
		status = fiber.StatusNotFound
	case domain.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case domain.CodeBusinessLogic:
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Code: domain.CodeValidation, Message: "cuerpo inválido"})
}
