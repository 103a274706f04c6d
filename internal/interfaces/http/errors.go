package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/pkg/validation"
)

var (
	validate        = validation.New()
	errInvalidQuery = domain.Validationf("parámetros inválidos")
)

// writeError traduce un error de dominio a status + código.
// ErrPartialFailure se evalúa primero porque envuelve al error que lo causó.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := domain.UserMessage(err)
	if code == "STORE_ERROR" {
		msg = err.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPartialFailure):
		return fiber.StatusInternalServerError, "PARTIAL_FAILURE"
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrRegistrationClosed):
		return fiber.StatusForbidden, "REGISTRATION_CLOSED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrStore):
		return fiber.StatusBadGateway, "STORE_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// bindBody parsea y valida el cuerpo JSON.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Validationf("cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return domain.Validationf("%s", err.Error())
	}
	return nil
}

// bindQuery parsea y valida la query string.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return errInvalidQuery
	}
	return validateQuery(out)
}

func validateQuery(q any) error {
	if err := validate.Struct(q); err != nil {
		return domain.Validationf("%s", err.Error())
	}
	return nil
}

// pathID lee el parámetro :id como entero positivo.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.Validationf("id inválido: %q", c.Params("id"))
	}
	return int64(id), nil
}

func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	return c.Send(data)
}
