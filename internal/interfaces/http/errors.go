package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/application/registration"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/pkg/validator"
)

var validate = validator.New()

// parseBody decodifica y valida el cuerpo. Devuelve la respuesta de error ya escrita y false si falla.
func parseBody(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}

// writeError traduce errores de dominio a dto.ErrorResponse. El orden importa: los errores
// más específicos se evalúan antes que los genéricos que envuelven.
func writeError(c *fiber.Ctx, err error) error {
	var dupNIT *registration.DuplicateNITError
	if errors.As(err, &dupNIT) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "DUPLICATE_NIT",
			Message: dupNIT.Error(),
			Details: fiber.Map{"nit_base": dupNIT.Base, "bar_name": dupNIT.BarName, "nit": dupNIT.NIT},
		})
	}
	var provErr *ports.ProviderError
	if errors.As(err, &provErr) {
		var details any = string(provErr.Body)
		var parsed map[string]any
		if json.Unmarshal(provErr.Body, &parsed) == nil {
			details = parsed
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "PAYMENT_PROVIDER",
			Message: "error del proveedor de pagos",
			Status:  provErr.StatusCode,
			Details: details,
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrDuplicateNIT):
		status, code = fiber.StatusBadRequest, "DUPLICATE_NIT"
	case errors.Is(err, domain.ErrNITCheck):
		status, code = fiber.StatusBadRequest, "NIT_CHECK"
	case errors.Is(err, domain.ErrComercialNotFound):
		status, code = fiber.StatusBadRequest, "COMERCIAL_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidSignature):
		status, code = fiber.StatusUnauthorized, "INVALID_SIGNATURE"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrActivationByPaymentOnly):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
