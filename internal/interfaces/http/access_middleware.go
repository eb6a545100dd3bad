package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
)

// principalResolver es el contrato mínimo que necesita el middleware para resolver el rol CRM.
// Lo implementa *auth.AuthUseCase; el uso de interfaz evita el import circular.
type principalResolver interface {
	Resolve(ctx context.Context, id ports.Identity) (*ports.Principal, error)
}

// RequireComercial resuelve el rol CRM del usuario y deja el Principal en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 400 COMERCIAL_NOT_FOUND → el usuario no tiene rol activo ni registro de comercial.
//   - 503 ROLE_CHECK_FAILED   → fallo de infraestructura al consultar la DB.
func RequireComercial(resolver principalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "usuario no autenticado",
			})
		}

		p, err := resolver.Resolve(c.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrComercialNotFound) {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
					Code:    "COMERCIAL_NOT_FOUND",
					Message: "comercial no encontrado",
				})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ROLE_CHECK_FAILED",
				Message: "no se pudo verificar el rol, intente más tarde",
			})
		}

		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// RequireRole permite continuar solo si el Principal tiene alguno de los roles indicados.
// Debe usarse DESPUÉS de RequireComercial.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no resuelto"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permisos para este recurso"})
	}
}

// GetPrincipal devuelve el Principal resuelto (vacío si no pasó por RequireComercial).
func GetPrincipal(c *fiber.Ctx) ports.Principal {
	p, _ := c.Locals(LocalPrincipal).(*ports.Principal)
	if p == nil {
		return ports.Principal{}
	}
	return *p
}

// GetRole rol CRM del Principal.
func GetRole(c *fiber.Ctx) string {
	return GetPrincipal(c).Role
}
