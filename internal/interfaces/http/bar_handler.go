package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/registration"
)

// BarHandler verificación de NIT y registro de bares desde el portal comercial.
type BarHandler struct {
	nit      *registration.NITCheckUseCase
	register *registration.RegisterBarUseCase
}

// NewBarHandler construye el handler.
func NewBarHandler(nit *registration.NITCheckUseCase, register *registration.RegisterBarUseCase) *BarHandler {
	return &BarHandler{nit: nit, register: register}
}

// ValidateNIT godoc
// @Summary      Verificar NIT
// @Description  Indica si el NIT base (antes del guion) ya está registrado.
// @Tags         bars
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateNITRequest  true  "nit"
// @Success      200   {object}  dto.ValidateNITResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/bars/validate-nit [post]
func (h *BarHandler) ValidateNIT(c *fiber.Ctx) error {
	var in dto.ValidateNITRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.nit.Check(c.Context(), in.NIT)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar bar
// @Description  Crea Bar + Lead (PROSPECTO) y, con método "evento", el evento inicial (DEMO_PROG).
// @Tags         bars
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBarRequest  true  "formulario de registro"
// @Success      201   {object}  dto.RegisterBarResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bars/registro [post]
func (h *BarHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterBarRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.register.Register(c.Context(), GetPrincipal(c).ComercialID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
