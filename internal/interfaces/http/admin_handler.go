package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/analytics"
	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/registration"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// AdminHandler aprobación de bares y ciclo de vida de comisiones. Solo rol ADMIN.
type AdminHandler struct {
	bars        *registration.BarApprovalUseCase
	commissions *analytics.CommissionUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(bars *registration.BarApprovalUseCase, commissions *analytics.CommissionUseCase) *AdminHandler {
	return &AdminHandler{bars: bars, commissions: commissions}
}

// ListBars GET /api/admin/bars?estado=pending_verification&limit=&offset=
func (h *AdminHandler) ListBars(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	page.DefaultPage()
	out, err := h.bars.List(c.Context(), c.Query("estado", entity.BarStatusPending), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// UpdateBarStatus godoc
// @Summary      Aprobar o rechazar bar
// @Description  Solo bares en pending_verification. Rechazar exige motivo.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "bar id"
// @Param        body  body  dto.UpdateBarStatusRequest  true  "estado"
// @Success      200   {object}  dto.BarResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/bars/{id}/estado [patch]
func (h *AdminHandler) UpdateBarStatus(c *fiber.Ctx) error {
	var in dto.UpdateBarStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.bars.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCommissionStatus PATCH /api/admin/comisiones/:id/estado
func (h *AdminHandler) UpdateCommissionStatus(c *fiber.Ctx) error {
	var in dto.UpdateCommissionStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.commissions.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
