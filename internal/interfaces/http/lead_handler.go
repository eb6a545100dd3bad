package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/leads"
)

// LeadHandler consultas y cambios de etapa de leads.
type LeadHandler struct {
	uc *leads.LeadUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *leads.LeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// List GET /api/comercial/leads?etapa=&limit=&offset=
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var in dto.ListLeadsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	in.DefaultPage()
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": out, "page": dto.PageResponse{Limit: in.Limit, Offset: in.Offset}})
}

// Get GET /api/comercial/leads/:id
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History GET /api/comercial/leads/:id/historial
func (h *LeadHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// ChangeStage godoc
// @Summary      Cambiar etapa del lead
// @Description  Valida la transición contra la tabla del embudo. ACTIVO solo se alcanza por pago.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "lead id"
// @Param        body  body  dto.ChangeStageRequest  true  "etapa"
// @Success      200   {object}  dto.LeadResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/comercial/leads/{id}/etapa [patch]
func (h *LeadHandler) ChangeStage(c *fiber.Ctx) error {
	var in dto.ChangeStageRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ChangeStage(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkLost POST /api/comercial/leads/:id/perdido {reason?}
func (h *LeadHandler) MarkLost(c *fiber.Ctx) error {
	var in dto.MarkLostRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.MarkLost(c.Context(), GetPrincipal(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
