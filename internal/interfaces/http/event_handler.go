package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/leads"
)

// EventHandler programación y seguimiento de eventos.
type EventHandler struct {
	uc *leads.EventUseCase
}

// NewEventHandler construye el handler.
func NewEventHandler(uc *leads.EventUseCase) *EventHandler {
	return &EventHandler{uc: uc}
}

// Schedule godoc
// @Summary      Programar evento
// @Description  Crea el evento y avanza el lead a DEMO_PROG en una sola transacción.
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScheduleEventRequest  true  "evento"
// @Success      201   {object}  dto.ScheduleEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/comercial/eventos [post]
func (h *EventHandler) Schedule(c *fiber.Ctx) error {
	var in dto.ScheduleEventRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Schedule(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/comercial/eventos?upcoming=true&limit=
func (h *EventHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetPrincipal(c), c.QueryBool("upcoming"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// UpdateStatus PATCH /api/comercial/eventos/:id/estado
func (h *EventHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateEventStatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
