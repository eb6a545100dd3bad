package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/payments"
	"github.com/jhoicas/wingman-crm/internal/domain"
)

// PaymentHandler links de pago y webhook de la pasarela.
type PaymentHandler struct {
	links   *payments.PaymentLinkUseCase
	webhook *payments.WebhookUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(links *payments.PaymentLinkUseCase, webhook *payments.WebhookUseCase) *PaymentHandler {
	return &PaymentHandler{links: links, webhook: webhook}
}

// CreateLink godoc
// @Summary      Crear link de pago
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentLinkRequest  true  "lead y monto"
// @Success      200   {object}  dto.PaymentLinkResponse
// @Failure      400   {object}  dto.ErrorResponse  "PAYMENT_PROVIDER con el cuerpo de Wompi en details"
// @Router       /api/comercial/payment-links [post]
func (h *PaymentHandler) CreateLink(c *fiber.Ctx) error {
	var in dto.CreatePaymentLinkRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.links.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Webhook godoc
// @Summary      Webhook de Wompi
// @Description  Verifica x-signature sobre el cuerpo crudo. Tras verificar siempre responde 200.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.WebhookAck
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/webhooks/wompi [post]
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	// c.Body() se reutiliza al terminar el handler; la firma se calcula sobre una copia.
	body := append([]byte(nil), c.Body()...)
	if err := h.webhook.Handle(c.Context(), body, c.Get("x-signature")); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(dto.WebhookAck{Status: "success"})
}
