package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/wingman-crm/internal/application/analytics"
)

// CommissionHandler comisiones y liquidaciones del comercial.
type CommissionHandler struct {
	uc *appanalytics.CommissionUseCase
}

// NewCommissionHandler construye el handler.
func NewCommissionHandler(uc *appanalytics.CommissionUseCase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

// List GET /api/comercial/comisiones?estado=
func (h *CommissionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetPrincipal(c), c.Query("estado"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// Payouts GET /api/comercial/payouts
func (h *CommissionHandler) Payouts(c *fiber.Ctx) error {
	out, err := h.uc.Payouts(c.Context(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": out})
}

// Export GET /api/comercial/comisiones/export?estado=
// Se arma el CSV completo antes de responder para poder devolver un error JSON si la consulta falla.
func (h *CommissionHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.uc.ExportCSV(c.Context(), GetPrincipal(c), c.Query("estado"), &buf); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="comisiones-%s.csv"`, time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}
