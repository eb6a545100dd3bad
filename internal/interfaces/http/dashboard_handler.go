package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/wingman-crm/internal/application/analytics"
)

// DashboardHandler maneja el tablero del comercial.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el tablero del comercial autenticado.
// GET /api/comercial/dashboard
//
// Respuesta: ComercialDashboardDTO (total_leads, suscripciones_activas, comisiones_mes,
// comisiones_mes_pagadas, comisiones_pendientes, proximos_eventos[4], serie_comisiones[6], date_label).
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
