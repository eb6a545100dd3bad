package dto

import "github.com/shopspring/decimal"

// ComercialDashboardDTO respuesta de GET /api/comercial/dashboard.
type ComercialDashboardDTO struct {
	TotalLeads           int             `json:"total_leads"`
	SuscripcionesActivas int             `json:"suscripciones_activas"`
	ComisionesMes        decimal.Decimal `json:"comisiones_mes"`         // neto causado en el mes
	ComisionesMesPagadas decimal.Decimal `json:"comisiones_mes_pagadas"` // neto PAGADA en el mes
	ComisionesPendientes decimal.Decimal `json:"comisiones_pendientes"`  // neto aún no pagado, todo el histórico
	ProximosEventos      []EventResponse `json:"proximos_eventos"`
	Serie                []MonthlyPoint  `json:"serie_comisiones"` // últimos 6 meses
	DateLabel            string          `json:"date_label"`
}

// MonthlyPoint punto de la serie mensual.
type MonthlyPoint struct {
	Period string          `json:"period"`
	Label  string          `json:"label"`
	Neto   decimal.Decimal `json:"neto"`
}
