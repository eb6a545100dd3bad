// Package analytics contiene los casos de uso de lectura del comercial:
// dashboard, listado de comisiones, payouts mensuales y exportación.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/commission"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

const (
	dashboardUpcomingEvents = 4 // eventos en el widget "próximos eventos"
	dashboardSeriesMonths   = 6 // meses de la serie de comisiones
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthLabel devuelve "Febrero 2026".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// DashboardUseCase resumen del comercial autenticado.
//
// Fuentes de datos: LeadRepository, CommissionRepository, EventRepository (solo lectura).
type DashboardUseCase struct {
	leads       repository.LeadRepository
	commissions repository.CommissionRepository
	events      repository.EventRepository
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(leads repository.LeadRepository, commissions repository.CommissionRepository, events repository.EventRepository) *DashboardUseCase {
	return &DashboardUseCase{leads: leads, commissions: commissions, events: events, now: time.Now}
}

// GetSummary construye el ComercialDashboardDTO.
//
// Siete consultas en paralelo con errgroup; el primer error cancela el resto:
//  1. CountByOwner(todas)            → TotalLeads
//  2. CountByOwner(grupo activo)     → SuscripcionesActivas
//  3. SumNet(mes)                    → ComisionesMes
//  4. SumNet(mes, PAGADA)            → ComisionesMesPagadas
//  5. SumNet(histórico, pendientes)  → ComisionesPendientes
//  6. ListByComercial(desde ahora)   → ProximosEventos
//  7. MonthlyNet(últimos 6 meses)    → Serie
func (uc *DashboardUseCase) GetSummary(ctx context.Context, p ports.Principal) (*dto.ComercialDashboardDTO, error) {
	if p.ComercialID == "" {
		return nil, domain.ErrComercialNotFound
	}
	id := p.ComercialID
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	seriesStart := monthStart.AddDate(0, -(dashboardSeriesMonths - 1), 0)

	out := &dto.ComercialDashboardDTO{DateLabel: MonthLabel(now)}
	var (
		upcoming []*entity.Event
		monthly  []repository.MonthlyAmount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalLeads, err = uc.leads.CountByOwner(gctx, id, nil)
		return err
	})
	g.Go(func() (err error) {
		out.SuscripcionesActivas, err = uc.leads.CountByOwner(gctx, id, pipeline.ActiveStages())
		return err
	})
	g.Go(func() (err error) {
		out.ComisionesMes, err = uc.commissions.SumNet(gctx, id, monthStart, monthEnd, nil)
		return err
	})
	g.Go(func() (err error) {
		out.ComisionesMesPagadas, err = uc.commissions.SumNet(gctx, id, monthStart, monthEnd, []string{commission.StatusPagada})
		return err
	})
	g.Go(func() (err error) {
		out.ComisionesPendientes, err = uc.commissions.SumNet(gctx, id, time.Time{}, monthEnd, commission.PendingStatuses())
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = uc.events.ListByComercial(gctx, id, &now, dashboardUpcomingEvents)
		return err
	})
	g.Go(func() (err error) {
		monthly, err = uc.commissions.MonthlyNet(gctx, id, seriesStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	out.ProximosEventos = make([]dto.EventResponse, 0, len(upcoming))
	for _, e := range upcoming {
		out.ProximosEventos = append(out.ProximosEventos, dto.NewEventResponse(e))
	}
	out.Serie = buildSeries(seriesStart, dashboardSeriesMonths, monthly)
	return out, nil
}

// buildSeries rellena con cero los meses sin comisiones.
func buildSeries(start time.Time, months int, rows []repository.MonthlyAmount) []dto.MonthlyPoint {
	byPeriod := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byPeriod[r.Period] = r.Net
	}
	out := make([]dto.MonthlyPoint, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		period := m.Format("2006-01")
		out = append(out, dto.MonthlyPoint{Period: period, Label: MonthLabel(m), Neto: byPeriod[period]})
	}
	return out
}
