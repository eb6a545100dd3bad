package analytics_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/analytics"
	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/commission"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func seedCommission(db *memory.DB, comercialID, estado string, gross int64, at time.Time) entity.Commission {
	g := decimal.NewFromInt(gross)
	c := entity.Commission{
		ID:             uuid.New().String(),
		ComercialID:    comercialID,
		Tipo:           commission.TypeDirecta,
		Monto:          g,
		MontoNeto:      commission.NetAmount(g),
		Concepto:       "Suscripción Bar",
		Estado:         estado,
		FechaCausacion: at,
		TransaccionID:  uuid.New().String(),
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	db.SeedCommission(c)
	return c
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func principal(id string) ports.Principal {
	return ports.Principal{ComercialID: id, Role: entity.RoleComercial}
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Resumen(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	other := db.SeedComercial("Lucía", "lucia@wingman.co")
	db.SeedLead(rep.ID, "Bar Uno", pipeline.Prospecto)
	db.SeedLead(rep.ID, "Bar Dos", pipeline.Activo)
	db.SeedLead(rep.ID, "Bar Tres", pipeline.Suscripcion)
	db.SeedLead(other.ID, "Bar Cuatro", pipeline.Activo)

	now := time.Now()
	start := monthStart(now)
	seedCommission(db, rep.ID, commission.StatusCausada, 100000, now)
	seedCommission(db, rep.ID, commission.StatusPagada, 200000, now)
	seedCommission(db, rep.ID, commission.StatusValidada, 100000, start.AddDate(0, -2, 1))
	seedCommission(db, other.ID, commission.StatusCausada, 100000, now)

	s := db.Store()
	out, err := analytics.NewDashboardUseCase(s.Leads, s.Commissions, s.Events).GetSummary(context.Background(), principal(rep.ID))
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalLeads)
	assert.Equal(t, 2, out.SuscripcionesActivas)
	assert.True(t, decimal.NewFromInt(45000).Equal(out.ComisionesMes), "mes: %s", out.ComisionesMes)
	assert.True(t, decimal.NewFromInt(30000).Equal(out.ComisionesMesPagadas), "pagadas: %s", out.ComisionesMesPagadas)
	assert.True(t, decimal.NewFromInt(30000).Equal(out.ComisionesPendientes), "pendientes: %s", out.ComisionesPendientes)
	assert.Equal(t, analytics.MonthLabel(now), out.DateLabel)
	assert.NotNil(t, out.ProximosEventos)

	require.Len(t, out.Serie, 6)
	assert.Equal(t, start.Format("2006-01"), out.Serie[5].Period)
	assert.True(t, decimal.NewFromInt(45000).Equal(out.Serie[5].Neto))
	assert.True(t, decimal.NewFromInt(15000).Equal(out.Serie[3].Neto))
	assert.True(t, out.Serie[0].Neto.IsZero(), "los meses sin comisiones van en cero")
}

func TestDashboard_SinComercial(t *testing.T) {
	db := memory.New()
	s := db.Store()
	_, err := analytics.NewDashboardUseCase(s.Leads, s.Commissions, s.Events).GetSummary(context.Background(), ports.Principal{Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrComercialNotFound)
}

func TestDashboard_ErrorDeConsulta(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	db.FailOn("commissions.sum", errors.New("timeout"))
	s := db.Store()

	_, err := analytics.NewDashboardUseCase(s.Leads, s.Commissions, s.Events).GetSummary(context.Background(), principal(rep.ID))
	assert.Error(t, err)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Febrero 2026", analytics.MonthLabel(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2025", analytics.MonthLabel(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Comisiones y payouts
// ──────────────────────────────────────────────────────────────────────────────

func TestPayouts_AgrupaPorMes(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	jan := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)
	seedCommission(db, rep.ID, commission.StatusPagada, 100000, jan)
	seedCommission(db, rep.ID, commission.StatusPagada, 100000, jan.AddDate(0, 0, 5))
	seedCommission(db, rep.ID, commission.StatusPorPagar, 100000, feb)
	seedCommission(db, rep.ID, commission.StatusCausada, 100000, feb.AddDate(0, 0, 1))

	out, err := analytics.NewCommissionUseCase(db.Store().Commissions).Payouts(context.Background(), principal(rep.ID))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "2026-02", out[0].Period)
	assert.Equal(t, "Febrero 2026", out[0].Label)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, commission.PayoutProcesando, out[0].Estado)

	assert.Equal(t, "2026-01", out[1].Period)
	assert.Equal(t, commission.PayoutPagado, out[1].Estado)
	assert.True(t, decimal.NewFromInt(200000).Equal(out[1].TotalBruto))
	assert.True(t, decimal.NewFromInt(30000).Equal(out[1].TotalNeto))
}

func TestList_FiltraPorEstado(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	seedCommission(db, rep.ID, commission.StatusPagada, 100000, time.Now())
	seedCommission(db, rep.ID, commission.StatusCausada, 100000, time.Now())
	uc := analytics.NewCommissionUseCase(db.Store().Commissions)

	all, err := uc.List(context.Background(), principal(rep.ID), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	paid, err := uc.List(context.Background(), principal(rep.ID), commission.StatusPagada)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, commission.StatusPagada, paid[0].Estado)
}

func TestExportCSV(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	c := seedCommission(db, rep.ID, commission.StatusCausada, 100000, time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, analytics.NewCommissionUseCase(db.Store().Commissions).ExportCSV(context.Background(), principal(rep.ID), "", &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "fecha_causacion", "tipo", "concepto", "monto", "monto_neto", "estado", "transaccion_id"}, records[0])
	assert.Equal(t, []string{c.ID, "2026-02-05", commission.TypeDirecta, "Suscripción Bar", "100000.00", "15000.00", "CAUSADA", c.TransaccionID}, records[1])
}

func TestUpdateStatus_CicloDeVida(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	c := seedCommission(db, rep.ID, commission.StatusCausada, 100000, time.Now())
	uc := analytics.NewCommissionUseCase(db.Store().Commissions)
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, c.ID, dto.UpdateCommissionStatusRequest{Estado: commission.StatusPagada})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se saltan pasos")

	for _, next := range []string{commission.StatusValidada, commission.StatusPorPagar, commission.StatusPagada} {
		out, err := uc.UpdateStatus(ctx, c.ID, dto.UpdateCommissionStatusRequest{Estado: next})
		require.NoError(t, err)
		assert.Equal(t, next, out.Estado)
	}

	_, err = uc.UpdateStatus(ctx, c.ID, dto.UpdateCommissionStatusRequest{Estado: commission.StatusCausada})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.UpdateStatus(ctx, "no-existe", dto.UpdateCommissionStatusRequest{Estado: commission.StatusValidada})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
