package leads_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/leads"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
)

func newEventUC(db *memory.DB) *leads.EventUseCase {
	return leads.NewEventUseCase(db.Store().Events, db)
}

func TestSchedule_ProspectoPasaADemoProgramada(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Prospecto)
	fecha := time.Now().Add(48 * time.Hour)

	out, err := newEventUC(db).Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: lead.ID, Fecha: &fecha})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "Demo - La Terraza", out.Event.Titulo)
	assert.Equal(t, "Calle 85 #12-30", out.Event.Ubicacion)
	assert.Equal(t, pipeline.DemoProgramada.String(), out.Lead.Etapa)
	assert.Equal(t, pipeline.DemoProgramada, db.Leads()[0].Etapa)

	hist := db.History()
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryEventoProgramado, hist[0].Tipo)
	assert.Equal(t, "DEMO_PROG", hist[0].EtapaNueva)
}

func TestSchedule_EtapaAvanzadaNoRetrocede(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Activo)
	fecha := time.Now().Add(48 * time.Hour)

	out, err := newEventUC(db).Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: lead.ID, Fecha: &fecha, Titulo: "Activación"})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVO", out.Lead.Etapa)
	assert.Empty(t, db.History()[0].EtapaNueva)
}

func TestSchedule_PerdidoRechazado(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Perdido)
	fecha := time.Now().Add(48 * time.Hour)

	_, err := newEventUC(db).Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: lead.ID, Fecha: &fecha})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, db.Events())
}

// Evento y cambio de etapa son atómicos.
func TestSchedule_FalloDelHistorialRevierteEvento(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Prospecto)
	db.FailOn("history.append", errors.New("disco lleno"))
	fecha := time.Now().Add(48 * time.Hour)

	_, err := newEventUC(db).Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: lead.ID, Fecha: &fecha})
	require.Error(t, err)
	assert.Empty(t, db.Events())
	assert.Equal(t, pipeline.Prospecto, db.Leads()[0].Etapa)
}

func TestSchedule_DatosObligatorios(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, err := newEventUC(db).Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_Transiciones(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Prospecto)
	fecha := time.Now().Add(48 * time.Hour)
	uc := newEventUC(db)

	sched, err := uc.Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: lead.ID, Fecha: &fecha})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), principalOf(rep), sched.Event.ID, dto.UpdateEventStatusRequest{Estado: entity.EventStatusCompletado})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "PROGRAMADO no salta a COMPLETADO")

	out, err := uc.UpdateStatus(context.Background(), principalOf(rep), sched.Event.ID, dto.UpdateEventStatusRequest{Estado: entity.EventStatusEnCurso})
	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusEnCurso, out.Estado)

	out, err = uc.UpdateStatus(context.Background(), principalOf(rep), sched.Event.ID, dto.UpdateEventStatusRequest{Estado: entity.EventStatusCompletado})
	require.NoError(t, err)
	assert.Equal(t, entity.EventStatusCompletado, out.Estado)
}

func TestList_ProximosEventosOrdenAscendente(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, l1 := db.SeedLead(rep.ID, "Bar Uno", pipeline.Prospecto)
	_, l2 := db.SeedLead(rep.ID, "Bar Dos", pipeline.Prospecto)
	uc := newEventUC(db)

	later := time.Now().Add(96 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)
	_, err := uc.Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: l1.ID, Fecha: &later})
	require.NoError(t, err)
	_, err = uc.Schedule(context.Background(), principalOf(rep), dto.ScheduleEventRequest{LeadID: l2.ID, Fecha: &sooner})
	require.NoError(t, err)

	out, err := uc.List(context.Background(), principalOf(rep), true, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Demo - Bar Dos", out[0].Titulo)
	assert.Equal(t, "Demo - Bar Uno", out[1].Titulo)
}
