package leads_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/leads"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func principalOf(c entity.Comercial) ports.Principal {
	return ports.Principal{UserID: c.UserID, Email: c.Email, ComercialID: c.ID, Role: entity.RoleComercial, Nombre: c.Nombre}
}

func newLeadUC(db *memory.DB) *leads.LeadUseCase {
	s := db.Store()
	return leads.NewLeadUseCase(s.Leads, s.History, db)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambios de etapa
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeStage_AvanceValidoRegistraHistorial(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Prospecto)

	out, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "contactado"})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Contactado.String(), out.Etapa)
	assert.Equal(t, string(pipeline.GroupContactado), out.Grupo)

	hist := db.History()
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryCambioEtapa, hist[0].Tipo)
	assert.Equal(t, "PROSPECTO", hist[0].EtapaAnterior)
	assert.Equal(t, "CONTACTADO", hist[0].EtapaNueva)
	assert.Equal(t, rep.ID, hist[0].Actor)
}

func TestChangeStage_ActivoManualRechazado(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.DemoRealizada)

	_, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "ACTIVO"})
	assert.ErrorIs(t, err, domain.ErrActivationByPaymentOnly)
	assert.Equal(t, pipeline.DemoRealizada, db.Leads()[0].Etapa)
	assert.Empty(t, db.History())
}

func TestChangeStage_RetrocesoRechazado(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.DemoProgramada)

	_, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "PROSPECTO"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestChangeStage_MismaEtapaEsNoOp(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Contactado)

	out, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "CONTACTADO"})
	require.NoError(t, err)
	assert.Equal(t, "CONTACTADO", out.Etapa)
	assert.Empty(t, db.History())
}

func TestChangeStage_EtapaDesconocida(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Prospecto)

	_, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "CERRADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStage_OtroComercialNoPuede(t *testing.T) {
	db := memory.New()
	owner := db.SeedComercial("Carlos", "carlos@wingman.co")
	other := db.SeedComercial("Lucía", "lucia@wingman.co")
	_, lead := db.SeedLead(owner.ID, "La Terraza", pipeline.Prospecto)

	_, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(other), lead.ID, dto.ChangeStageRequest{Etapa: "CONTACTADO"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := ports.Principal{UserID: "admin-1", Role: entity.RoleAdmin}
	_, err = newLeadUC(db).ChangeStage(context.Background(), admin, lead.ID, dto.ChangeStageRequest{Etapa: "CONTACTADO"})
	assert.NoError(t, err, "el admin puede operar cualquier lead")
}

func TestChangeStage_LeadInexistente(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), "no-existe", dto.ChangeStageRequest{Etapa: "CONTACTADO"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perdido
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkLost_MotivoPorDefectoYTerminal(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.DemoRealizada)
	uc := newLeadUC(db)

	out, err := uc.MarkLost(context.Background(), principalOf(rep), lead.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, "PERDIDO", out.Etapa)

	hist := db.History()
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryPerdido, hist[0].Tipo)
	assert.Contains(t, hist[0].Descripcion, leads.DefaultLostReason)

	_, err = uc.MarkLost(context.Background(), principalOf(rep), lead.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "PERDIDO es terminal")

	_, err = uc.ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "CONTACTADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestChangeStage_PerdidoDelegaEnMarkLost(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Contactado)

	out, err := newLeadUC(db).ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "perdido"})
	require.NoError(t, err)
	assert.Equal(t, "PERDIDO", out.Etapa)
	assert.Equal(t, entity.HistoryPerdido, db.History()[0].Tipo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestList_SoloLeadsPropiosYFiltroPorEtapa(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	other := db.SeedComercial("Lucía", "lucia@wingman.co")
	db.SeedLead(rep.ID, "Bar Uno", pipeline.Prospecto)
	db.SeedLead(rep.ID, "Bar Dos", pipeline.Contactado)
	db.SeedLead(other.ID, "Bar Tres", pipeline.Prospecto)
	uc := newLeadUC(db)

	all, err := uc.List(context.Background(), principalOf(rep), dto.ListLeadsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := uc.List(context.Background(), principalOf(rep), dto.ListLeadsRequest{Etapa: "CONTACTADO"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Bar Dos", filtered[0].BarName)

	admin, err := uc.List(context.Background(), ports.Principal{Role: entity.RoleAdmin}, dto.ListLeadsRequest{})
	require.NoError(t, err)
	assert.Len(t, admin, 3)
}

func TestGet_RenderizaBitacora(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.Prospecto)
	uc := newLeadUC(db)

	_, err := uc.ChangeStage(context.Background(), principalOf(rep), lead.ID, dto.ChangeStageRequest{Etapa: "CONTACTADO"})
	require.NoError(t, err)

	out, err := uc.Get(context.Background(), principalOf(rep), lead.ID)
	require.NoError(t, err)
	assert.Contains(t, out.Nota, "Etapa actualizada: PROSPECTO → CONTACTADO")
	assert.Equal(t, "La Terraza", out.BarName)
	assert.Equal(t, "Carlos", out.OwnerNombre)

	hist, err := uc.History(context.Background(), principalOf(rep), lead.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}
