package payments_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/payments"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/commission"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/wompi"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testEventsSecret = "test_events_secret"

// recordingMetrics guarda los resultados reportados.
type recordingMetrics struct {
	mu      sync.Mutex
	results []string
	caused  int
	links   []string
}

func (m *recordingMetrics) WebhookProcessed(event, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, event+":"+result)
}

func (m *recordingMetrics) CommissionCaused() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caused++
}

func (m *recordingMetrics) PaymentLinkIssued(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, result)
}

type webhookFixture struct {
	db       *memory.DB
	uc       *payments.WebhookUseCase
	verifier *wompi.Verifier
	metrics  *recordingMetrics
	rep      entity.Comercial
	lead     entity.Lead
}

func newWebhookFixture(t *testing.T, etapa pipeline.Stage) *webhookFixture {
	t.Helper()
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", etapa)
	verifier := wompi.NewVerifier(testEventsSecret)
	m := &recordingMetrics{}
	uc := payments.NewWebhookUseCase(verifier, db, db.Store().Webhooks, m, logger.Nop())
	return &webhookFixture{db: db, uc: uc, verifier: verifier, metrics: m, rep: rep, lead: lead}
}

func transactionEvent(t *testing.T, txID, status string, cents int64, leadID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": payments.EventTransactionUpdated,
		"data": map[string]any{
			"id":              txID,
			"status":          status,
			"amount_in_cents": cents,
			"reference":       "ref-" + txID,
			"metadata":        map[string]any{"lead_id": leadID, "bar_name": "La Terraza"},
		},
	})
	require.NoError(t, err)
	return body
}

func (f *webhookFixture) deliver(t *testing.T, body []byte) error {
	t.Helper()
	return f.uc.Handle(context.Background(), body, f.verifier.Sign(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago aprobado
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_AprobadoCausaComisionYActivaLead(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)

	require.NoError(t, f.deliver(t, transactionEvent(t, "tx-1", payments.StatusApproved, 10_000_000, f.lead.ID)))

	comms := f.db.Commissions()
	require.Len(t, comms, 1)
	c := comms[0]
	assert.True(t, decimal.NewFromInt(100000).Equal(c.Monto), "monto bruto en COP: %s", c.Monto)
	assert.True(t, decimal.NewFromInt(15000).Equal(c.MontoNeto), "neto 15%%: %s", c.MontoNeto)
	assert.Equal(t, commission.StatusCausada, c.Estado)
	assert.Equal(t, commission.TypeDirecta, c.Tipo)
	assert.Equal(t, "Suscripción La Terraza", c.Concepto)
	assert.Equal(t, "tx-1", c.TransaccionID)
	assert.Equal(t, f.rep.ID, c.ComercialID)

	assert.Equal(t, pipeline.Activo, f.db.Leads()[0].Etapa)

	hist := f.db.History()
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryPagoAprobado, hist[0].Tipo)
	assert.Equal(t, entity.ActorWompi, hist[0].Actor)
	assert.Contains(t, hist[0].Descripcion, "Transacción: tx-1")

	notes := f.db.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationComisionCausada, notes[0].Tipo)
	assert.Equal(t, "carlos@wingman.co", notes[0].Destinatario)

	events := f.db.WebhookEvents()
	require.Len(t, events, 1)
	assert.NotNil(t, events[0].ProcessedAt)

	assert.Equal(t, 1, f.metrics.caused)
	assert.Equal(t, []string{"transaction.updated:caused"}, f.metrics.results)
}

func TestWebhook_AprobadoDosVecesUnaSolaComision(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body := transactionEvent(t, "tx-dup", payments.StatusApproved, 10_000_000, f.lead.ID)

	require.NoError(t, f.deliver(t, body))
	require.NoError(t, f.deliver(t, body))

	assert.Len(t, f.db.Commissions(), 1)
	assert.Len(t, f.db.History(), 1)
	assert.Len(t, f.db.Notifications(), 1)
	assert.Equal(t, []string{"transaction.updated:caused", "transaction.updated:duplicate"}, f.metrics.results)
}

func TestWebhook_AprobadoConcurrenteUnaSolaComision(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body := transactionEvent(t, "tx-conc", payments.StatusApproved, 10_000_000, f.lead.ID)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.deliver(t, body))
		}()
	}
	wg.Wait()

	assert.Len(t, f.db.Commissions(), 1)
}

// Un lead ya activo no cambia de etapa pero sí causa comisión (renovación del pago).
func TestWebhook_AprobadoLeadYaActivo(t *testing.T) {
	f := newWebhookFixture(t, pipeline.Suscripcion)

	require.NoError(t, f.deliver(t, transactionEvent(t, "tx-2", payments.StatusApproved, 5_000_000, f.lead.ID)))

	assert.Len(t, f.db.Commissions(), 1)
	assert.Equal(t, pipeline.Suscripcion, f.db.Leads()[0].Etapa)
	assert.Empty(t, f.db.History()[0].EtapaNueva)
}

// ──────────────────────────────────────────────────────────────────────────────
// Firma y cuerpo
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_CuerpoAlteradoRechazado(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body := transactionEvent(t, "tx-3", payments.StatusApproved, 10_000_000, f.lead.ID)
	sig := f.verifier.Sign(body)
	altered := transactionEvent(t, "tx-3", payments.StatusApproved, 99_000_000, f.lead.ID)

	err := f.uc.Handle(context.Background(), altered, sig)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Empty(t, f.db.Commissions())
	assert.Empty(t, f.db.WebhookEvents())
	assert.Equal(t, pipeline.DemoRealizada, f.db.Leads()[0].Etapa)
}

func TestWebhook_SinFirmaRechazado(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body := transactionEvent(t, "tx-4", payments.StatusApproved, 10_000_000, f.lead.ID)
	assert.ErrorIs(t, f.uc.Handle(context.Background(), body, ""), domain.ErrInvalidSignature)
}

func TestWebhook_JSONInvalido(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body := []byte(`{"event":`)
	assert.ErrorIs(t, f.deliver(t, body), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazo, eventos informativos y fallos
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_RechazadoSoloHistorialYAviso(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)

	require.NoError(t, f.deliver(t, transactionEvent(t, "tx-5", payments.StatusDeclined, 10_000_000, f.lead.ID)))

	assert.Empty(t, f.db.Commissions())
	assert.Equal(t, pipeline.DemoRealizada, f.db.Leads()[0].Etapa)
	hist := f.db.History()
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryPagoRechazado, hist[0].Tipo)
	notes := f.db.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationPagoRechazado, notes[0].Tipo)
	assert.Equal(t, []string{"transaction.updated:declined"}, f.metrics.results)
}

func TestWebhook_EventoDeLinkSoloSeRegistra(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body, err := json.Marshal(map[string]any{
		"event": payments.EventPaymentLinkCompleted,
		"data":  map[string]any{"id": "link-1", "status": "COMPLETED"},
	})
	require.NoError(t, err)

	require.NoError(t, f.deliver(t, body))

	assert.Empty(t, f.db.Commissions())
	events := f.db.WebhookEvents()
	require.Len(t, events, 1)
	assert.Equal(t, payments.EventPaymentLinkCompleted, events[0].EventType)
	assert.Equal(t, []string{"payment_link.completed:ignored"}, f.metrics.results)
}

// Un fallo interno no se propaga: queda registrado y el reintento de la pasarela lo reprocesa.
func TestWebhook_FalloSeRegistraYReintentoProcesa(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)
	body := transactionEvent(t, "tx-6", payments.StatusApproved, 10_000_000, f.lead.ID)
	f.db.FailOn("commissions.create", errors.New("deadlock detectado"))

	require.NoError(t, f.deliver(t, body))

	assert.Empty(t, f.db.Commissions())
	assert.Equal(t, pipeline.DemoRealizada, f.db.Leads()[0].Etapa, "la activación se revierte con la comisión")
	events := f.db.WebhookEvents()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].ProcessedAt)
	assert.Contains(t, events[0].ProcessingError, "deadlock detectado")

	f.db.ClearFailures()
	require.NoError(t, f.deliver(t, body))

	assert.Len(t, f.db.Commissions(), 1)
	assert.Equal(t, pipeline.Activo, f.db.Leads()[0].Etapa)
	events = f.db.WebhookEvents()
	require.Len(t, events, 1, "el reintento reutiliza el registro fallido")
	assert.NotNil(t, events[0].ProcessedAt)
	assert.Empty(t, events[0].ProcessingError)
}

func TestWebhook_AprobadoSinLeadIDQuedaFallido(t *testing.T) {
	f := newWebhookFixture(t, pipeline.DemoRealizada)

	require.NoError(t, f.deliver(t, transactionEvent(t, "tx-7", payments.StatusApproved, 10_000_000, "")))

	assert.Empty(t, f.db.Commissions())
	events := f.db.WebhookEvents()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].ProcessingError, "lead_id")
	assert.Equal(t, []string{"transaction.updated:error"}, f.metrics.results)
}
