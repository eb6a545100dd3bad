package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/payments"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

// fakeGateway captura la solicitud y devuelve link o error fijo.
type fakeGateway struct {
	got  ports.PaymentLinkRequest
	link *ports.PaymentLink
	err  error
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, req ports.PaymentLinkRequest) (*ports.PaymentLink, error) {
	g.got = req
	return g.link, g.err
}

func newLinkUC(db *memory.DB, gw ports.PaymentGateway, m ports.WebhookMetrics) *payments.PaymentLinkUseCase {
	s := db.Store()
	return payments.NewPaymentLinkUseCase(s.Leads, s.History, gw, m, payments.LinkConfig{
		AppURL:        "https://crm.wingman.co",
		DefaultAmount: 100000,
		Timeout:       time.Second,
	}, logger.Nop())
}

func TestPaymentLink_CreaLinkConMetadataDelLead(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.DemoRealizada)
	gw := &fakeGateway{link: &ports.PaymentLink{ID: "lnk_123", CheckoutURL: "https://checkout.wompi.co/l/lnk_123"}}
	m := &recordingMetrics{}

	out, err := newLinkUC(db, gw, m).Create(context.Background(),
		ports.Principal{ComercialID: rep.ID, Role: entity.RoleComercial},
		dto.CreatePaymentLinkRequest{LeadID: lead.ID, BarName: "La Terraza"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "https://checkout.wompi.co/l/lnk_123", out.PaymentLink)
	assert.Equal(t, "lnk_123", out.PaymentID)

	assert.Equal(t, int64(10_000_000), gw.got.AmountInCents, "monto por defecto en centavos")
	assert.Equal(t, "COP", gw.got.Currency)
	assert.Equal(t, lead.ID, gw.got.Metadata["lead_id"])
	assert.Equal(t, "La Terraza", gw.got.Metadata["bar_name"])
	assert.Contains(t, gw.got.RedirectURL, "https://crm.wingman.co/comercial/payment-success?lead=")
	assert.Equal(t, lead.NombreContacto, gw.got.CustomerName)

	hist := db.History()
	require.Len(t, hist, 1)
	assert.Equal(t, entity.HistoryLinkPago, hist[0].Tipo)
	assert.Equal(t, []string{"ok"}, m.links)
}

func TestPaymentLink_ErrorDelProveedorSePropaga(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	_, lead := db.SeedLead(rep.ID, "La Terraza", pipeline.DemoRealizada)
	provErr := &ports.ProviderError{Provider: "wompi", StatusCode: 422, Body: []byte(`{"error":{"type":"INPUT_VALIDATION_ERROR"}}`)}
	gw := &fakeGateway{err: provErr}
	m := &recordingMetrics{}

	_, err := newLinkUC(db, gw, m).Create(context.Background(),
		ports.Principal{ComercialID: rep.ID, Role: entity.RoleComercial},
		dto.CreatePaymentLinkRequest{LeadID: lead.ID, BarName: "La Terraza", Amount: 50000})
	require.Error(t, err)
	assert.Same(t, provErr, err)
	assert.Equal(t, int64(5_000_000), gw.got.AmountInCents)
	assert.Empty(t, db.History())
	assert.Equal(t, []string{"error"}, m.links)
}

func TestPaymentLink_LeadAjeno(t *testing.T) {
	db := memory.New()
	owner := db.SeedComercial("Carlos", "carlos@wingman.co")
	other := db.SeedComercial("Lucía", "lucia@wingman.co")
	_, lead := db.SeedLead(owner.ID, "La Terraza", pipeline.DemoRealizada)

	_, err := newLinkUC(db, &fakeGateway{}, ports.NopMetrics{}).Create(context.Background(),
		ports.Principal{ComercialID: other.ID, Role: entity.RoleComercial},
		dto.CreatePaymentLinkRequest{LeadID: lead.ID, BarName: "La Terraza"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = newLinkUC(db, &fakeGateway{}, ports.NopMetrics{}).Create(context.Background(),
		ports.Principal{ComercialID: other.ID, Role: entity.RoleComercial},
		dto.CreatePaymentLinkRequest{LeadID: "no-existe", BarName: "La Terraza"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
