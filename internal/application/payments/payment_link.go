package payments

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/logger"
	"github.com/jhoicas/wingman-crm/pkg/money"
)

const (
	currencyCOP    = "COP"
	metadataSource = "wingman_crm"
)

// LinkConfig parámetros de emisión de links de pago.
type LinkConfig struct {
	AppURL        string        // base del frontend para redirect_url
	DefaultAmount int64         // COP
	Timeout       time.Duration // límite de la llamada a la pasarela
}

// PaymentLinkUseCase emite links de pago alojados por la pasarela y los asocia al lead vía metadata.
type PaymentLinkUseCase struct {
	leads   repository.LeadRepository
	history repository.LeadHistoryRepository
	gateway ports.PaymentGateway
	metrics ports.WebhookMetrics
	cfg     LinkConfig
	log     *logger.Logger
	now     func() time.Time
}

// NewPaymentLinkUseCase construye el caso de uso.
func NewPaymentLinkUseCase(
	leads repository.LeadRepository,
	history repository.LeadHistoryRepository,
	gateway ports.PaymentGateway,
	metrics ports.WebhookMetrics,
	cfg LinkConfig,
	log *logger.Logger,
) *PaymentLinkUseCase {
	if cfg.DefaultAmount <= 0 {
		cfg.DefaultAmount = 100000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &PaymentLinkUseCase{
		leads: leads, history: history, gateway: gateway, metrics: metrics,
		cfg: cfg, log: log, now: time.Now,
	}
}

// Create solicita el link a la pasarela. Errores de la pasarela se devuelven como *ports.ProviderError sin reintentos.
func (uc *PaymentLinkUseCase) Create(ctx context.Context, p ports.Principal, in dto.CreatePaymentLinkRequest) (*dto.PaymentLinkResponse, error) {
	lead, err := uc.leads.GetDetail(ctx, in.LeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	if !p.CanAccess(lead.OwnerID) {
		return nil, domain.ErrForbidden
	}

	amount := in.Amount
	if amount <= 0 {
		amount = uc.cfg.DefaultAmount
	}
	barName := strings.TrimSpace(in.BarName)
	customerName := strings.TrimSpace(in.ContactName)
	if customerName == "" {
		customerName = lead.NombreContacto
	}
	req := ports.PaymentLinkRequest{
		Name:          "Suscripción Wingman - " + barName,
		Description:   fmt.Sprintf("Suscripción mensual a Wingman para %s", barName),
		AmountInCents: money.ToCents(decimal.NewFromInt(amount)),
		Currency:      currencyCOP,
		RedirectURL:   fmt.Sprintf("%s/comercial/payment-success?lead=%s", uc.cfg.AppURL, url.QueryEscape(lead.ID)),
		Metadata: map[string]string{
			"lead_id":  lead.ID,
			"bar_name": barName,
			"source":   metadataSource,
		},
		CustomerEmail: strings.TrimSpace(in.ContactEmail),
		CustomerName:  customerName,
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()
	link, err := uc.gateway.CreatePaymentLink(callCtx, req)
	if err != nil {
		uc.metrics.PaymentLinkIssued("error")
		return nil, err
	}
	uc.metrics.PaymentLinkIssued("ok")

	h := entity.NewLeadHistory(lead.ID, entity.HistoryLinkPago, p.ActorID(),
		fmt.Sprintf("Link de pago generado: %s (ID: %s). Monto: %s", link.CheckoutURL, link.ID, money.FormatCOP(decimal.NewFromInt(amount))), uc.now()).
		WithMetadata(map[string]any{
			"payment_link_id": link.ID,
			"payment_link":    link.CheckoutURL,
			"amount_in_cents": req.AmountInCents,
		})
	if err := uc.history.Append(ctx, h); err != nil {
		uc.log.Warn().Err(err).Str("lead_id", lead.ID).Str("payment_link_id", link.ID).
			Msg("payment link: link creado pero no se registró en el historial")
	}

	return &dto.PaymentLinkResponse{
		Success:     true,
		PaymentLink: link.CheckoutURL,
		PaymentID:   link.ID,
		Message:     "Link de pago generado exitosamente",
	}, nil
}
