package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/commission"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/logger"
	"github.com/jhoicas/wingman-crm/pkg/money"
)

// Eventos y estados de Wompi.
const (
	EventTransactionUpdated   = "transaction.updated"
	EventPaymentLinkCompleted = "payment_link.completed"
	EventPaymentLinkExpired   = "payment_link.expired"

	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
)

// Resultados reportados a métricas.
const (
	resultCaused    = "caused"
	resultDeclined  = "declined"
	resultDuplicate = "duplicate"
	resultIgnored   = "ignored"
	resultError     = "error"
	resultRejected  = "rejected"
)

// WebhookUseCase verifica y procesa callbacks de la pasarela.
type WebhookUseCase struct {
	verifier ports.WebhookVerifier
	tx       ports.TxRunner
	webhooks repository.WebhookEventRepository
	metrics  ports.WebhookMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewWebhookUseCase construye el caso de uso.
func NewWebhookUseCase(
	verifier ports.WebhookVerifier,
	tx ports.TxRunner,
	webhooks repository.WebhookEventRepository,
	metrics ports.WebhookMetrics,
	log *logger.Logger,
) *WebhookUseCase {
	return &WebhookUseCase{verifier: verifier, tx: tx, webhooks: webhooks, metrics: metrics, log: log, now: time.Now}
}

// Handle verifica la firma sobre el cuerpo crudo y despacha el evento.
// Devuelve domain.ErrInvalidSignature (401) o domain.ErrInvalidInput (cuerpo ilegible); cualquier
// error posterior se registra y no se propaga, para que la pasarela no reintente en bucle.
func (uc *WebhookUseCase) Handle(ctx context.Context, body []byte, signature string) error {
	if signature == "" || !uc.verifier.Verify(body, signature) {
		uc.metrics.WebhookProcessed("unknown", resultRejected)
		return domain.ErrInvalidSignature
	}
	var ev dto.WompiEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: cuerpo de webhook inválido: %v", domain.ErrInvalidInput, err)
	}

	log := uc.log.With().Str("event", ev.Event).Str("transaction_id", ev.Data.ID).Str("status", ev.Data.Status).Logger()
	rec := &entity.WebhookEvent{
		ID:              uuid.New().String(),
		Provider:        entity.ProviderWompi,
		EventType:       ev.Event,
		ProviderEventID: ev.Data.ID,
		Status:          ev.Data.Status,
		Payload:         body,
		ReceivedAt:      uc.now(),
	}

	var (
		result string
		err    error
	)
	switch {
	case ev.Event == EventTransactionUpdated && ev.Data.Status == StatusApproved:
		result, err = uc.approved(ctx, rec, ev.Data)
	case ev.Event == EventTransactionUpdated && ev.Data.Status == StatusDeclined:
		result, err = uc.declined(ctx, rec, ev.Data)
	default:
		// payment_link.completed / payment_link.expired / otros estados: solo quedan registrados.
		result, err = uc.recordOnly(ctx, rec)
	}

	switch {
	case errors.Is(err, domain.ErrAlreadyProcessed):
		result = resultDuplicate
		log.Info().Msg("webhook: evento duplicado, se ignora")
	case err != nil:
		result = resultError
		log.Error().Err(err).Str("lead_id", ev.Data.MetadataString("lead_id")).Msg("webhook: error procesando evento")
		uc.recordFailure(ctx, rec, err)
	default:
		log.Info().Str("result", result).Msg("webhook: evento procesado")
	}
	uc.metrics.WebhookProcessed(ev.Event, result)
	return nil
}

// approved activa el lead y causa la comisión en una sola transacción.
func (uc *WebhookUseCase) approved(ctx context.Context, rec *entity.WebhookEvent, data dto.WompiEventData) (string, error) {
	leadID := data.MetadataString("lead_id")
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		inserted, err := s.Webhooks.Record(ctx, rec)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrAlreadyProcessed
		}
		if leadID == "" {
			return fmt.Errorf("%w: transacción sin metadata.lead_id", domain.ErrInvalidInput)
		}
		lead, err := s.Leads.GetForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return fmt.Errorf("lead %s: %w", leadID, domain.ErrNotFound)
		}

		now := uc.now()
		barName := lead.BarName
		if barName == "" {
			barName = data.MetadataString("bar_name")
		}
		gross := money.FromCents(data.AmountInCents)
		c := &entity.Commission{
			ID:             uuid.New().String(),
			ComercialID:    lead.OwnerID,
			LeadID:         lead.ID,
			Tipo:           commission.TypeDirecta,
			Monto:          gross,
			MontoNeto:      commission.NetAmount(gross),
			Concepto:       "Suscripción " + barName,
			Estado:         commission.StatusCausada,
			FechaCausacion: now,
			TransaccionID:  data.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Commissions.Create(ctx, c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrAlreadyProcessed
			}
			return fmt.Errorf("crear comisión: %w", err)
		}

		from := lead.Etapa
		next, changed := pipeline.Activation(from)
		if changed {
			if err := s.Leads.UpdateStage(ctx, lead.ID, next, lead.Score); err != nil {
				return fmt.Errorf("activar lead: %w", err)
			}
		}
		h := entity.NewLeadHistory(lead.ID, entity.HistoryPagoAprobado, entity.ActorWompi,
			fmt.Sprintf("Pago aprobado - Transacción: %s. Monto: %s. Estado: %s", data.ID, money.FormatCOP(gross), next), now).
			WithMetadata(map[string]any{
				"transaction_id":  data.ID,
				"amount_in_cents": data.AmountInCents,
				"commission_id":   c.ID,
			})
		if changed {
			h.WithStages(from.String(), next.String())
		}
		if err := s.History.Append(ctx, h); err != nil {
			return err
		}
		if lead.OwnerEmail != "" {
			n := newNotification(entity.NotificationComisionCausada, lead.OwnerEmail,
				"Comisión causada: "+c.Concepto,
				fmt.Sprintf("Hola %s,\n\nEl pago de %s fue aprobado (transacción %s).\nSe causó una comisión de %s por %s.\n\nWingman CRM",
					lead.OwnerNombre, barName, data.ID, money.FormatCOP(c.MontoNeto), c.Concepto), now)
			if err := s.Notifications.Enqueue(ctx, n); err != nil {
				return err
			}
		}
		return s.Webhooks.MarkProcessed(ctx, rec.ID)
	})
	if err != nil {
		return "", err
	}
	uc.metrics.CommissionCaused()
	return resultCaused, nil
}

// declined deja constancia en el historial y avisa al comercial; no cambia etapa ni causa comisión.
func (uc *WebhookUseCase) declined(ctx context.Context, rec *entity.WebhookEvent, data dto.WompiEventData) (string, error) {
	leadID := data.MetadataString("lead_id")
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		inserted, err := s.Webhooks.Record(ctx, rec)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrAlreadyProcessed
		}
		if leadID == "" {
			uc.log.Warn().Str("transaction_id", data.ID).Msg("webhook: pago rechazado sin metadata.lead_id")
			return s.Webhooks.MarkProcessed(ctx, rec.ID)
		}
		lead, err := s.Leads.GetDetail(ctx, leadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return fmt.Errorf("lead %s: %w", leadID, domain.ErrNotFound)
		}
		now := uc.now()
		gross := money.FromCents(data.AmountInCents)
		h := entity.NewLeadHistory(lead.ID, entity.HistoryPagoRechazado, entity.ActorWompi,
			fmt.Sprintf("Pago rechazado - Transacción: %s. Monto: %s", data.ID, money.FormatCOP(gross)), now).
			WithMetadata(map[string]any{"transaction_id": data.ID, "amount_in_cents": data.AmountInCents})
		if err := s.History.Append(ctx, h); err != nil {
			return err
		}
		if lead.OwnerEmail != "" {
			n := newNotification(entity.NotificationPagoRechazado, lead.OwnerEmail,
				"Pago rechazado: "+lead.BarName,
				fmt.Sprintf("Hola %s,\n\nEl pago de %s por %s fue rechazado (transacción %s).\nContacta al cliente para reintentar el pago.\n\nWingman CRM",
					lead.OwnerNombre, lead.BarName, money.FormatCOP(gross), data.ID), now)
			if err := s.Notifications.Enqueue(ctx, n); err != nil {
				return err
			}
		}
		return s.Webhooks.MarkProcessed(ctx, rec.ID)
	})
	if err != nil {
		return "", err
	}
	uc.log.Warn().Str("transaction_id", data.ID).Str("lead_id", leadID).Msg("webhook: pago rechazado")
	return resultDeclined, nil
}

func (uc *WebhookUseCase) recordOnly(ctx context.Context, rec *entity.WebhookEvent) (string, error) {
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		inserted, err := s.Webhooks.Record(ctx, rec)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrAlreadyProcessed
		}
		return s.Webhooks.MarkProcessed(ctx, rec.ID)
	})
	if err != nil {
		return "", err
	}
	return resultIgnored, nil
}

// recordFailure persiste el evento fallido fuera de la transacción revertida.
func (uc *WebhookUseCase) recordFailure(ctx context.Context, rec *entity.WebhookEvent, cause error) {
	if _, err := uc.webhooks.Record(ctx, rec); err != nil {
		uc.log.Error().Err(err).Msg("webhook: no se pudo registrar el evento fallido")
		return
	}
	if err := uc.webhooks.MarkFailed(ctx, rec.ID, cause.Error()); err != nil {
		uc.log.Error().Err(err).Msg("webhook: no se pudo guardar el error de procesamiento")
	}
}

func newNotification(tipo, to, subject, body string, now time.Time) *entity.Notification {
	return &entity.Notification{
		ID:           uuid.New().String(),
		Tipo:         tipo,
		Destinatario: to,
		Asunto:       subject,
		Cuerpo:       body,
		CreatedAt:    now,
	}
}
