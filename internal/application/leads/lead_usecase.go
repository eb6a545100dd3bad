package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

// DefaultLostReason motivo por defecto al marcar un lead como perdido.
const DefaultLostReason = "Negociación no exitosa"

// LeadUseCase consultas y transiciones de etapa de leads.
type LeadUseCase struct {
	leads   repository.LeadRepository
	history repository.LeadHistoryRepository
	tx      ports.TxRunner
	now     func() time.Time
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leads repository.LeadRepository, history repository.LeadHistoryRepository, tx ports.TxRunner) *LeadUseCase {
	return &LeadUseCase{leads: leads, history: history, tx: tx, now: time.Now}
}

// List lista los leads del comercial (o todos si es admin), opcionalmente filtrados por etapa.
func (uc *LeadUseCase) List(ctx context.Context, p ports.Principal, in dto.ListLeadsRequest) ([]dto.LeadResponse, error) {
	in.DefaultPage()
	f := repository.LeadFilter{Limit: in.Limit, Offset: in.Offset}
	if !p.IsAdmin() {
		if p.ComercialID == "" {
			return nil, domain.ErrComercialNotFound
		}
		f.OwnerID = p.ComercialID
	}
	if in.Etapa != "" {
		st, err := pipeline.Parse(in.Etapa)
		if err != nil {
			return nil, err
		}
		f.Etapa = st
	}
	leads, err := uc.leads.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, dto.NewLeadResponse(l))
	}
	return out, nil
}

// Get devuelve el detalle con la nota de registro y el historial en texto.
func (uc *LeadUseCase) Get(ctx context.Context, p ports.Principal, id string) (*dto.LeadResponse, error) {
	lead, err := uc.accessible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	hist, err := uc.history.ListByLead(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewLeadResponse(lead)
	out.Nota = RenderNoteLog(lead.Nota, hist)
	return &out, nil
}

// History devuelve el historial estructurado del lead en orden cronológico.
func (uc *LeadUseCase) History(ctx context.Context, p ports.Principal, id string) ([]dto.LeadHistoryResponse, error) {
	if _, err := uc.accessible(ctx, p, id); err != nil {
		return nil, err
	}
	hist, err := uc.history.ListByLead(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadHistoryResponse, 0, len(hist))
	for _, h := range hist {
		out = append(out, dto.NewLeadHistoryResponse(h))
	}
	return out, nil
}

// ChangeStage aplica un cambio manual de etapa validado contra la tabla de transiciones.
// La misma etapa es un no-op. PERDIDO se trata como MarkLost con el motivo por defecto.
func (uc *LeadUseCase) ChangeStage(ctx context.Context, p ports.Principal, id string, in dto.ChangeStageRequest) (*dto.LeadResponse, error) {
	to, err := pipeline.Parse(in.Etapa)
	if err != nil {
		return nil, err
	}
	if to == pipeline.Perdido {
		return uc.MarkLost(ctx, p, id, "")
	}
	var out dto.LeadResponse
	err = uc.tx.Run(ctx, func(s repository.Store) error {
		lead, err := lockAccessible(ctx, s, p, id)
		if err != nil {
			return err
		}
		from := lead.Etapa
		if from != to {
			if err := pipeline.ValidateManual(from, to); err != nil {
				return err
			}
			if err := s.Leads.UpdateStage(ctx, id, to, lead.Score); err != nil {
				return err
			}
			now := uc.now()
			h := entity.NewLeadHistory(id, entity.HistoryCambioEtapa, p.ActorID(),
				fmt.Sprintf("Etapa actualizada: %s → %s", from, to), now).
				WithStages(from.String(), to.String())
			if err := s.History.Append(ctx, h); err != nil {
				return err
			}
			lead.Etapa = to
			lead.UpdatedAt = now
		}
		out = dto.NewLeadResponse(lead)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkLost pasa el lead a PERDIDO registrando el motivo.
func (uc *LeadUseCase) MarkLost(ctx context.Context, p ports.Principal, id, reason string) (*dto.LeadResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultLostReason
	}
	var out dto.LeadResponse
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		lead, err := lockAccessible(ctx, s, p, id)
		if err != nil {
			return err
		}
		if err := pipeline.ValidateLost(lead.Etapa); err != nil {
			return err
		}
		if err := s.Leads.UpdateStage(ctx, id, pipeline.Perdido, lead.Score); err != nil {
			return err
		}
		now := uc.now()
		h := entity.NewLeadHistory(id, entity.HistoryPerdido, p.ActorID(), "Lead marcado como perdido. Motivo: "+reason, now).
			WithStages(lead.Etapa.String(), pipeline.Perdido.String()).
			WithMetadata(map[string]any{"reason": reason})
		if err := s.History.Append(ctx, h); err != nil {
			return err
		}
		lead.Etapa = pipeline.Perdido
		lead.UpdatedAt = now
		out = dto.NewLeadResponse(lead)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *LeadUseCase) accessible(ctx context.Context, p ports.Principal, id string) (*entity.LeadDetail, error) {
	lead, err := uc.leads.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	if !p.CanAccess(lead.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return lead, nil
}

// lockAccessible bloquea el lead dentro de la transacción y valida que el principal pueda operarlo.
func lockAccessible(ctx context.Context, s repository.Store, p ports.Principal, id string) (*entity.LeadDetail, error) {
	lead, err := s.Leads.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	if !p.CanAccess(lead.OwnerID) {
		return nil, domain.ErrForbidden
	}
	return lead, nil
}
