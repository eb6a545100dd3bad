package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

// EventUseCase programación y seguimiento de eventos.
type EventUseCase struct {
	events repository.EventRepository
	tx     ports.TxRunner
	now    func() time.Time
}

// NewEventUseCase construye el caso de uso.
func NewEventUseCase(events repository.EventRepository, tx ports.TxRunner) *EventUseCase {
	return &EventUseCase{events: events, tx: tx, now: time.Now}
}

// Schedule crea el evento del lead y, si el lead aún no tiene demo, lo pasa a DEMO_PROG; todo en una transacción.
func (uc *EventUseCase) Schedule(ctx context.Context, p ports.Principal, in dto.ScheduleEventRequest) (*dto.ScheduleEventResponse, error) {
	if strings.TrimSpace(in.LeadID) == "" || in.Fecha == nil {
		return nil, fmt.Errorf("%w: lead_id y fecha son obligatorios", domain.ErrInvalidInput)
	}
	var out dto.ScheduleEventResponse
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		lead, err := lockAccessible(ctx, s, p, in.LeadID)
		if err != nil {
			return err
		}
		target, err := pipeline.ScheduleTarget(lead.Etapa)
		if err != nil {
			return err
		}
		now := uc.now()
		ev := newEvent(in, lead, now)
		if err := s.Events.Create(ctx, ev); err != nil {
			return fmt.Errorf("crear evento: %w", err)
		}
		h := entity.NewLeadHistory(lead.ID, entity.HistoryEventoProgramado, p.ActorID(),
			fmt.Sprintf("Evento programado: %s, fecha %s", ev.Titulo, ev.Fecha.Format(noteTimeLayout)), now).
			WithMetadata(map[string]any{"evento_id": ev.ID})
		if target != lead.Etapa {
			if err := s.Leads.UpdateStage(ctx, lead.ID, target, lead.Score); err != nil {
				return fmt.Errorf("actualizar lead: %w", err)
			}
			h.WithStages(lead.Etapa.String(), target.String())
			lead.Etapa = target
		}
		if err := s.History.Append(ctx, h); err != nil {
			return err
		}
		out = dto.ScheduleEventResponse{
			Success: true,
			Event:   dto.NewEventResponse(ev),
			Lead:    dto.LeadSummary{ID: lead.ID, Etapa: lead.Etapa.String(), Score: lead.Score},
			Message: "Evento programado exitosamente",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus cambia el estado de un evento (PROGRAMADO → EN_CURSO → COMPLETADO, o CANCELADO).
func (uc *EventUseCase) UpdateStatus(ctx context.Context, p ports.Principal, id string, in dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
	ev, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, domain.ErrNotFound
	}
	if !p.CanAccess(ev.ComercialID) {
		return nil, domain.ErrForbidden
	}
	if !ev.CanMoveTo(in.Estado) {
		return nil, fmt.Errorf("%w: evento %s -> %s", domain.ErrInvalidTransition, ev.Estado, in.Estado)
	}
	if err := uc.events.UpdateStatus(ctx, id, in.Estado); err != nil {
		return nil, err
	}
	ev.Estado = in.Estado
	out := dto.NewEventResponse(ev)
	return &out, nil
}

// List eventos del comercial; upcoming limita a eventos desde ahora.
func (uc *EventUseCase) List(ctx context.Context, p ports.Principal, upcoming bool, limit int) ([]dto.EventResponse, error) {
	if p.ComercialID == "" {
		return nil, domain.ErrComercialNotFound
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var from *time.Time
	if upcoming {
		now := uc.now()
		from = &now
	}
	events, err := uc.events.ListByComercial(ctx, p.ComercialID, from, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.NewEventResponse(e))
	}
	return out, nil
}

func newEvent(in dto.ScheduleEventRequest, lead *entity.LeadDetail, now time.Time) *entity.Event {
	barName := lead.BarName
	if barName == "" {
		barName = in.BarName
	}
	titulo := strings.TrimSpace(in.Titulo)
	if titulo == "" {
		titulo = "Demo - " + barName
	}
	ubicacion := strings.TrimSpace(in.Ubicacion)
	if ubicacion == "" {
		ubicacion = lead.BarAddress
	}
	return &entity.Event{
		ID:            uuid.New().String(),
		BarID:         lead.BarID,
		ComercialID:   lead.OwnerID,
		LeadID:        lead.ID,
		Titulo:        titulo,
		Fecha:         *in.Fecha,
		CapacidadMeta: in.CapacidadMeta,
		Ubicacion:     ubicacion,
		Descripcion:   strings.TrimSpace(in.Descripcion),
		Estado:        entity.EventStatusProgramado,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
