package registration

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/logger"
	"github.com/jhoicas/wingman-crm/pkg/phone"
)

// Score inicial del lead según el método de registro.
const (
	ScoreStandard  = 75
	ScoreWithEvent = 85
)

const metodoEvento = "evento"

// RegisterBarUseCase registra un bar con su lead y, opcionalmente, su primer evento.
type RegisterBarUseCase struct {
	tx  ports.TxRunner
	nit *NITCheckUseCase
	log *logger.Logger
	now func() time.Time
}

// NewRegisterBarUseCase construye el caso de uso.
func NewRegisterBarUseCase(tx ports.TxRunner, nitCheck *NITCheckUseCase, log *logger.Logger) *RegisterBarUseCase {
	return &RegisterBarUseCase{tx: tx, nit: nitCheck, log: log, now: time.Now}
}

// Register crea Bar + Lead en una transacción. Si el método es "evento" con fecha, crea el evento
// en una segunda transacción que además pasa el lead a DEMO_PROG; si esa falla el registro sigue siendo exitoso.
func (uc *RegisterBarUseCase) Register(ctx context.Context, comercialID string, in dto.RegisterBarRequest) (*dto.RegisterBarResponse, error) {
	if comercialID == "" {
		return nil, domain.ErrComercialNotFound
	}
	in.NIT = strings.TrimSpace(in.NIT)
	if in.NIT != "" {
		if err := uc.nit.ensureAvailable(ctx, in.NIT); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	withEvent := in.Metodo == metodoEvento && in.FechaEvento != nil
	bar := newBar(in, now)
	lead := &entity.Lead{
		ID:               uuid.New().String(),
		BarID:            bar.ID,
		OwnerID:          comercialID,
		Source:           entity.LeadSourceWebform,
		NombreContacto:   in.ContactoNombre,
		EmailContacto:    in.ContactoEmail,
		TelefonoContacto: bar.ContactoTelefono,
		Ciudad:           in.Ciudad,
		Nota:             registrationNote(in),
		Score:            ScoreStandard,
		Etapa:            pipeline.Prospecto,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := uc.tx.Run(ctx, func(s repository.Store) error {
		if err := s.Bars.Create(ctx, bar); err != nil {
			return fmt.Errorf("crear bar: %w", err)
		}
		if err := s.Leads.Create(ctx, lead); err != nil {
			return fmt.Errorf("crear lead: %w", err)
		}
		h := entity.NewLeadHistory(lead.ID, entity.HistoryRegistro, comercialID, lead.Nota, now).
			WithStages("", lead.Etapa.String())
		return s.History.Append(ctx, h)
	})
	if err != nil {
		return nil, err
	}

	out := &dto.RegisterBarResponse{
		Success: true,
		Message: "Bar registrado exitosamente",
		Data: dto.RegisterBarData{
			Bar: dto.NewBarResponse(bar),
		},
	}

	if withEvent {
		ev, err := uc.scheduleInitialEvent(ctx, in, bar, lead, comercialID)
		if err != nil {
			uc.log.Warn().Err(err).Str("bar_id", bar.ID).Str("lead_id", lead.ID).
				Msg("registro: no se pudo crear el evento inicial, el bar y el lead quedan registrados")
		} else {
			evDTO := dto.NewEventResponse(ev)
			out.Data.Event = &evDTO
		}
	}
	out.Data.Lead = dto.LeadSummary{ID: lead.ID, Etapa: lead.Etapa.String(), Score: lead.Score}
	return out, nil
}

// scheduleInitialEvent crea el evento del registro y avanza el lead; actualiza lead en memoria solo si hay commit.
func (uc *RegisterBarUseCase) scheduleInitialEvent(ctx context.Context, in dto.RegisterBarRequest, bar *entity.Bar, lead *entity.Lead, comercialID string) (*entity.Event, error) {
	now := uc.now()
	tipo := strings.TrimSpace(in.TipoEvento)
	if tipo == "" {
		tipo = "Evento"
	}
	ev := &entity.Event{
		ID:            uuid.New().String(),
		BarID:         bar.ID,
		ComercialID:   comercialID,
		LeadID:        lead.ID,
		Titulo:        fmt.Sprintf("%s - %s", tipo, bar.Name),
		Fecha:         *in.FechaEvento,
		CapacidadMeta: in.AforoEstimado,
		Ubicacion:     bar.Address,
		Estado:        entity.EventStatusProgramado,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		if err := s.Events.Create(ctx, ev); err != nil {
			return fmt.Errorf("crear evento: %w", err)
		}
		if err := s.Leads.UpdateStage(ctx, lead.ID, pipeline.DemoProgramada, ScoreWithEvent); err != nil {
			return fmt.Errorf("actualizar lead: %w", err)
		}
		h := entity.NewLeadHistory(lead.ID, entity.HistoryEventoProgramado, comercialID,
			fmt.Sprintf("Evento programado: %s, fecha %s", ev.Titulo, ev.Fecha.Format(time.RFC3339)), now).
			WithStages(lead.Etapa.String(), pipeline.DemoProgramada.String()).
			WithMetadata(map[string]any{"evento_id": ev.ID})
		return s.History.Append(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	lead.Etapa = pipeline.DemoProgramada
	lead.Score = ScoreWithEvent
	return ev, nil
}

func newBar(in dto.RegisterBarRequest, now time.Time) *entity.Bar {
	address := strings.TrimSpace(in.Direccion)
	if b := strings.TrimSpace(in.Barrio); b != "" {
		address += ", " + b
	}
	metodo := "Estándar"
	if in.Metodo == metodoEvento {
		metodo = "Con Evento"
	}
	return &entity.Bar{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.NombreBar),
		NIT:              in.NIT,
		Address:          address,
		Ciudad:           in.Ciudad,
		CapacidadOficial: in.AforoEstimado,
		ContactoNombre:   in.ContactoNombre,
		ContactoTelefono: phone.NormalizeE164(in.ContactoTelefono),
		ContactoEmail:    strings.TrimSpace(in.ContactoEmail),
		Description:      "Bar registrado desde el portal comercial. Método: " + metodo + ".",
		AccountStatus:    entity.BarStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func registrationNote(in dto.RegisterBarRequest) string {
	if in.Metodo != metodoEvento {
		return "Bar registrado desde el portal comercial. Método estándar."
	}
	tipo, aforo := "Sin especificar", "Sin especificar"
	if t := strings.TrimSpace(in.TipoEvento); t != "" {
		tipo = t
	}
	if in.AforoEstimado != nil {
		aforo = strconv.Itoa(*in.AforoEstimado)
	}
	return fmt.Sprintf("Bar registrado desde el portal comercial. Evento: %s, Aforo: %s.", tipo, aforo)
}
