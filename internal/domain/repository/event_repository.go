package repository

import (
	"context"
	"time"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// EventRepository puerto de persistencia para eventos.
type EventRepository interface {
	Create(ctx context.Context, ev *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	UpdateStatus(ctx context.Context, id, estado string) error
	// ListByComercial con from no nulo devuelve solo eventos desde esa fecha, en orden ascendente.
	ListByComercial(ctx context.Context, comercialID string, from *time.Time, limit int) ([]*entity.Event, error)
}
