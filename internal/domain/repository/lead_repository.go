package repository

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
)

// LeadFilter filtros de listado de leads.
type LeadFilter struct {
	OwnerID string         // vacío = todos (admin)
	Etapa   pipeline.Stage // vacío = todas
	Limit   int
	Offset  int
}

// LeadRepository puerto de persistencia para leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetDetail(ctx context.Context, id string) (*entity.LeadDetail, error)
	// GetForUpdate bloquea la fila del lead hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.LeadDetail, error)
	UpdateStage(ctx context.Context, id string, etapa pipeline.Stage, score int) error
	List(ctx context.Context, f LeadFilter) ([]*entity.LeadDetail, error)
	CountByOwner(ctx context.Context, ownerID string, stages []pipeline.Stage) (int, error)
}
