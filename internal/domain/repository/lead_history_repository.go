package repository

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// LeadHistoryRepository historial append-only de un lead.
type LeadHistoryRepository interface {
	Append(ctx context.Context, h *entity.LeadHistory) error
	ListByLead(ctx context.Context, leadID string) ([]*entity.LeadHistory, error)
}
