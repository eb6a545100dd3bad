package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ repository.LeadHistoryRepository = (*LeadHistoryRepo)(nil)

// LeadHistoryRepo historial append-only en lead_historial.
type LeadHistoryRepo struct {
	q Querier
}

// NewLeadHistoryRepository construye el adaptador.
func NewLeadHistoryRepository(q Querier) *LeadHistoryRepo {
	return &LeadHistoryRepo{q: q}
}

// Append inserta una entrada; metadata se guarda como JSONB.
func (r *LeadHistoryRepo) Append(ctx context.Context, h *entity.LeadHistory) error {
	var md []byte
	if len(h.Metadata) > 0 {
		b, err := json.Marshal(h.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		md = b
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO lead_historial (id, lead_id, tipo, etapa_anterior, etapa_nueva, descripcion, actor, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.LeadID, h.Tipo, h.EtapaAnterior, h.EtapaNueva, h.Descripcion, h.Actor, md, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead_historial: %w", err)
	}
	return nil
}

// ListByLead devuelve el historial en orden cronológico.
func (r *LeadHistoryRepo) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, lead_id, tipo, etapa_anterior, etapa_nueva, descripcion, actor, metadata, created_at
		FROM lead_historial WHERE lead_id = $1 ORDER BY created_at, id`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead_historial: %w", err)
	}
	defer rows.Close()
	var list []*entity.LeadHistory
	for rows.Next() {
		var (
			h  entity.LeadHistory
			md []byte
		)
		if err := rows.Scan(&h.ID, &h.LeadID, &h.Tipo, &h.EtapaAnterior, &h.EtapaNueva, &h.Descripcion, &h.Actor, &md, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead_historial: %w", err)
		}
		if len(md) > 0 {
			if err := json.Unmarshal(md, &h.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
