package repository

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// BarRepository puerto de persistencia para bares.
type BarRepository interface {
	// Create persiste el bar. Un NIT base repetido devuelve domain.ErrDuplicateNIT.
	Create(ctx context.Context, bar *entity.Bar) error
	GetByID(ctx context.Context, id string) (*entity.Bar, error)
	// FindByNITBase busca un bar cuyo NIT (antes del "-", sin espacios) sea igual a base.
	FindByNITBase(ctx context.Context, base string) (*entity.Bar, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Bar, error)
	UpdateStatus(ctx context.Context, id, status, motivo string) error
}
