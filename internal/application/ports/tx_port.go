package ports

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción; los repositorios del Store quedan atados a ella.
// Si fn devuelve error se hace rollback de todas las escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(store repository.Store) error) error
}
