package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el Store atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(store repository.Store) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewStore construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewStore(q Querier) repository.Store {
	return repository.Store{
		Bars:          NewBarRepository(q),
		Leads:         NewLeadRepository(q),
		Events:        NewEventRepository(q),
		Commissions:   NewCommissionRepository(q),
		Comerciales:   NewComercialRepository(q),
		Roles:         NewRoleRepository(q),
		History:       NewLeadHistoryRepository(q),
		Webhooks:      NewWebhookEventRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}
