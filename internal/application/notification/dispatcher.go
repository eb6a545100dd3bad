// Package notification entrega los mensajes del outbox escritos por los casos de uso.
package notification

import (
	"context"
	"time"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

// Config parámetros del despachador.
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Dispatcher reclama lotes pendientes del outbox y los envía por el Mailer.
type Dispatcher struct {
	tx     ports.TxRunner
	mailer ports.Mailer
	cfg    Config
	log    *logger.Logger
}

// NewDispatcher construye el despachador con valores por defecto para los campos en cero.
func NewDispatcher(tx ports.TxRunner, mailer ports.Mailer, cfg Config, log *logger.Logger) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Dispatcher{tx: tx, mailer: mailer, cfg: cfg, log: log}
}

// Run procesa lotes cada PollInterval hasta que ctx se cancele.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.log.Info().Dur("interval", d.cfg.PollInterval).Int("batch", d.cfg.BatchSize).Msg("notifier iniciado")
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("notifier detenido")
			return nil
		case <-ticker.C:
			if _, err := d.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				d.log.Error().Err(err).Msg("notifier: error procesando lote")
			}
		}
	}
}

// ProcessBatch envía un lote dentro de una transacción; las filas quedan bloqueadas
// (SKIP LOCKED) para que varias réplicas no envíen el mismo mensaje. Devuelve cuántos se enviaron.
func (d *Dispatcher) ProcessBatch(ctx context.Context) (int, error) {
	sent := 0
	err := d.tx.Run(ctx, func(s repository.Store) error {
		pending, err := s.Notifications.ClaimPending(ctx, d.cfg.BatchSize, d.cfg.MaxAttempts)
		if err != nil {
			return err
		}
		for _, n := range pending {
			if err := d.mailer.Send(ctx, n.Destinatario, n.Asunto, n.Cuerpo); err != nil {
				d.log.Warn().Err(err).Str("notification_id", n.ID).Int("attempts", n.Attempts+1).Msg("notifier: envío fallido")
				if err := s.Notifications.MarkFailed(ctx, n.ID, err.Error()); err != nil {
					return err
				}
				continue
			}
			if err := s.Notifications.MarkSent(ctx, n.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if sent > 0 {
		d.log.Info().Int("sent", sent).Msg("notifier: lote enviado")
	}
	return sent, nil
}
