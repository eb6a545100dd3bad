package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/wingman-crm/internal/application/notification"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/mail"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/wingman-crm/pkg/config"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var mailer ports.Mailer = mail.NewLogSender(log)
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPSender(cfg.SMTP)
		log.Info().Str("host", cfg.SMTP.Host).Int("port", cfg.SMTP.Port).Msg("envío por SMTP")
	} else {
		log.Warn().Msg("SMTP_HOST vacío: las notificaciones solo se registran en log")
	}

	d := notification.NewDispatcher(postgres.NewTxRunner(pool), mailer, notification.Config{
		PollInterval: cfg.Notifier.PollInterval,
		BatchSize:    cfg.Notifier.BatchSize,
		MaxAttempts:  cfg.Notifier.MaxAttempts,
	}, log)

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("notificador finalizado con error")
	}
}
