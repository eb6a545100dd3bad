package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/wingman-crm/internal/application/analytics"
	"github.com/jhoicas/wingman-crm/internal/application/auth"
	"github.com/jhoicas/wingman-crm/internal/application/leads"
	"github.com/jhoicas/wingman-crm/internal/application/payments"
	"github.com/jhoicas/wingman-crm/internal/application/registration"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/metrics"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/supabase"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/wompi"
	httpRouter "github.com/jhoicas/wingman-crm/internal/interfaces/http"
	"github.com/jhoicas/wingman-crm/pkg/config"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	store := postgres.NewStore(pool)
	txRunner := postgres.NewTxRunner(pool)
	prom := metrics.New("wingman")

	wompiClient := wompi.NewClient(cfg.Wompi.APIURL, cfg.Wompi.CheckoutURL, cfg.Wompi.PrivateKey, cfg.Wompi.Timeout)
	verifier := wompi.NewVerifier(cfg.Wompi.EventsSecret)
	if cfg.Wompi.EventsSecret == "" {
		log.Warn().Msg("WOMPI_EVENTS_SECRET vacío: todos los webhooks serán rechazados")
	}
	authClient := supabase.NewAuthClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.JWTSecret, cfg.Supabase.Timeout)

	authUC := auth.NewAuthUseCase(authClient, store.Roles, store.Comerciales, txRunner)
	nitCheckUC := registration.NewNITCheckUseCase(store.Bars)
	registerBarUC := registration.NewRegisterBarUseCase(txRunner, nitCheckUC, log.Component("registration"))
	barApprovalUC := registration.NewBarApprovalUseCase(store.Bars)
	leadUC := leads.NewLeadUseCase(store.Leads, store.History, txRunner)
	eventUC := leads.NewEventUseCase(store.Events, txRunner)
	paymentLinkUC := payments.NewPaymentLinkUseCase(store.Leads, store.History, wompiClient, prom, payments.LinkConfig{
		AppURL:        cfg.App.URL,
		DefaultAmount: cfg.Wompi.DefaultAmount,
		Timeout:       cfg.Wompi.Timeout,
	}, log.Component("payment_links"))
	webhookUC := payments.NewWebhookUseCase(verifier, txRunner, store.Webhooks, prom, log.Component("wompi_webhook"))
	commissionUC := appanalytics.NewCommissionUseCase(store.Commissions)
	dashboardUC := appanalytics.NewDashboardUseCase(store.Leads, store.Commissions, store.Events)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (generar docs/swagger.json con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Wingman CRM API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		NITCheck:      nitCheckUC,
		RegisterBar:   registerBarUC,
		BarApproval:   barApprovalUC,
		LeadUC:        leadUC,
		EventUC:       eventUC,
		PaymentLinkUC: paymentLinkUC,
		WebhookUC:     webhookUC,
		CommissionUC:  commissionUC,
		DashboardUC:   dashboardUC,
		Metrics:       prom.Handler(),
		Log:           log.Component("http"),
		RateLimit:     cfg.HTTP.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
