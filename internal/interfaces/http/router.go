package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/wingman-crm/internal/application/analytics"
	"github.com/jhoicas/wingman-crm/internal/application/auth"
	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/leads"
	"github.com/jhoicas/wingman-crm/internal/application/payments"
	"github.com/jhoicas/wingman-crm/internal/application/registration"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	NITCheck      *registration.NITCheckUseCase
	RegisterBar   *registration.RegisterBarUseCase
	BarApproval   *registration.BarApprovalUseCase
	LeadUC        *leads.LeadUseCase
	EventUC       *leads.EventUseCase
	PaymentLinkUC *payments.PaymentLinkUseCase
	WebhookUC     *payments.WebhookUseCase
	CommissionUC  *analytics.CommissionUseCase
	DashboardUC   *analytics.DashboardUseCase
	Metrics       http.Handler // opcional; nil = sin /metrics
	Log           *logger.Logger
	// RateLimit máximo de requests por minuto e IP en login, validate-nit y webhook. 0 = sin límite.
	RateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	limit := rateLimit(deps.RateLimit)

	// Auth: login es público; registro y verify-access toman la identidad del Bearer
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limit, authHandler.Login)
	authGroup.Post("/registro", AuthMiddleware(deps.AuthUC), authHandler.Signup)
	authGroup.Get("/verify-access", AuthMiddleware(deps.AuthUC), authHandler.VerifyAccess)

	// Webhook de la pasarela: sin Bearer, autenticado por firma
	paymentHandler := NewPaymentHandler(deps.PaymentLinkUC, deps.WebhookUC)
	api.Post("/webhooks/wompi", limit, paymentHandler.Webhook)

	// Todo lo demás requiere Bearer Token y rol CRM
	requireAuth := AuthMiddleware(deps.AuthUC)
	requireComercial := RequireComercial(deps.AuthUC)

	bars := api.Group("/bars", requireAuth, requireComercial)
	barHandler := NewBarHandler(deps.NITCheck, deps.RegisterBar)
	bars.Post("/validate-nit", limit, barHandler.ValidateNIT)
	bars.Post("/registro", barHandler.Register)

	comercial := api.Group("/comercial", requireAuth, requireComercial)

	leadHandler := NewLeadHandler(deps.LeadUC)
	comercial.Get("/leads", leadHandler.List)
	comercial.Get("/leads/:id", leadHandler.Get)
	comercial.Get("/leads/:id/historial", leadHandler.History)
	comercial.Patch("/leads/:id/etapa", leadHandler.ChangeStage)
	comercial.Post("/leads/:id/perdido", leadHandler.MarkLost)

	eventHandler := NewEventHandler(deps.EventUC)
	comercial.Post("/eventos", eventHandler.Schedule)
	comercial.Get("/eventos", eventHandler.List)
	comercial.Patch("/eventos/:id/estado", eventHandler.UpdateStatus)

	comercial.Post("/payment-links", paymentHandler.CreateLink)

	commissionHandler := NewCommissionHandler(deps.CommissionUC)
	comercial.Get("/comisiones", commissionHandler.List)
	comercial.Get("/comisiones/export", commissionHandler.Export)
	comercial.Get("/payouts", commissionHandler.Payouts)
	comercial.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)

	// Admin
	admin := api.Group("/admin", requireAuth, requireComercial, RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.BarApproval, deps.CommissionUC)
	admin.Get("/bars", adminHandler.ListBars)
	admin.Patch("/bars/:id/estado", adminHandler.UpdateBarStatus)
	admin.Patch("/comisiones/:id/estado", adminHandler.UpdateCommissionStatus)
}

func rateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente más tarde"})
		},
	})
}
