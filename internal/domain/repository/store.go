package repository

// Store agrupa los repositorios atados a una misma conexión o transacción.
type Store struct {
	Bars          BarRepository
	Leads         LeadRepository
	Events        EventRepository
	Commissions   CommissionRepository
	Comerciales   ComercialRepository
	Roles         RoleRepository
	History       LeadHistoryRepository
	Webhooks      WebhookEventRepository
	Notifications NotificationRepository
}
