package dto

import "time"

// ValidateNITRequest entrada de POST /api/bars/validate-nit.
type ValidateNITRequest struct {
	NIT string `json:"nit"`
}

// ValidateNITResponse resultado de la verificación de NIT.
type ValidateNITResponse struct {
	Exists                   bool   `json:"exists"`
	NITBase                  string `json:"nit_base,omitempty"`
	BarName                  string `json:"bar_name,omitempty"`
	Contacto                 string `json:"contacto,omitempty"`
	ExistingNIT              string `json:"existing_nit,omitempty"`
	DigitoVerificacionValido bool   `json:"digito_verificacion_valido"`
}

// RegisterBarRequest formulario de registro de bar desde el portal del comercial.
type RegisterBarRequest struct {
	NombreBar        string     `json:"nombre_bar" validate:"required,min=2,max=200"`
	NIT              string     `json:"nit" validate:"omitempty,max=30"`
	ContactoNombre   string     `json:"contacto_nombre" validate:"required,max=200"`
	ContactoTelefono string     `json:"contacto_telefono" validate:"required,max=30"`
	ContactoEmail    string     `json:"contacto_email" validate:"omitempty,email"`
	Direccion        string     `json:"direccion" validate:"required,max=300"`
	Ciudad           string     `json:"ciudad" validate:"required,max=100"`
	Barrio           string     `json:"barrio" validate:"omitempty,max=100"`
	Metodo           string     `json:"metodo" validate:"required,oneof=evento estandar"`
	FechaEvento      *time.Time `json:"fecha_evento"`
	TipoEvento       string     `json:"tipo_evento" validate:"omitempty,max=100"`
	AforoEstimado    *int       `json:"aforo_estimado" validate:"omitempty,min=1,max=100000"`
}

// BarResponse salida de un bar.
type BarResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	NIT              string    `json:"nit,omitempty"`
	Address          string    `json:"address"`
	Ciudad           string    `json:"ciudad"`
	CapacidadOficial *int      `json:"capacidad_oficial,omitempty"`
	ContactoNombre   string    `json:"contacto_nombre"`
	ContactoTelefono string    `json:"contacto_telefono"`
	ContactoEmail    string    `json:"contacto_email,omitempty"`
	AccountStatus    string    `json:"account_status"`
	MotivoRechazo    string    `json:"motivo_rechazo,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RegisterBarData datos creados por el registro.
type RegisterBarData struct {
	Bar   BarResponse    `json:"bar"`
	Lead  LeadSummary    `json:"lead"`
	Event *EventResponse `json:"event"`
}

// RegisterBarResponse salida de POST /api/bars/registro.
type RegisterBarResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    RegisterBarData `json:"data"`
}

// UpdateBarStatusRequest aprobación o rechazo de un bar (admin).
type UpdateBarStatusRequest struct {
	AccountStatus string `json:"account_status" validate:"required,oneof=active rejected"`
	Motivo        string `json:"motivo" validate:"omitempty,max=500"`
}
