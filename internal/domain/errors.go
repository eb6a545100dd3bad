package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// Registro de bares
	ErrDuplicateNIT      = errors.New("el NIT base ya está registrado")
	ErrNITCheck          = errors.New("error verificando NIT")
	ErrComercialNotFound = errors.New("comercial no encontrado")

	// Pipeline
	ErrInvalidTransition       = errors.New("transición de etapa no permitida")
	ErrActivationByPaymentOnly = errors.New("la etapa ACTIVO solo se alcanza con un pago confirmado")

	// Webhooks
	ErrInvalidSignature = errors.New("firma de webhook inválida")
	ErrAlreadyProcessed = errors.New("evento ya procesado")
)
