package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidLine       = errors.New("línea inválida: cantidad o precio fuera de rango")
	ErrDuplicateCode     = errors.New("el código de ítem ya existe")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Órdenes de compra
	ErrOverReceipt       = errors.New("la cantidad recibida supera la cantidad ordenada")
	ErrAlreadyReceived   = errors.New("la orden de compra ya fue recibida")
	ErrOrderCancelled    = errors.New("la orden de compra está cancelada")
	ErrInvalidTransition = errors.New("transición de estado no permitida")

	// Requerimientos
	ErrAlreadyCompleted = errors.New("el requerimiento ya está completado")
	ErrAlreadyIssued    = errors.New("la línea ya fue entregada en su totalidad")

	// ErrTransient marca fallas de infraestructura que el llamador puede reintentar
	// (serialización, deadlock, conexión caída). Se compara con errors.Is.
	ErrTransient = errors.New("falla transitoria del almacén")
)
