package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrRowNotFound     = errors.New("fila no encontrada en el documento")
	ErrImportInFlight  = errors.New("ya hay una importación CSV en curso")
	ErrImportRejected  = errors.New("importación CSV rechazada por el servidor")
	ErrSubmitRejected  = errors.New("el servidor rechazó el envío del documento")
	ErrNotModifiable   = errors.New("el documento no está en modo edición")
	ErrMissingVendor   = errors.New("se requiere un proveedor para esta operación")
)
