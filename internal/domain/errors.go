package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Errores del motor de stock.
	ErrInsufficientStock    = errors.New("stock disponible insuficiente")
	ErrInsufficientReserved = errors.New("stock reservado insuficiente")

	// ErrTransientStore indica un fallo transitorio de la base (timeout, deadlock,
	// serialization failure). La transacción hizo rollback completo; es seguro reintentar.
	ErrTransientStore = errors.New("fallo transitorio del almacenamiento")
)
