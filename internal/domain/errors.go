package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrDocumentFormat   = errors.New("documento fiscal ilegible")
	ErrDocumentTooLarge = errors.New("documento fiscal excede el tamaño permitido")
)
