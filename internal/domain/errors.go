package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para que el mensaje
// de usuario viaje junto con el tipo; los handlers los distinguen con errors.Is.
var (
	ErrValidation   = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrStore        = errors.New("error del almacenamiento")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrPartialFailure: una operación de varios pasos falló después de que un paso
	// anterior ya se escribió. Requiere conciliación manual por un operador.
	ErrPartialFailure = errors.New("fallo parcial")

	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrRegistrationClosed = errors.New("el registro de usuarios está deshabilitado")
)

// Validationf construye un error de validación con mensaje de usuario.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf construye un error de conflicto con mensaje de usuario.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// NotFoundf construye un error de recurso inexistente con mensaje de usuario.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// StoreError envuelve un error del driver/almacenamiento conservando el original.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// UserMessage devuelve el texto a mostrar al usuario: el error sin el prefijo del tipo.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrPartialFailure, ErrStore} {
		prefix := kind.Error() + ": "
		if errors.Is(err, kind) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
