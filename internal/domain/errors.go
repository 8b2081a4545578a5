package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio. Es un conjunto cerrado: los handlers
// lo traducen a status HTTP y lo exponen como "code" en el cuerpo de error.
type Kind string

const (
	KindInvalidArgument     Kind = "INVALID_ARGUMENT"
	KindNotFound            Kind = "NOT_FOUND"
	KindConflict            Kind = "CONFLICT"
	KindInsufficientStock   Kind = "INSUFFICIENT_STOCK"
	KindReferentialConflict Kind = "REFERENTIAL_CONFLICT"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindInternal            Kind = "INTERNAL"
)

// Error es el error de dominio: un Kind, un mensaje legible y opcionalmente la causa.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Kind, de modo que errors.Is(err, ErrNotFound) acepta cualquier
// error NOT_FOUND independientemente del mensaje.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Errores de dominio base (sin dependencias externas).
var (
	ErrInvalidInput        = &Error{Kind: KindInvalidArgument, Message: "entrada inválida"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrConflict            = &Error{Kind: KindConflict, Message: "conflicto con el estado actual"}
	ErrInsufficientStock   = &Error{Kind: KindInsufficientStock, Message: "stock insuficiente"}
	ErrReferentialConflict = &Error{Kind: KindReferentialConflict, Message: "el recurso tiene registros dependientes"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden           = &Error{Kind: KindForbidden, Message: "acceso denegado"}
)

// InvalidArgument construye un error INVALID_ARGUMENT con mensaje propio.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un error NOT_FOUND con mensaje propio.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict construye un error CONFLICT con mensaje propio.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock construye el error de salida mayor al stock disponible.
func InsufficientStock(available, requested int64) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("stock insuficiente. Disponible: %d, solicitado: %d", available, requested),
	}
}

// ReferentialConflict construye el error de borrado bloqueado por dependencias.
func ReferentialConflict(format string, args ...any) *Error {
	return &Error{Kind: KindReferentialConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf devuelve el Kind del error; cualquier error que no sea de dominio es INTERNAL.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf devuelve el mensaje legible de un error de dominio, o "" si no lo es.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
