package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Types
// ============================================================================

// Type clasifica los errores del sistema para su manejo uniforme
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeBusiness       Type = "BUSINESS"
	TypeExternal       Type = "EXTERNAL"
	TypeInternal       Type = "INTERNAL"
)

// defaultStatus mapea cada tipo a un status HTTP por defecto
func defaultStatus(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ============================================================================
// Error
// ============================================================================

// Error es el error enriquecido que viaja por todas las capas.
// El handler global lo traduce a una respuesta HTTP.
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"status"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail agrega contexto al error y retorna el mismo error (encadenable)
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause asocia el error subyacente
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// New crea un error sin registro previo
func New(message string, t Type) *Error {
	return &Error{
		Code:       string(t),
		Type:       t,
		Message:    message,
		HTTPStatus: defaultStatus(t),
	}
}

// Wrap envuelve un error de una dependencia externa o interna.
// Si ya es un *Error se retorna tal cual para no perder el tipo original.
func Wrap(err error, message string, t Type) *Error {
	var ex *Error
	if errors.As(err, &ex) {
		return ex
	}
	return &Error{
		Code:       string(t),
		Type:       t,
		Message:    message,
		HTTPStatus: defaultStatus(t),
		Err:        err,
	}
}

// IsType reporta si err es un *Error del tipo dado
func IsType(err error, t Type) bool {
	var ex *Error
	if errors.As(err, &ex) {
		return ex.Type == t
	}
	return false
}

// ============================================================================
// Registry
// ============================================================================

// ErrorCode identifica un error registrado dentro de un dominio
type ErrorCode struct {
	code       string
	errType    Type
	httpStatus int
	message    string
}

// Registry agrupa los códigos de error de un dominio bajo un prefijo común
type Registry struct {
	prefix string
	codes  map[string]ErrorCode
}

// NewRegistry crea un registro de errores para un dominio
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]ErrorCode),
	}
}

// Register registra un código de error del dominio
func (r *Registry) Register(code string, t Type, httpStatus int, message string) ErrorCode {
	full := r.prefix + "_" + code
	ec := ErrorCode{
		code:       full,
		errType:    t,
		httpStatus: httpStatus,
		message:    message,
	}
	r.codes[full] = ec
	return ec
}

// New instancia un error a partir de un código registrado
func (r *Registry) New(code ErrorCode) *Error {
	return &Error{
		Code:       code.code,
		Type:       code.errType,
		Message:    code.message,
		HTTPStatus: code.httpStatus,
	}
}
