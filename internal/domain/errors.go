package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrServer             = errors.New("error del servidor")
	ErrSessionExpired     = errors.New("sesión expirada, inicie sesión nuevamente")
	ErrNotAuthenticated   = errors.New("no hay sesión activa")
	ErrTimeout            = errors.New("tiempo de espera agotado")
	ErrNetwork            = errors.New("error de red")
	ErrUnexpectedResponse = errors.New("respuesta con formato inesperado")
	ErrExportInProgress   = errors.New("ya hay una exportación en curso")
	ErrCancelled          = errors.New("operación cancelada")
	ErrSuperseded         = errors.New("respuesta descartada: hay una petición más reciente")
)

// APIError respuesta no-2xx del backend. Fields se llena cuando el cuerpo es un
// objeto indexado por campo (errores de validación del serializer).
type APIError struct {
	Status  int
	Detail  string
	Fields  map[string]string
	RawBody []byte
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return fmt.Sprintf("API HTTP %d: %s", e.Status, strings.Join(parts, "; "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("API HTTP %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("API HTTP %d", e.Status)
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) etc. según el status.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 400 && e.Status < 500:
		return ErrInvalidInput
	default:
		return ErrServer
	}
}

// ValidationError errores de formulario por campo; nunca se envía a la red.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add registra un error de campo (el primero gana).
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil devuelve nil si no hay errores registrados.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// FieldErrors extrae errores por campo de err: de un ValidationError local o de
// un APIError del servidor. ok=false si err no trae errores por campo.
func FieldErrors(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		return ve.Fields, true
	}
	var ae *APIError
	if errors.As(err, &ae) && len(ae.Fields) > 0 {
		return ae.Fields, true
	}
	return nil, false
}

// UserMessage convierte cualquier error en el texto que se muestra al usuario
// (equivalente al banner/alert de la interfaz).
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionExpired):
		return ErrSessionExpired.Error()
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrNetwork):
		return "no fue posible comunicarse con el servidor; intente de nuevo"
	case errors.Is(err, ErrNotAuthenticated):
		return "inicie sesión con `stockctl login`"
	}
	return err.Error()
}
