package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/stockctl/internal/domain"
)

// validator lo implementan los DTO de respuesta con campos obligatorios.
type validator interface {
	Validate() error
}

// DecodeJSON decodifica body en out y aplica out.Validate() si existe. Cualquier
// forma inesperada (cuerpo vacío, tipos que no encajan, campos obligatorios
// ausentes) se reporta como domain.ErrUnexpectedResponse; nunca se rellena con
// valores por defecto.
func DecodeJSON(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: cuerpo vacío", domain.ErrUnexpectedResponse)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnexpectedResponse, err)
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUnexpectedResponse, err)
		}
	}
	return nil
}

const maxDetailLen = 300

// ParseAPIError arma un *domain.APIError a partir de una respuesta no-2xx.
// Reconoce los formatos de error de DRF:
//
//	{"detail": "..."}                        -> Detail
//	{"campo": ["msg", ...], "campo2": "msg"} -> Fields
//	{"non_field_errors": ["msg"]}            -> Detail
//
// Cualquier otro cuerpo se conserva recortado en Detail.
func ParseAPIError(status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{Status: status, RawBody: body}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		apiErr.Detail = plainDetail(status, body)
		return apiErr
	}
	if raw, ok := obj["detail"]; ok {
		apiErr.Detail = firstMessage(raw)
		if apiErr.Detail != "" {
			return apiErr
		}
	}
	if raw, ok := obj["error"]; ok {
		if msg := firstMessage(raw); msg != "" {
			apiErr.Detail = msg
			return apiErr
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg := firstMessage(obj[k])
		if msg == "" {
			continue
		}
		if k == "non_field_errors" {
			apiErr.Detail = msg
			continue
		}
		if apiErr.Fields == nil {
			apiErr.Fields = map[string]string{}
		}
		apiErr.Fields[k] = msg
	}
	if apiErr.Detail == "" && len(apiErr.Fields) == 0 {
		apiErr.Detail = plainDetail(status, body)
	}
	return apiErr
}

// firstMessage acepta "msg" o ["msg", ...].
func firstMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

func plainDetail(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" || strings.HasPrefix(text, "<") {
		return http.StatusText(status)
	}
	if len(text) > maxDetailLen {
		cut := maxDetailLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "…"
	}
	return text
}
