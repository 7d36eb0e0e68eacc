// Package inventory contiene las reglas de dominio del estoque: clasificación por
// vencimiento, ranking de marcas y validación de productos y movimientos.
package inventory

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// DefaultHorizonDays ventana de "próximo al vencimiento".
const DefaultHorizonDays = 30

// attentionHorizonDays límite superior del estado "atencao" del backend.
const attentionHorizonDays = 90

// Bucket agrupación de alertas del dashboard.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketNear
	BucketExpired
)

func (b Bucket) String() string {
	switch b {
	case BucketNear:
		return "near"
	case BucketExpired:
		return "expired"
	default:
		return "none"
	}
}

// Classify ubica una fecha de vencimiento: vencido si es estrictamente anterior a hoy,
// próximo si cae en o antes de hoy+horizon, ninguno en otro caso.
func Classify(expiration, today civil.Date, horizonDays int) Bucket {
	if expiration.Before(today) {
		return BucketExpired
	}
	if !expiration.After(today.AddDays(horizonDays)) {
		return BucketNear
	}
	return BucketNone
}

// Status valores de status_validade que acepta el filtro del backend.
type Status string

const (
	StatusExpired   Status = "vencido"
	StatusNear      Status = "proximo_vencimento"
	StatusAttention Status = "atencao"
	StatusOK        Status = "ok"
)

// ParseStatus valida un valor de filtro.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusExpired, StatusNear, StatusAttention, StatusOK:
		return st, nil
	}
	return "", fmt.Errorf("status_validade desconocido %q", s)
}

// StatusOf misma partición que el filtro del backend: <hoy, hoy..+30, +31..+90, >+90.
func StatusOf(expiration, today civil.Date) Status {
	switch Classify(expiration, today, DefaultHorizonDays) {
	case BucketExpired:
		return StatusExpired
	case BucketNear:
		return StatusNear
	}
	if !expiration.After(today.AddDays(attentionHorizonDays)) {
		return StatusAttention
	}
	return StatusOK
}

// StatusRange límites inclusivos de data_validade para un estado; nil = abierto.
// Es la inversa de StatusOf.
func StatusRange(s Status, today civil.Date) (from, to *civil.Date) {
	day := func(n int) *civil.Date {
		d := today.AddDays(n)
		return &d
	}
	switch s {
	case StatusExpired:
		return nil, day(-1)
	case StatusNear:
		return day(0), day(DefaultHorizonDays)
	case StatusAttention:
		return day(DefaultHorizonDays + 1), day(attentionHorizonDays)
	default:
		return day(attentionHorizonDays + 1), nil
	}
}

// Label texto del badge.
func (s Status) Label() string {
	switch s {
	case StatusExpired:
		return "Vencido"
	case StatusNear:
		return "Próximo ao vencimento"
	case StatusAttention:
		return "Atenção"
	default:
		return "OK"
	}
}

// DaysUntil días que faltan para el vencimiento (negativo si ya venció).
func DaysUntil(expiration, today civil.Date) int {
	return expiration.DaysSince(today)
}

// AlertLabel texto corto de la alerta de vencimiento.
func AlertLabel(days int) string {
	switch {
	case days < 0:
		return "Vencido"
	case days == 0:
		return "Vence hoje"
	case days == 1:
		return "1 dia"
	default:
		return fmt.Sprintf("%d dias", days)
	}
}
