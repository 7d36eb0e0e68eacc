package inventory

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain"
)

// Claves de filtro aceptadas por el listado y la exportación de productos.
const (
	FilterSearch         = "search"
	FilterType           = "tipo_produto"
	FilterBrand          = "marca"
	FilterSupplier       = "fornecedor"
	FilterStatus         = "status_validade"
	FilterPurchaseFrom   = "data_compra_inicio"
	FilterPurchaseTo     = "data_compra_fim"
	FilterExpirationFrom = "data_validade_inicio"
	FilterExpirationTo   = "data_validade_fim"
	FilterPriceMin       = "preco_min"
	FilterPriceMax       = "preco_max"
	FilterQuantityMin    = "quantidade_min"
	FilterQuantityMax    = "quantidade_max"
	FilterWeightMin      = "peso_min"
	FilterWeightMax      = "peso_max"
	FilterOrdering       = "ordering"
	FilterIncludeExpired = "include_expired"
	FilterIncludeNotes   = "include_notes"
	QueryPage            = "page"
)

// FilterKeys claves de criterio del listado, en el orden en que se muestran.
var FilterKeys = []string{
	FilterSearch, FilterType, FilterBrand, FilterSupplier, FilterStatus,
	FilterPurchaseFrom, FilterPurchaseTo, FilterExpirationFrom, FilterExpirationTo,
	FilterPriceMin, FilterPriceMax, FilterQuantityMin, FilterQuantityMax,
	FilterWeightMin, FilterWeightMax, FilterOrdering,
}

// IsFilterKey indica si k es una clave de criterio conocida.
func IsFilterKey(k string) bool {
	for _, key := range FilterKeys {
		if key == k {
			return true
		}
	}
	return false
}

var (
	dateKeys = map[string]bool{
		FilterPurchaseFrom:   true,
		FilterPurchaseTo:     true,
		FilterExpirationFrom: true,
		FilterExpirationTo:   true,
	}
	decimalKeys = map[string]bool{
		FilterPriceMin:  true,
		FilterPriceMax:  true,
		FilterWeightMin: true,
		FilterWeightMax: true,
	}
	intKeys = map[string]bool{
		FilterQuantityMin: true,
		FilterQuantityMax: true,
	}
)

// NormalizeFilter valida un par clave/valor y devuelve el valor tal como se
// enviará. Acepta fechas dd/MM/yyyy además de ISO. Un valor vacío es válido y
// significa "sin filtro".
func NormalizeFilter(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	if !IsFilterKey(key) {
		ve := &domain.ValidationError{}
		ve.Add(key, "filtro desconocido")
		return "", ve
	}
	if value == "" {
		return "", nil
	}
	ve := &domain.ValidationError{}
	switch {
	case key == FilterStatus:
		if _, err := ParseStatus(value); err != nil {
			ve.Add(key, "use vencido, proximo_vencimento, atencao u ok")
		}
	case dateKeys[key]:
		d, err := ParseDate(value)
		if err != nil {
			ve.Add(key, "fecha inválida (use AAAA-MM-DD o DD/MM/AAAA)")
		} else {
			value = d.String()
		}
	case decimalKeys[key]:
		d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
		if err != nil || d.IsNegative() {
			ve.Add(key, "número inválido")
		} else {
			value = d.String()
		}
	case intKeys[key]:
		d, err := decimal.NewFromString(value)
		if err != nil || !d.IsInteger() || d.IsNegative() {
			ve.Add(key, "entero inválido")
		}
	}
	if err := ve.OrNil(); err != nil {
		return "", err
	}
	return value, nil
}

// ParseDate acepta AAAA-MM-DD o DD/MM/AAAA.
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) == 3 {
		return civil.ParseDate(parts[2] + "-" + parts[1] + "-" + parts[0])
	}
	return civil.ParseDate(s)
}
