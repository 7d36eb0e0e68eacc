package dto

import (
	"net/url"
	"strconv"
	"strings"
)

// ProductListParams criterios de filtro y página de GET products/.
type ProductListParams struct {
	Filters map[string]string
	Page    int
}

// Query solo los filtros no vacíos, más page cuando Page > 0. Dos llamadas con
// los mismos criterios producen exactamente los mismos parámetros.
func (p ProductListParams) Query() url.Values {
	q := url.Values{}
	for k, v := range p.Filters {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q
}

// OrderingNewestFirst orden de movimientos por fecha descendente.
const OrderingNewestFirst = "-data"

// MovementListParams filtros de GET movimentacoes/.
type MovementListParams struct {
	ProductID int64
	Ordering  string
	Page      int
}

// Query parámetros de la URL.
func (p MovementListParams) Query() url.Values {
	q := url.Values{}
	if p.ProductID > 0 {
		q.Set("produto", strconv.FormatInt(p.ProductID, 10))
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q
}
