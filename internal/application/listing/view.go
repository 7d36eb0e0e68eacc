package listing

import (
	"cloud.google.com/go/civil"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/pkg/format"
)

// View estado derivado de una página del listado.
type View struct {
	Rows       []ProductRow
	Count      int
	Page       int
	TotalPages int
	HasNext    bool
	HasPrev    bool
	Criteria   Criteria
}

// ProductRow producto con los campos de presentación ya calculados.
type ProductRow struct {
	dto.ProductResponse
	Status         inventory.Status
	StatusLabel    string
	DaysToExpire   int
	PriceText      string
	TotalText      string
	PurchaseText   string
	ExpirationText string
}

// TotalPages ceil(count / pageSize).
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// NewRow deriva la fila de presentación de un producto.
func NewRow(p dto.ProductResponse, today civil.Date) ProductRow {
	status := inventory.StatusOf(p.ExpirationDate, today)
	return ProductRow{
		ProductResponse: p,
		Status:          status,
		StatusLabel:     status.Label(),
		DaysToExpire:    inventory.DaysUntil(p.ExpirationDate, today),
		PriceText:       format.BRL(p.Price),
		TotalText:       format.BRL(p.TotalValue()),
		PurchaseText:    format.Date(p.PurchaseDate),
		ExpirationText:  format.Date(p.ExpirationDate),
	}
}

func buildView(page *dto.ProductPage, params dto.ProductListParams, pageSize int, today civil.Date) *View {
	rows := make([]ProductRow, 0, len(page.Results))
	for _, p := range page.Results {
		rows = append(rows, NewRow(p, today))
	}
	return &View{
		Rows:       rows,
		Count:      page.Count,
		Page:       params.Page,
		TotalPages: TotalPages(page.Count, pageSize),
		// los botones dependen solo de los cursores del servidor
		HasNext:  page.Next != nil && *page.Next != "",
		HasPrev:  page.Previous != nil && *page.Previous != "",
		Criteria: Criteria(params.Filters).Clone(),
	}
}
