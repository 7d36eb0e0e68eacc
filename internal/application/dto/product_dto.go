package dto

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// ProductRequest cuerpo de creación/actualización de un producto.
type ProductRequest struct {
	Type           string          `json:"tipo_produto"`
	Brand          string          `json:"marca"`
	Quantity       int             `json:"quantidade"`
	Weight         decimal.Decimal `json:"peso"`
	Supplier       string          `json:"fornecedor"`
	Price          decimal.Decimal `json:"preco"`
	PurchaseDate   civil.Date      `json:"data_compra"`
	ExpirationDate civil.Date      `json:"data_validade"`
	Notes          string          `json:"observacoes"`
}

// ToEntity convierte a la entidad de dominio (sin ID ni auditoría).
func (r ProductRequest) ToEntity() entity.Product {
	return entity.Product{
		Type:           r.Type,
		Brand:          r.Brand,
		Quantity:       r.Quantity,
		Weight:         r.Weight,
		Supplier:       r.Supplier,
		Price:          r.Price,
		PurchaseDate:   r.PurchaseDate,
		ExpirationDate: r.ExpirationDate,
		Notes:          r.Notes,
	}
}

// ProductResponse salida completa de un producto (GET products/, products/{id}/).
type ProductResponse struct {
	ID             int64           `json:"id"`
	Type           string          `json:"tipo_produto"`
	Brand          string          `json:"marca"`
	Quantity       int             `json:"quantidade"`
	Weight         decimal.Decimal `json:"peso"`
	Supplier       string          `json:"fornecedor"`
	Price          decimal.Decimal `json:"preco"`
	PurchaseDate   civil.Date      `json:"data_compra"`
	ExpirationDate civil.Date      `json:"data_validade"`
	Notes          string          `json:"observacoes"`
	CreatedBy      *int64          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate un producto sin id no vino del backend.
func (p *ProductResponse) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("producto sin id")
	}
	return nil
}

// TotalValue precio × cantidad.
func (p ProductResponse) TotalValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ProductResponseFromEntity salida desde la entidad.
func ProductResponseFromEntity(p entity.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Type:           p.Type,
		Brand:          p.Brand,
		Quantity:       p.Quantity,
		Weight:         p.Weight,
		Supplier:       p.Supplier,
		Price:          p.Price,
		PurchaseDate:   p.PurchaseDate,
		ExpirationDate: p.ExpirationDate,
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ProductPage listado paginado de productos.
type ProductPage = Page[ProductResponse]

// ProductSummary forma reducida que usan expiring-soon, expired, low-stock y el
// bloque de recientes del dashboard.
type ProductSummary struct {
	ID             int64           `json:"id"`
	Name           string          `json:"nome"`
	Brand          string          `json:"marca"`
	Supplier       string          `json:"distribuidora"`
	Price          decimal.Decimal `json:"preco"`
	Units          int             `json:"unidades"`
	RegisteredAt   *civil.Date     `json:"data_cadastro"`
	ExpirationDate *civil.Date     `json:"data_validade,omitempty"`
}

// ProductSummaryFromEntity salida reducida desde la entidad.
func ProductSummaryFromEntity(p entity.Product) ProductSummary {
	registered := civil.DateOf(p.CreatedAt)
	expiration := p.ExpirationDate
	return ProductSummary{
		ID:             p.ID,
		Name:           p.Type,
		Brand:          p.Brand,
		Supplier:       p.Supplier,
		Price:          p.Price,
		Units:          p.Quantity,
		RegisteredAt:   &registered,
		ExpirationDate: &expiration,
	}
}

// ProductSummaryList lista simple (sin paginar) de productos reducidos.
type ProductSummaryList []ProductSummary

// Validate cada elemento debe traer id.
func (l ProductSummaryList) Validate() error {
	for i, p := range l {
		if p.ID <= 0 {
			return fmt.Errorf("elemento %d sin id", i)
		}
	}
	return nil
}
