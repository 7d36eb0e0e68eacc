package entity

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Product representa un producto del estoque de la tienda (ración, arena, accesorios...).
// ExpirationDate siempre es posterior a PurchaseDate.
type Product struct {
	ID             int64
	Type           string // tipo_produto
	Brand          string // marca
	Quantity       int
	Weight         decimal.Decimal // kg
	Supplier       string          // fornecedor
	Price          decimal.Decimal // precio unitario en R$
	PurchaseDate   civil.Date
	ExpirationDate civil.Date
	Notes          string
	CreatedBy      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalValue precio × cantidad.
func (p Product) TotalValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
