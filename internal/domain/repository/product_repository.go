package repository

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// ProductFilter criterios ya validados de la búsqueda de productos. Los campos
// nil o vacíos no filtran. Los textos comparan sin distinguir mayúsculas.
type ProductFilter struct {
	Search   string // tipo, marca, proveedor u observaciones
	Type     string
	Brand    string
	Supplier string

	PurchaseFrom   *civil.Date
	PurchaseTo     *civil.Date
	ExpirationFrom *civil.Date
	ExpirationTo   *civil.Date
	// Rango derivado de status_validade; se combina con el anterior.
	StatusFrom *civil.Date
	StatusTo   *civil.Date

	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	WeightMin   *decimal.Decimal
	WeightMax   *decimal.Decimal
	QuantityMin *int
	QuantityMax *int

	// Ordering nombre de campo de la API con "-" opcional; vacío = más reciente primero.
	Ordering string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error
	// List devuelve la página pedida y el total filtrado. limit <= 0 trae todo.
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	// Distinct valores únicos y ordenados de tipo, marca y proveedor.
	Distinct(ctx context.Context) (types, brands, suppliers []string, err error)
}
