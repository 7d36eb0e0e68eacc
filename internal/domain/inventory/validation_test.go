package inventory_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
)

func validProduct() entity.Product {
	return entity.Product{
		Type:           "Ração",
		Brand:          "Royal Canin",
		Quantity:       3,
		Weight:         decimal.RequireFromString("10.1"),
		Supplier:       "PetDist",
		Price:          decimal.RequireFromString("199.90"),
		PurchaseDate:   civil.Date{Year: 2026, Month: 1, Day: 10},
		ExpirationDate: civil.Date{Year: 2027, Month: 1, Day: 10},
	}
}

func TestValidateProduct_OK(t *testing.T) {
	assert.NoError(t, inventory.ValidateProduct(validProduct()))

	p := validProduct()
	p.Quantity = 0
	assert.NoError(t, inventory.ValidateProduct(p), "estoque cero es válido")
}

func TestValidateProduct_VencimientoNoPosterior(t *testing.T) {
	p := validProduct()
	p.ExpirationDate = p.PurchaseDate

	err := inventory.ValidateProduct(p)
	require.Error(t, err)
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "data_validade")
}

func TestValidateProduct_CamposObligatorios(t *testing.T) {
	err := inventory.ValidateProduct(entity.Product{Quantity: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	fields, _ := domain.FieldErrors(err)
	for _, k := range []string{"tipo_produto", "marca", "quantidade", "peso", "fornecedor", "preco", "data_compra", "data_validade"} {
		assert.Contains(t, fields, k)
	}
}

func TestValidateMovement(t *testing.T) {
	ok := entity.Movement{ProductID: 1, Type: entity.MovementOut, Reason: entity.ReasonSale, Quantity: 1}
	assert.NoError(t, inventory.ValidateMovement(ok))

	bad := entity.Movement{ProductID: 1, Type: "IN", Reason: "X", Quantity: 0, UnitPrice: decimal.NewFromInt(-1)}
	fields, isField := domain.FieldErrors(inventory.ValidateMovement(bad))
	require.True(t, isField)
	assert.Len(t, fields, 4)
}

func TestMovement_ApplyToNuncaNegativo(t *testing.T) {
	out := entity.Movement{Type: entity.MovementOut, Quantity: 10}
	in := entity.Movement{Type: entity.MovementIn, Quantity: 4}

	assert.Equal(t, 0, out.ApplyTo(3))
	assert.Equal(t, 7, in.ApplyTo(3))
}
