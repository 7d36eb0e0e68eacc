package csvimport_test

import (
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/infrastructure/csvimport"
)

const exported = `ID,Tipo do Produto,Marca,Quantidade,Peso,Fornecedor,Preço,Data de Compra,Data de Validade,Valor Total,Criado em,Observações
1,Ração,Golden,12,15,PetDist,89.90,2026-03-01,2027-03-01,1078.80,2026-03-01T10:00:00Z,lote A
2,Areia,Pipicat,4,4,PetDist,30.00,2026-03-01,2026-12-01,120.00,2026-03-01T10:00:00Z,
`

func TestRead_FormatoDeExportacion(t *testing.T) {
	res, err := csvimport.Read(strings.NewReader(exported))
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
	assert.Empty(t, res.Rejected)

	p := res.Products[0]
	assert.Equal(t, "Ração", p.Type)
	assert.Equal(t, 12, p.Quantity)
	assert.True(t, decimal.RequireFromString("89.90").Equal(p.Price))
	assert.Equal(t, civil.Date{Year: 2027, Month: 3, Day: 1}, p.ExpirationDate)
	assert.Equal(t, "lote A", p.Notes)
}

func TestRead_PuntoYComaYLatin1(t *testing.T) {
	src := "Tipo do Produto;Marca;Quantidade;Peso;Fornecedor;Preço;Data de Compra;Data de Validade\n" +
		"Ração;Premier;3;10,5;Distribuidora São Paulo;120,00;01/03/2026;01/09/2026\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	res, err := csvimport.Read(strings.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Distribuidora São Paulo", res.Products[0].Supplier)
	assert.True(t, decimal.RequireFromString("10.5").Equal(res.Products[0].Weight))
}

func TestRead_FilasInvalidasNoAbortan(t *testing.T) {
	src := "Tipo do Produto,Marca,Quantidade,Peso,Fornecedor,Preço,Data de Compra,Data de Validade\n" +
		"Ração,,3,10,PetDist,120,2026-03-01,2026-09-01\n" +
		",,,,,,,\n" +
		"Ração,Golden,3,10,PetDist,120,2026-03-01,2026-09-01\n"

	res, err := csvimport.Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Line)
	fields, ok := domain.FieldErrors(res.Rejected[0])
	require.True(t, ok)
	assert.Contains(t, fields, "marca")
}

func TestRead_FaltanColumnas(t *testing.T) {
	_, err := csvimport.Read(strings.NewReader("Marca,Quantidade\nGolden,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, csvimport.ErrMissingColumns))
	assert.Contains(t, err.Error(), "preço")
}
