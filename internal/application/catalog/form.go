// Package catalog contiene el formulario de producto y el registro de
// movimientos de estoque del cliente.
package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
)

// ProductForm campos del formulario tal como los escribe el usuario.
type ProductForm struct {
	Type           string
	Brand          string
	Quantity       string
	Weight         string
	Supplier       string
	Price          string
	PurchaseDate   string
	ExpirationDate string
	Notes          string
}

// FormFromProduct precarga el formulario de edición.
func FormFromProduct(p dto.ProductResponse) ProductForm {
	return ProductForm{
		Type:           p.Type,
		Brand:          p.Brand,
		Quantity:       strconv.Itoa(p.Quantity),
		Weight:         p.Weight.String(),
		Supplier:       p.Supplier,
		Price:          p.Price.StringFixed(2),
		PurchaseDate:   p.PurchaseDate.String(),
		ExpirationDate: p.ExpirationDate.String(),
		Notes:          p.Notes,
	}
}

// Parse convierte el formulario en la petición y aplica las reglas de dominio.
// Los errores de formato y de reglas salen juntos en un único ValidationError.
func (f ProductForm) Parse() (dto.ProductRequest, error) {
	ve := &domain.ValidationError{}
	req := dto.ProductRequest{
		Type:     strings.TrimSpace(f.Type),
		Brand:    strings.TrimSpace(f.Brand),
		Supplier: strings.TrimSpace(f.Supplier),
		Notes:    strings.TrimSpace(f.Notes),
	}

	if s := strings.TrimSpace(f.Quantity); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			ve.Add("quantidade", "la cantidad debe ser un número entero")
		}
		req.Quantity = n
	}
	req.Weight = parseDecimal(ve, "peso", f.Weight)
	req.Price = parseDecimal(ve, "preco", f.Price)

	if s := strings.TrimSpace(f.PurchaseDate); s != "" {
		d, err := inventory.ParseDate(s)
		if err != nil {
			ve.Add("data_compra", "fecha inválida")
		}
		req.PurchaseDate = d
	}
	if s := strings.TrimSpace(f.ExpirationDate); s != "" {
		d, err := inventory.ParseDate(s)
		if err != nil {
			ve.Add("data_validade", "fecha inválida")
		}
		req.ExpirationDate = d
	}

	var rules *domain.ValidationError
	if err := inventory.ValidateProduct(req.ToEntity()); errors.As(err, &rules) {
		for k, msg := range rules.Fields {
			ve.Add(k, msg)
		}
	}
	if err := ve.OrNil(); err != nil {
		return dto.ProductRequest{}, err
	}
	return req, nil
}

// MovementForm campos del registro de un movimiento.
type MovementForm struct {
	ProductID int64
	Type      string
	Reason    string
	Quantity  string
	UnitPrice string
	Notes     string
}

// Parse convierte y valida el movimiento. Tipo y motivo se aceptan en
// minúsculas; el precio unitario vacío es cero.
func (f MovementForm) Parse() (dto.MovementRequest, error) {
	ve := &domain.ValidationError{}
	req := dto.MovementRequest{
		Product: f.ProductID,
		Type:    strings.ToUpper(strings.TrimSpace(f.Type)),
		Reason:  strings.ToUpper(strings.TrimSpace(f.Reason)),
		Notes:   strings.TrimSpace(f.Notes),
	}
	if s := strings.TrimSpace(f.Quantity); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			ve.Add("quantidade", "la cantidad debe ser un número entero")
		}
		req.Quantity = n
	}
	if strings.TrimSpace(f.UnitPrice) != "" {
		req.UnitPrice = parseDecimal(ve, "preco_unitario", f.UnitPrice)
	}

	var rules *domain.ValidationError
	if err := inventory.ValidateMovement(req.ToEntity()); errors.As(err, &rules) {
		for k, msg := range rules.Fields {
			ve.Add(k, msg)
		}
	}
	if err := ve.OrNil(); err != nil {
		return dto.MovementRequest{}, err
	}
	return req, nil
}

// parseDecimal admite coma decimal ("89,90"). Vacío es cero y lo rechazan las reglas.
func parseDecimal(ve *domain.ValidationError, field, s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		ve.Add(field, "número inválido")
		return decimal.Zero
	}
	return d
}

