package inventory

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// ValidateProduct reglas del formulario de producto. Las claves del error son los
// nombres de campo de la API para que coincidan con los errores del servidor.
func ValidateProduct(p entity.Product) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(p.Type) == "" {
		ve.Add("tipo_produto", "el tipo de producto es obligatorio")
	}
	if strings.TrimSpace(p.Brand) == "" {
		ve.Add("marca", "la marca es obligatoria")
	}
	if p.Quantity < 0 {
		ve.Add("quantidade", "la cantidad no puede ser negativa")
	}
	if !p.Weight.GreaterThan(decimal.Zero) {
		ve.Add("peso", "el peso debe ser mayor que cero")
	}
	if strings.TrimSpace(p.Supplier) == "" {
		ve.Add("fornecedor", "el proveedor es obligatorio")
	}
	if !p.Price.GreaterThan(decimal.Zero) {
		ve.Add("preco", "el precio debe ser mayor que cero")
	}
	if p.PurchaseDate.IsZero() {
		ve.Add("data_compra", "la fecha de compra es obligatoria")
	}
	if p.ExpirationDate.IsZero() {
		ve.Add("data_validade", "la fecha de vencimiento es obligatoria")
	}
	if !p.PurchaseDate.IsZero() && !p.ExpirationDate.IsZero() && !p.ExpirationDate.After(p.PurchaseDate) {
		ve.Add("data_validade", "la fecha de vencimiento debe ser posterior a la de compra")
	}
	return ve.OrNil()
}

// ValidateMovement reglas del registro de movimientos.
func ValidateMovement(m entity.Movement) error {
	ve := &domain.ValidationError{}
	if m.ProductID <= 0 {
		ve.Add("produto", "el producto es obligatorio")
	}
	if m.Type != entity.MovementIn && m.Type != entity.MovementOut {
		ve.Add("tipo", "tipo debe ser ENTRADA o SAIDA")
	}
	if !slices.Contains(entity.MovementReasons, m.Reason) {
		ve.Add("motivo", "motivo inválido")
	}
	if m.Quantity < 1 {
		ve.Add("quantidade", "la cantidad mínima es 1")
	}
	if m.UnitPrice.IsNegative() {
		ve.Add("preco_unitario", "el precio unitario no puede ser negativo")
	}
	return ve.OrNil()
}
