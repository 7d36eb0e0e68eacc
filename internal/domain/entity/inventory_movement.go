package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento (valores del backend).
const (
	MovementIn  = "ENTRADA"
	MovementOut = "SAIDA"
)

// Motivos de movimiento.
const (
	ReasonPurchase   = "COMPRA"
	ReasonSale       = "VENDA"
	ReasonAdjustment = "AJUSTE"
	ReasonLoss       = "PERDA"
	ReasonReturn     = "DEVOLUCAO"
	ReasonOther      = "OUTRO"
)

// MovementReasons en el orden en que se ofrecen al usuario.
var MovementReasons = []string{
	ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonLoss, ReasonReturn, ReasonOther,
}

// Movement entrada o salida de estoque de un producto. Inmutable una vez creado.
type Movement struct {
	ID        int64
	ProductID int64
	Type      string // ENTRADA | SAIDA
	Reason    string
	Quantity  int // >= 1
	UnitPrice decimal.Decimal
	Date      time.Time
	UserID    *int64
	Notes     string
}

// ApplyTo devuelve la nueva cantidad del producto tras el movimiento.
// Una salida nunca deja el estoque negativo.
func (m Movement) ApplyTo(current int) int {
	if m.Type == MovementIn {
		return current + m.Quantity
	}
	if next := current - m.Quantity; next > 0 {
		return next
	}
	return 0
}
