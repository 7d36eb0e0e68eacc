package entity

import "time"

// Tipos de alerta de estoque.
const (
	AlertLowStock    = "ESTOQUE_BAIXO"
	AlertNearExpiry  = "PROXIMO_VENCIMENTO"
	AlertLevelHigh   = "ALTO"
	AlertLevelMedium = "MEDIO"
)

// StockAlert alerta abierta sobre un producto. Hay a lo sumo una sin resolver
// por producto y tipo.
type StockAlert struct {
	ID         int64
	ProductID  int64
	Type       string
	Level      string
	Message    string
	CreatedAt  time.Time
	Resolved   bool
	ResolvedAt *time.Time
}
