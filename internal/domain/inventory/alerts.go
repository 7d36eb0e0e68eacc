package inventory

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// Umbrales de las alertas que se abren al guardar un producto.
const (
	LowStockAlertMax   = 5
	lowStockHighMax    = 2
	nearExpiryHighDays = 7
)

// AlertsFor alertas que corresponden al estado actual del producto. El
// llamador las crea solo si no hay otra abierta del mismo tipo.
func AlertsFor(p entity.Product, today civil.Date) []entity.StockAlert {
	var out []entity.StockAlert
	name := p.Brand + " " + p.Type
	if p.Quantity <= LowStockAlertMax {
		level := entity.AlertLevelMedium
		if p.Quantity <= lowStockHighMax {
			level = entity.AlertLevelHigh
		}
		out = append(out, entity.StockAlert{
			ProductID: p.ID,
			Type:      entity.AlertLowStock,
			Level:     level,
			Message:   fmt.Sprintf("Estoque baixo para %s. Quantidade atual: %d", name, p.Quantity),
		})
	}
	if !p.ExpirationDate.IsZero() {
		days := DaysUntil(p.ExpirationDate, today)
		if days >= 0 && days <= DefaultHorizonDays {
			level := entity.AlertLevelMedium
			if days <= nearExpiryHighDays {
				level = entity.AlertLevelHigh
			}
			out = append(out, entity.StockAlert{
				ProductID: p.ID,
				Type:      entity.AlertNearExpiry,
				Level:     level,
				Message: fmt.Sprintf("Produto %s próximo do vencimento. Validade: %02d/%02d/%04d",
					name, p.ExpirationDate.Day, p.ExpirationDate.Month, p.ExpirationDate.Year),
			})
		}
	}
	return out
}
