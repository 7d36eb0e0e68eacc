package repository

import (
	"context"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// AlertRepository alertas de estoque abiertas.
type AlertRepository interface {
	// Ensure crea la alerta salvo que ya haya una sin resolver del mismo
	// producto y tipo. Devuelve true si la creó.
	Ensure(ctx context.Context, alert *entity.StockAlert) (bool, error)
	// ListOpen alertas sin resolver, las más antiguas primero.
	ListOpen(ctx context.Context, limit int) ([]*entity.StockAlert, error)
}
