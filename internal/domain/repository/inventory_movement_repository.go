package repository

import (
	"context"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	ProductID int64  // 0 = todos
	Ordering  string // "data" o "-data"; vacío = más reciente primero
}

// MovementRepository define el puerto de persistencia para movimientos de estoque.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.Movement, int64, error)
}
