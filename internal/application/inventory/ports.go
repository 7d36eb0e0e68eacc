package inventory

import (
	"context"

	"github.com/jhoicas/stockctl/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que movimiento, cantidad del producto y alertas se guarden juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		alertRepo repository.AlertRepository,
	) error) error
}
