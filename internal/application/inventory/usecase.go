package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/domain/repository"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

// MovementUseCase registra movimientos de estoque de forma transaccional y
// consulta su historial.
type MovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	clock       clock.Clock
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	c clock.Clock,
) *MovementUseCase {
	if c == nil {
		c = clock.RealClock{}
	}
	return &MovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		clock:       c,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
type MovementInputDTO struct {
	UserID   int64
	Movement entity.Movement
}

// RegisterMovement valida, y dentro de una transacción relee el producto, ajusta
// su cantidad (una salida nunca la deja negativa), guarda el movimiento y abre
// las alertas que correspondan.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	mv := input.Movement
	if err := inventory.ValidateMovement(mv); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, mv.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		ve := &domain.ValidationError{}
		ve.Add("produto", fmt.Sprintf("producto %d inexistente", mv.ProductID))
		return nil, ve
	}

	now := uc.clock.Now()
	mv.Date = now
	if input.UserID > 0 {
		uid := input.UserID
		mv.UserID = &uid
	}

	// Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		alertRepo repository.AlertRepository,
	) error {
		p, err := productRepo.GetByID(ctx, mv.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		p.Quantity = mv.ApplyTo(p.Quantity)
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &mv); err != nil {
			return err
		}
		for _, a := range inventory.AlertsFor(*p, clock.Today(uc.clock)) {
			if _, err := alertRepo.Ensure(ctx, &a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mv, nil
}

// List historial paginado de movimientos.
func (uc *MovementUseCase) List(ctx context.Context, filter repository.MovementFilter, page, pageSize int) (*dto.MovementPage, error) {
	if page < 1 {
		page = 1
	}
	list, total, err := uc.movRepo.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if page > 1 && len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	out := &dto.MovementPage{Count: int(total), Results: make([]dto.MovementResponse, 0, len(list))}
	for _, m := range list {
		out.Results = append(out.Results, dto.MovementResponseFromEntity(*m))
	}
	return out, nil
}
