package inventory

import (
	"context"

	"github.com/jhoicas/stockctl/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *MovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID int64, in dto.MovementRequest) (*dto.MovementResponse, error) {
	mv, err := uc.RegisterMovement(ctx, MovementInputDTO{UserID: userID, Movement: in.ToEntity()})
	if err != nil {
		return nil, err
	}
	out := dto.MovementResponseFromEntity(*mv)
	return &out, nil
}
