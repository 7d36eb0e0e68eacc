package stockapi

import (
	"context"
	"net/http"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
)

const pathMovements = "movimentacoes/"

// ListMovements GET movimentacoes/?produto=&ordering=.
func (c *Client) ListMovements(ctx context.Context, params dto.MovementListParams) (*dto.MovementPage, error) {
	var out dto.MovementPage
	err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: pathMovements, Query: params.Query()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMovement POST movimentacoes/.
func (c *Client) CreateMovement(ctx context.Context, in dto.MovementRequest) (*dto.MovementResponse, error) {
	var out dto.MovementResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodPost, Path: pathMovements, Body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
