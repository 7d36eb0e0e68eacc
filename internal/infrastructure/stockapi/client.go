// Package stockapi contiene los resource clients tipados de la API de estoque.
// Cada método es exactamente una llamada HTTP; reintentos y refresh son
// responsabilidad del gateway, y los errores se devuelven sin tocar.
package stockapi

import (
	"context"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
)

// Doer es lo que los clients necesitan del gateway.
type Doer interface {
	Do(ctx context.Context, req gateway.Request) (*gateway.Response, error)
	JSON(ctx context.Context, req gateway.Request, out any) error
}

// Client agrupa los resource clients sobre un mismo gateway.
type Client struct {
	gw Doer
}

// New construye el client.
func New(gw Doer) *Client {
	return &Client{gw: gw}
}

func (c *Client) download(ctx context.Context, req gateway.Request) (*dto.Download, error) {
	req.Accept = "*/*"
	resp, err := c.gw.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.Download{Data: resp.Body, Header: resp.Header}, nil
}
