package stockapi

import (
	"context"
	"net/http"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
)

// Rutas de autenticación.
const (
	pathLogin     = "auth/token/"
	pathRegister  = "auth/register/"
	pathCheckAuth = "auth/check-auth/"
)

// Login POST auth/token/.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error) {
	var out dto.TokenPairResponse
	err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodPost, Path: pathLogin, Body: in, Anonymous: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register POST auth/register/.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodPost, Path: pathRegister, Body: in, Anonymous: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh POST auth/token/refresh/. El gateway usa su propio camino interno;
// este método existe para herramientas que quieran renovar explícitamente.
func (c *Client) Refresh(ctx context.Context, refresh string) (*dto.RefreshResponse, error) {
	var out dto.RefreshResponse
	err := c.gw.JSON(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      gateway.RefreshPath,
		Body:      dto.RefreshRequest{Refresh: refresh},
		Anonymous: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAuth GET auth/check-auth/.
func (c *Client) CheckAuth(ctx context.Context) (*dto.CheckAuthResponse, error) {
	var out dto.CheckAuthResponse
	if err := c.gw.JSON(ctx, gateway.Request{Method: http.MethodGet, Path: pathCheckAuth}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
