package ports

import (
	"context"

	"github.com/jhoicas/stockctl/internal/application/dto"
)

// Tokens par de credenciales emitido por el backend.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session estado persistido del cliente: tokens y usuario actual.
type Session struct {
	Tokens
	User *dto.UserDTO `json:"user,omitempty"`
}

// SessionStore define el puerto de persistencia de la sesión del cliente.
// Las implementaciones (memoria, archivo, Redis) son intercambiables: gateway y
// casos de uso solo conocen este contrato.
//
// No se valida expiración localmente; la validez de un token la decide el backend.
type SessionStore interface {
	// SetSession guarda tokens y usuario de una vez.
	SetSession(ctx context.Context, tokens Tokens, user dto.UserDTO) error
	// SetAccessToken reemplaza el access token tras un refresh. Si refresh no es
	// vacío (backend con rotación) también reemplaza el refresh token.
	SetAccessToken(ctx context.Context, access, refresh string) error
	// SetUser actualiza el usuario cacheado sin tocar los tokens.
	SetUser(ctx context.Context, user dto.UserDTO) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	// User devuelve nil si no hay usuario cacheado.
	User(ctx context.Context) (*dto.UserDTO, error)
	// IsAuthenticated true si y solo si hay access token.
	IsAuthenticated(ctx context.Context) (bool, error)
	// Clear elimina tokens y usuario.
	Clear(ctx context.Context) error
}
