// Package auth contiene los casos de uso de sesión del cliente.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/ports"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// API endpoints de autenticación que usa el caso de uso.
type API interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error)
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error)
	CheckAuth(ctx context.Context) (*dto.CheckAuthResponse, error)
}

// AuthUseCase flujos de sesión del cliente: login, registro, logout y
// restauración de una sesión persistida.
type AuthUseCase struct {
	api   API
	store ports.SessionStore
	log   *logger.Logger
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(api API, store ports.SessionStore, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{api: api, store: store, log: log.Component("auth")}
}

// Login valida credenciales localmente, las envía y guarda tokens + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*dto.UserDTO, error) {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(username) == "" {
		ve.Add("username", "el usuario es obligatorio")
	}
	if password == "" {
		ve.Add("password", "la contraseña es obligatoria")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	out, err := uc.api.Login(ctx, dto.LoginRequest{Username: strings.TrimSpace(username), Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	tokens := ports.Tokens{Access: out.Access, Refresh: out.Refresh}
	if err := uc.store.SetSession(ctx, tokens, *out.User); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", out.User.ID).Str("username", out.User.Username).Msg("sesión iniciada")
	return out.User, nil
}

// Register crea un usuario. No inicia sesión: el usuario debe hacer login después.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserDTO, error) {
	if err := ValidateRegister(in); err != nil {
		return nil, err
	}
	out, err := uc.api.Register(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("registro: %w", err)
	}
	uc.log.Info().Str("username", out.User.Username).Msg("usuario registrado")
	return out.User, nil
}

// ValidateRegister reglas locales del formulario de registro.
func ValidateRegister(in dto.RegisterRequest) error {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(in.Username) == "" {
		ve.Add("username", "el usuario es obligatorio")
	}
	if strings.TrimSpace(in.Email) == "" {
		ve.Add("email", "el email es obligatorio")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		ve.Add("email", "email inválido")
	}
	if in.Password == "" {
		ve.Add("password", "la contraseña es obligatoria")
	} else if len(in.Password) < 8 {
		ve.Add("password", "la contraseña debe tener al menos 8 caracteres")
	}
	if in.Password != in.PasswordConfirm {
		ve.Add("password_confirm", "las contraseñas no coinciden")
	}
	return ve.OrNil()
}

// Logout borra la sesión local. No hay endpoint de logout: los tokens expiran solos.
func (uc *AuthUseCase) Logout(ctx context.Context) error {
	if err := uc.store.Clear(ctx); err != nil {
		return err
	}
	uc.log.Info().Msg("sesión cerrada")
	return nil
}

// Restore devuelve el usuario de la sesión persistida. Sin token: ErrNotAuthenticated.
// Con token y usuario cacheado no toca la red; sin usuario consulta check-auth.
// Si el backend rechaza la sesión se hace logout; un error de red la conserva.
func (uc *AuthUseCase) Restore(ctx context.Context) (*dto.UserDTO, error) {
	ok, err := uc.store.IsAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	user, err := uc.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	return uc.Verify(ctx)
}

// Verify consulta check-auth siempre y refresca el usuario cacheado.
func (uc *AuthUseCase) Verify(ctx context.Context) (*dto.UserDTO, error) {
	out, err := uc.api.CheckAuth(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrSessionExpired) {
			_ = uc.Logout(ctx)
			return nil, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
		}
		return nil, err
	}
	if !out.Authenticated || out.User == nil {
		_ = uc.Logout(ctx)
		return nil, domain.ErrNotAuthenticated
	}
	if err := uc.store.SetUser(ctx, *out.User); err != nil {
		return nil, err
	}
	return out.User, nil
}
