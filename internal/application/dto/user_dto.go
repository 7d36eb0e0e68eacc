package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// UserDTO usuario tal como lo devuelve el backend.
type UserDTO struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

// DisplayName nombre completo o, si no hay, el username.
func (u UserDTO) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// UserFromEntity salida desde la entidad.
func UserFromEntity(u entity.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.DateJoined,
	}
}

// LoginRequest credenciales de POST auth/token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPairResponse respuesta del login.
type TokenPairResponse struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    *UserDTO `json:"user"`
}

// Validate el login debe devolver ambos tokens y el usuario.
func (r *TokenPairResponse) Validate() error {
	if r.Access == "" || r.Refresh == "" {
		return fmt.Errorf("faltan tokens")
	}
	if r.User == nil {
		return fmt.Errorf("falta el usuario")
	}
	return nil
}

// RefreshRequest cuerpo de POST auth/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse nuevo access token; Refresh solo viene si el backend rota tokens.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Validate sin access no hay refresh exitoso.
func (r *RefreshResponse) Validate() error {
	if r.Access == "" {
		return fmt.Errorf("falta access")
	}
	return nil
}

// RegisterRequest alta de usuario.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// RegisterResponse respuesta del alta.
type RegisterResponse struct {
	Message string   `json:"message"`
	User    *UserDTO `json:"user"`
}

// Validate el alta devuelve el usuario creado.
func (r *RegisterResponse) Validate() error {
	if r.User == nil {
		return fmt.Errorf("falta el usuario")
	}
	return nil
}

// CheckAuthResponse respuesta de GET auth/check-auth/.
type CheckAuthResponse struct {
	Authenticated bool     `json:"authenticated"`
	User          *UserDTO `json:"user"`
}

// Validate autenticado implica usuario.
func (r *CheckAuthResponse) Validate() error {
	if r.Authenticated && r.User == nil {
		return fmt.Errorf("autenticado sin usuario")
	}
	return nil
}
