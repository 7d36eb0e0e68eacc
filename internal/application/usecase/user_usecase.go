package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockctl/internal/application/auth"
	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/repository"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/config"
	"github.com/jhoicas/stockctl/pkg/jwt"
)

// MsgUserCreated mensaje de alta exitosa.
const MsgUserCreated = "Usuário criado com sucesso!"

// UserUseCase alta, login y refresh de usuarios del servidor de desarrollo.
type UserUseCase struct {
	repo  repository.UserRepository
	jwt   config.JWTConfig
	clock clock.Clock
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, jwtCfg config.JWTConfig, c clock.Clock) *UserUseCase {
	if c == nil {
		c = clock.RealClock{}
	}
	return &UserUseCase{repo: repo, jwt: jwtCfg, clock: c}
}

// Register valida, comprueba unicidad y guarda el usuario con la contraseña en bcrypt.
func (uc *UserUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := auth.ValidateRegister(in); err != nil {
		return nil, err
	}

	ve := &domain.ValidationError{}
	if u, err := uc.repo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if u != nil {
		ve.Add("username", "Já existe um usuário com este nome de usuário.")
	}
	if u, err := uc.repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if u != nil {
		ve.Add("email", "Este email já está em uso.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		DateJoined:   uc.clock.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		// carrera entre la comprobación y el insert
		if errors.Is(err, domain.ErrConflict) {
			ve.Add("username", "Já existe um usuário com este nome de usuário.")
			return nil, ve
		}
		return nil, err
	}
	out := dto.UserFromEntity(*user)
	return &dto.RegisterResponse{Message: MsgUserCreated, User: &out}, nil
}

// Login valida credenciales y emite el par access/refresh. Usuario inexistente
// y contraseña incorrecta dan el mismo domain.ErrUnauthorized.
func (uc *UserUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error) {
	ve := &domain.ValidationError{}
	if strings.TrimSpace(in.Username) == "" {
		ve.Add("username", "Este campo é obrigatório.")
	}
	if in.Password == "" {
		ve.Add("password", "Este campo é obrigatório.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	user, err := uc.repo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}

	access, err := jwt.Generate(uc.jwt.Secret, user.ID, jwt.TokenAccess, uc.jwt.Issuer, uc.jwt.AccessMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(uc.jwt.Secret, user.ID, jwt.TokenRefresh, uc.jwt.Issuer, uc.jwt.RefreshMinutes)
	if err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(*user)
	return &dto.TokenPairResponse{Access: access, Refresh: refresh, User: &out}, nil
}

// Refresh emite un access nuevo a partir de un refresh válido. El refresh no rota.
func (uc *UserUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.RefreshResponse, error) {
	if in.Refresh == "" {
		ve := &domain.ValidationError{}
		ve.Add("refresh", "Este campo é obrigatório.")
		return nil, ve
	}
	userID, err := jwt.Parse(uc.jwt.Secret, in.Refresh, jwt.TokenRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	access, err := jwt.Generate(uc.jwt.Secret, user.ID, jwt.TokenAccess, uc.jwt.Issuer, uc.jwt.AccessMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Access: access}, nil
}

// Me usuario autenticado por ID (el middleware ya validó el token).
func (uc *UserUseCase) Me(ctx context.Context, userID int64) (*dto.UserDTO, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	out := dto.UserFromEntity(*user)
	return &out, nil
}

// CheckAuth respuesta de auth/check-auth/.
func (uc *UserUseCase) CheckAuth(ctx context.Context, userID int64) (*dto.CheckAuthResponse, error) {
	u, err := uc.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CheckAuthResponse{Authenticated: true, User: u}, nil
}
