package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/application/auth"
	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/ports"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/infrastructure/sessionstore"
)

type fakeAPI struct {
	loginOut   *dto.TokenPairResponse
	loginErr   error
	registered []dto.RegisterRequest
	check      *dto.CheckAuthResponse
	checkErr   error
	checkCalls int
}

func (f *fakeAPI) Login(_ context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	f.registered = append(f.registered, in)
	return &dto.RegisterResponse{Message: "ok", User: &dto.UserDTO{ID: 9, Username: in.Username}}, nil
}

func (f *fakeAPI) CheckAuth(context.Context) (*dto.CheckAuthResponse, error) {
	f.checkCalls++
	return f.check, f.checkErr
}

func TestLogin_GuardaSesion(t *testing.T) {
	ctx := context.Background()
	store := sessionstore.NewMemory()
	api := &fakeAPI{loginOut: &dto.TokenPairResponse{Access: "a", Refresh: "r", User: &dto.UserDTO{ID: 1, Username: "ana"}}}
	uc := auth.NewAuthUseCase(api, store, nil)

	u, err := uc.Login(ctx, " ana ", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)
	access, _ := store.AccessToken(ctx)
	refresh, _ := store.RefreshToken(ctx)
	assert.Equal(t, "a", access)
	assert.Equal(t, "r", refresh)
}

func TestLogin_CamposVaciosNoLlamanALaRed(t *testing.T) {
	api := &fakeAPI{loginErr: errors.New("no debería llamarse")}
	uc := auth.NewAuthUseCase(api, sessionstore.NewMemory(), nil)

	_, err := uc.Login(context.Background(), "", "")
	require.Error(t, err)
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	store := sessionstore.NewMemory()
	api := &fakeAPI{loginErr: &domain.APIError{Status: 401, Detail: "No active account found with the given credentials"}}
	uc := auth.NewAuthUseCase(api, store, nil)

	_, err := uc.Login(context.Background(), "ana", "mal")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	ok, _ := store.IsAuthenticated(context.Background())
	assert.False(t, ok)
}

func TestRegister_ValidacionLocal(t *testing.T) {
	api := &fakeAPI{}
	uc := auth.NewAuthUseCase(api, sessionstore.NewMemory(), nil)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Username: "bia", Email: "no-es-email", Password: "12345678", PasswordConfirm: "87654321",
	})
	require.Error(t, err)
	fields, _ := domain.FieldErrors(err)
	assert.Equal(t, "email inválido", fields["email"])
	assert.Equal(t, "las contraseñas no coinciden", fields["password_confirm"])
	assert.Empty(t, api.registered)

	u, err := uc.Register(context.Background(), dto.RegisterRequest{
		Username: "bia", Email: "bia@petshop.com", Password: "12345678", PasswordConfirm: "12345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "bia", u.Username)
	assert.Len(t, api.registered, 1)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("sin sesión", func(t *testing.T) {
		uc := auth.NewAuthUseCase(&fakeAPI{}, sessionstore.NewMemory(), nil)
		_, err := uc.Restore(ctx)
		assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))
	})

	t.Run("usuario cacheado no toca la red", func(t *testing.T) {
		store := sessionstore.NewMemory()
		require.NoError(t, store.SetSession(ctx, ports.Tokens{Access: "a"}, dto.UserDTO{Username: "ana"}))
		api := &fakeAPI{}
		u, err := auth.NewAuthUseCase(api, store, nil).Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ana", u.Username)
		assert.Equal(t, 0, api.checkCalls)
	})

	t.Run("sin usuario consulta check-auth", func(t *testing.T) {
		store := sessionstore.NewMemory()
		require.NoError(t, store.SetSession(ctx, ports.Tokens{Access: "a"}, dto.UserDTO{}))
		require.NoError(t, store.Clear(ctx))
		require.NoError(t, store.SetAccessToken(ctx, "a", "r"))

		api := &fakeAPI{check: &dto.CheckAuthResponse{Authenticated: true, User: &dto.UserDTO{ID: 1, Username: "ana"}}}
		u, err := auth.NewAuthUseCase(api, store, nil).Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ana", u.Username)
		cached, _ := store.User(ctx)
		require.NotNil(t, cached)
		assert.Equal(t, "ana", cached.Username)
	})

	t.Run("sesión rechazada hace logout", func(t *testing.T) {
		store := sessionstore.NewMemory()
		require.NoError(t, store.SetAccessToken(ctx, "a", "r"))
		api := &fakeAPI{checkErr: &domain.APIError{Status: 401}}
		_, err := auth.NewAuthUseCase(api, store, nil).Restore(ctx)
		assert.True(t, errors.Is(err, domain.ErrNotAuthenticated))
		ok, _ := store.IsAuthenticated(ctx)
		assert.False(t, ok)
	})

	t.Run("error de red conserva la sesión", func(t *testing.T) {
		store := sessionstore.NewMemory()
		require.NoError(t, store.SetAccessToken(ctx, "a", "r"))
		api := &fakeAPI{checkErr: domain.ErrNetwork}
		_, err := auth.NewAuthUseCase(api, store, nil).Restore(ctx)
		assert.True(t, errors.Is(err, domain.ErrNetwork))
		ok, _ := store.IsAuthenticated(ctx)
		assert.True(t, ok)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := sessionstore.NewMemory()
	require.NoError(t, store.SetSession(ctx, ports.Tokens{Access: "a", Refresh: "r"}, dto.UserDTO{ID: 1}))
	require.NoError(t, auth.NewAuthUseCase(&fakeAPI{}, store, nil).Logout(ctx))
	ok, _ := store.IsAuthenticated(ctx)
	assert.False(t, ok)
}
