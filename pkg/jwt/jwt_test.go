package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/stockctl/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "stock-control-test"
)

func TestGenerateAndParse_Access(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 42, pkgjwt.TokenAccess, testIssuer, 5)
	require.NoError(t, err)

	uid, err := pkgjwt.Parse(testSecret, tok, pkgjwt.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), uid)
}

func TestParse_TipoIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 42, pkgjwt.TokenRefresh, testIssuer, 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.TokenAccess)
	assert.Error(t, err, "un refresh token no sirve como access token")
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, pkgjwt.TokenAccess, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.TokenAccess)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, pkgjwt.TokenAccess, testIssuer, 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok, pkgjwt.TokenAccess)
	assert.Error(t, err)
}

func TestPeek_SinVerificarFirma(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 7, pkgjwt.TokenAccess, testIssuer, 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Peek(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "7", claims.Subject)

	_, err = pkgjwt.Peek("no.es.jwt")
	assert.Error(t, err)
}
