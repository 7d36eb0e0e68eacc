package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockctl/internal/domain"
)

func TestAPIError_UnwrapPorStatus(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{401, domain.ErrUnauthorized},
		{403, domain.ErrForbidden},
		{404, domain.ErrNotFound},
		{409, domain.ErrConflict},
		{400, domain.ErrInvalidInput},
		{500, domain.ErrServer},
	}
	for _, c := range cases {
		err := fmt.Errorf("envuelto: %w", &domain.APIError{Status: c.status})
		assert.True(t, errors.Is(err, c.want), "status %d", c.status)
	}
}

func TestFieldErrors_LocalYServidor(t *testing.T) {
	ve := &domain.ValidationError{}
	ve.Add("marca", "Marca é obrigatória")
	ve.Add("marca", "ignorado")

	fields, ok := domain.FieldErrors(ve)
	assert.True(t, ok)
	assert.Equal(t, "Marca é obrigatória", fields["marca"])

	ae := &domain.APIError{Status: 400, Fields: map[string]string{"preco": "inválido"}}
	fields, ok = domain.FieldErrors(fmt.Errorf("crear: %w", ae))
	assert.True(t, ok)
	assert.Equal(t, "inválido", fields["preco"])

	_, ok = domain.FieldErrors(&domain.APIError{Status: 500, Detail: "boom"})
	assert.False(t, ok)
}

func TestValidationError_OrNil(t *testing.T) {
	ve := &domain.ValidationError{}
	assert.NoError(t, ve.OrNil())
	ve.Add("x", "y")
	assert.Error(t, ve.OrNil())
}
