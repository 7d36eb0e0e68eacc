package format_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockctl/internal/pkg/format"
)

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 89,90", format.BRL(decimal.RequireFromString("89.9")))
	assert.Equal(t, "R$ 0,00", format.BRL(decimal.Zero))
	assert.Equal(t, "R$ 10,01", format.BRL(decimal.RequireFromString("10.005")))
	assert.Equal(t, "-R$ 5,50", format.BRL(decimal.RequireFromString("-5.5")))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "05/03/2025", format.Date(civil.Date{Year: 2025, Month: time.March, Day: 5}))
	assert.Equal(t, "-", format.Date(civil.Date{}))
	assert.Equal(t, "-", format.DatePtr(nil))
}
