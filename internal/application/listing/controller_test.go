package listing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/listing"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

var today = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local)

func strPtr(s string) *string { return &s }

type fakeAPI struct {
	mu      sync.Mutex
	calls   []dto.ProductListParams
	page    *dto.ProductPage
	err     error
	deleted []int64
	delErr  error
	// gates bloquea la llamada n hasta que se cierre el canal
	gates map[int]chan struct{}
	pages map[int]*dto.ProductPage
	errs  map[int]error
}

func (f *fakeAPI) ListProducts(_ context.Context, params dto.ProductListParams) (*dto.ProductPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	n := len(f.calls)
	gate := f.gates[n]
	page := f.page
	if p, ok := f.pages[n]; ok {
		page = p
	}
	err := f.err
	if e, ok := f.errs[n]; ok {
		err = e
	}
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return page, err
}

func (f *fakeAPI) DeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.delErr
}

func (f *fakeAPI) lastCall() dto.ProductListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func product(id int64, exp civil.Date) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             id,
		Type:           "Ração",
		Brand:          "Golden",
		Quantity:       3,
		Price:          decimal.RequireFromString("50.00"),
		PurchaseDate:   civil.Date{Year: 2024, Month: time.January, Day: 2},
		ExpirationDate: exp,
	}
}

func newController(api *fakeAPI) *listing.Controller {
	return listing.NewController(api, listing.Options{Clock: clock.NewFake(today)})
}

func TestSetFilter_VuelveAPagina1(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{page: &dto.ProductPage{Count: 45, Next: strPtr("n"), Previous: strPtr("p"), Results: []dto.ProductResponse{}}}
	c := newController(api)

	_, err := c.GoToPage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, api.lastCall().Page)

	_, err = c.SetFilter(ctx, inventory.FilterBrand, "Golden")
	require.NoError(t, err)
	last := api.lastCall()
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, "Golden", last.Filters["marca"])
	assert.Equal(t, 1, c.Page())
	assert.Len(t, api.calls, 2, "cada cambio es exactamente una petición")

	// quitar un filtro también reinicia la página
	_, _ = c.GoToPage(ctx, 2)
	_, err = c.SetFilter(ctx, inventory.FilterBrand, "")
	require.NoError(t, err)
	assert.Equal(t, 1, api.lastCall().Page)
	assert.Empty(t, api.lastCall().Filters)
}

func TestCriteria_MismaConsultaMismosParametros(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{page: &dto.ProductPage{Results: []dto.ProductResponse{}}}
	c := newController(api)

	crit := listing.Criteria{"search": "ração", "marca": "", "fornecedor": "   ", "preco_min": "10,5"}
	_, err := c.SetCriteria(ctx, crit)
	require.NoError(t, err)
	_, err = c.SetCriteria(ctx, crit)
	require.NoError(t, err)

	require.Len(t, api.calls, 2)
	assert.Equal(t, api.calls[0].Query(), api.calls[1].Query())
	assert.Equal(t, "page=1&preco_min=10.5&search=ra%C3%A7%C3%A3o", api.calls[0].Query().Encode())
}

func TestSetCriteria_Invalidos(t *testing.T) {
	api := &fakeAPI{page: &dto.ProductPage{Results: []dto.ProductResponse{}}}
	c := newController(api)

	_, err := c.SetCriteria(context.Background(), listing.Criteria{
		"status_validade":   "podre",
		"data_validade_fim": "31/02/2024",
		"quantidade_min":    "1.5",
		"color":             "azul",
	})
	require.Error(t, err)
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Len(t, fields, 4)
	assert.Empty(t, api.calls, "criterios inválidos no llegan a la red")
}

func TestNormalizeFilter_FechaBrasilena(t *testing.T) {
	v, err := inventory.NormalizeFilter(inventory.FilterExpirationTo, "05/03/2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", v)
}

func TestClearFilters(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{page: &dto.ProductPage{Results: []dto.ProductResponse{}}}
	c := newController(api)
	_, _ = c.SetFilter(ctx, "marca", "Golden")
	_, _ = c.GoToPage(ctx, 2)

	_, err := c.ClearFilters(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Criteria())
	assert.Equal(t, 1, api.lastCall().Page)
}

func TestPaginacion_DesdeCursoresDelServidor(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{page: &dto.ProductPage{Count: 41, Next: strPtr("http://x/?page=2"), Results: []dto.ProductResponse{}}}
	c := newController(api)

	v, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v.TotalPages)
	assert.True(t, v.HasNext)
	assert.False(t, v.HasPrev)

	_, err = c.PrevPage(ctx)
	assert.ErrorIs(t, err, listing.ErrNoMorePages)

	// el servidor no ofrece "next" aunque la cuenta diga que hay más
	api.page = &dto.ProductPage{Count: 41, Previous: strPtr("p"), Results: []dto.ProductResponse{}}
	v, err = c.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Page)
	assert.False(t, v.HasNext)
	_, err = c.NextPage(ctx)
	assert.ErrorIs(t, err, listing.ErrNoMorePages)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, listing.TotalPages(0, 20))
	assert.Equal(t, 1, listing.TotalPages(20, 20))
	assert.Equal(t, 2, listing.TotalPages(21, 20))
}

func TestFilas_EstadoYFormato(t *testing.T) {
	todayDate := civil.DateOf(today)
	api := &fakeAPI{page: &dto.ProductPage{Count: 3, Results: []dto.ProductResponse{
		product(1, todayDate.AddDays(-1)),
		product(2, todayDate.AddDays(30)),
		product(3, todayDate.AddDays(200)),
	}}}
	v, err := newController(api).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, v.Rows, 3)

	assert.Equal(t, inventory.StatusExpired, v.Rows[0].Status)
	assert.Equal(t, inventory.StatusNear, v.Rows[1].Status)
	assert.Equal(t, inventory.StatusOK, v.Rows[2].Status)
	assert.Equal(t, 30, v.Rows[1].DaysToExpire)
	assert.Equal(t, "R$ 50,00", v.Rows[0].PriceText)
	assert.Equal(t, "R$ 150,00", v.Rows[0].TotalText)
	assert.Equal(t, "02/01/2024", v.Rows[0].PurchaseText)
}

func TestRespuestaObsoletaSeDescarta(t *testing.T) {
	ctx := context.Background()
	gate := make(chan struct{})
	api := &fakeAPI{
		gates: map[int]chan struct{}{1: gate},
		pages: map[int]*dto.ProductPage{
			1: {Count: 100, Results: []dto.ProductResponse{product(1, civil.DateOf(today))}},
			2: {Count: 1, Results: []dto.ProductResponse{product(2, civil.DateOf(today))}},
		},
	}
	c := newController(api)

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.SetFilter(ctx, "marca", "Golden")
		firstDone <- err
	}()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.calls) == 1
	}, time.Second, 5*time.Millisecond)

	v, err := c.SetFilter(ctx, "marca", "Premier")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Rows[0].ID)

	close(gate)
	err = <-firstDone
	assert.ErrorIs(t, err, domain.ErrSuperseded)
	assert.Equal(t, int64(2), c.View().Rows[0].ID, "la respuesta vieja no pisa la vista")
	assert.Equal(t, "Premier", c.Criteria()["marca"])
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	todayDate := civil.DateOf(today)

	t.Run("cancelado no llama a la red", func(t *testing.T) {
		api := &fakeAPI{page: &dto.ProductPage{Results: []dto.ProductResponse{product(5, todayDate)}}}
		c := newController(api)
		_, _ = c.Load(ctx)

		var asked listing.ProductRow
		ok, _, err := c.Delete(ctx, 5, func(r listing.ProductRow) bool { asked = r; return false })
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "Golden", asked.Brand)
		assert.Empty(t, api.deleted)
		assert.Len(t, api.calls, 1)
	})

	t.Run("confirmado borra y recarga la página actual", func(t *testing.T) {
		api := &fakeAPI{page: &dto.ProductPage{Count: 30, Previous: strPtr("p"), Results: []dto.ProductResponse{product(5, todayDate)}}}
		c := newController(api)
		_, _ = c.GoToPage(ctx, 2)

		ok, _, err := c.Delete(ctx, 5, func(listing.ProductRow) bool { return true })
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int64{5}, api.deleted)
		assert.Len(t, api.calls, 2)
		assert.Equal(t, 2, api.lastCall().Page)
	})

	t.Run("recarga aunque el borrado falle", func(t *testing.T) {
		api := &fakeAPI{
			page:   &dto.ProductPage{Results: []dto.ProductResponse{product(5, todayDate)}},
			delErr: &domain.APIError{Status: 404, Detail: "Não encontrado."},
		}
		c := newController(api)
		_, _ = c.Load(ctx)

		ok, v, err := c.Delete(ctx, 5, nil)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.NotNil(t, v)
		assert.Len(t, api.calls, 2)
	})

	t.Run("página vacía tras borrar retrocede", func(t *testing.T) {
		api := &fakeAPI{
			page: &dto.ProductPage{Results: []dto.ProductResponse{product(5, todayDate)}},
			// la recarga de la página 2 responde 404
			errs: map[int]error{2: &domain.APIError{Status: 404, Detail: "Página inválida."}},
		}
		c := newController(api)
		_, _ = c.GoToPage(ctx, 2)

		ok, v, err := c.Delete(ctx, 5, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NotNil(t, v)
		assert.Equal(t, 1, v.Page)
		assert.Equal(t, 1, c.Page())
		assert.Len(t, api.calls, 3)
	})
}
