// Package listing es el controlador del listado de productos: mantiene los
// criterios de filtro y la página actual, pide la página al backend cada vez
// que cambian y deriva el estado de presentación de cada fila.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// DefaultPageSize tamaño de página fijo del backend.
const DefaultPageSize = 20

// API lo que el controlador necesita de los resource clients.
type API interface {
	ListProducts(ctx context.Context, params dto.ProductListParams) (*dto.ProductPage, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Options parámetros opcionales.
type Options struct {
	PageSize int
	Clock    clock.Clock
	Logger   *logger.Logger
}

// Controller estado del listado. Seguro para uso concurrente: cada petición
// lleva un número de generación y una respuesta de una generación vieja se
// descarta con domain.ErrSuperseded.
type Controller struct {
	api      API
	pageSize int
	clock    clock.Clock
	log      *logger.Logger

	mu       sync.Mutex
	criteria Criteria
	page     int
	gen      uint64
	view     *View
}

// NewController construye el controlador en la página 1 y sin filtros.
func NewController(api API, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Controller{
		api:      api,
		pageSize: opts.PageSize,
		clock:    opts.Clock,
		log:      opts.Logger.Component("listing"),
		criteria: Criteria{},
		page:     1,
	}
}

// Criteria copia de los filtros activos.
func (c *Controller) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria.Clone()
}

// Page página actual.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// View última vista aceptada (nil antes de la primera carga).
func (c *Controller) View() *View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Load carga la página actual con los criterios actuales.
func (c *Controller) Load(ctx context.Context) (*View, error) {
	return c.fetch(ctx)
}

// SetFilter cambia un criterio (valor vacío lo quita), vuelve a la página 1 y recarga.
func (c *Controller) SetFilter(ctx context.Context, key, value string) (*View, error) {
	norm, err := inventory.NormalizeFilter(key, value)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if norm == "" {
		delete(c.criteria, key)
	} else {
		c.criteria[key] = norm
	}
	c.page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetCriteria reemplaza todos los criterios, vuelve a la página 1 y recarga.
// Si algún valor es inválido no se cambia nada.
func (c *Controller) SetCriteria(ctx context.Context, criteria Criteria) (*View, error) {
	next := Criteria{}
	ve := &domain.ValidationError{}
	for k, v := range criteria {
		norm, err := inventory.NormalizeFilter(k, v)
		if err != nil {
			if fields, ok := domain.FieldErrors(err); ok {
				for f, msg := range fields {
					ve.Add(f, msg)
				}
				continue
			}
			return nil, err
		}
		if norm != "" {
			next[k] = norm
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.criteria = next
	c.page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// ClearFilters vuelve a los criterios por defecto (ninguno) y a la página 1.
func (c *Controller) ClearFilters(ctx context.Context) (*View, error) {
	return c.SetCriteria(ctx, nil)
}

// GoToPage carga la página n (≥ 1) sin tocar los criterios.
func (c *Controller) GoToPage(ctx context.Context, n int) (*View, error) {
	if n < 1 {
		ve := &domain.ValidationError{}
		ve.Add("page", "página inválida")
		return nil, ve
	}
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()
	return c.fetch(ctx)
}

// ErrNoMorePages la vista actual no ofrece la página pedida.
var ErrNoMorePages = errors.New("no hay más páginas en esa dirección")

// NextPage avanza solo si el servidor indicó una página siguiente.
func (c *Controller) NextPage(ctx context.Context) (*View, error) {
	c.mu.Lock()
	v := c.view
	c.mu.Unlock()
	if v == nil || !v.HasNext {
		return nil, ErrNoMorePages
	}
	return c.GoToPage(ctx, v.Page+1)
}

// PrevPage retrocede solo si el servidor indicó una página anterior.
func (c *Controller) PrevPage(ctx context.Context) (*View, error) {
	c.mu.Lock()
	v := c.view
	c.mu.Unlock()
	if v == nil || !v.HasPrev {
		return nil, ErrNoMorePages
	}
	return c.GoToPage(ctx, v.Page-1)
}

// ConfirmFunc decide si se borra la fila; false cancela sin llamar a la red.
type ConfirmFunc func(row ProductRow) bool

// Delete pide confirmación, borra y recarga la página actual siempre (aunque el
// borrado falle). Devuelve false sin error si el usuario cancela.
func (c *Controller) Delete(ctx context.Context, id int64, confirm ConfirmFunc) (bool, *View, error) {
	row := c.rowByID(id)
	if confirm != nil && !confirm(row) {
		return false, c.View(), nil
	}
	delErr := c.api.DeleteProduct(ctx, id)
	if delErr != nil {
		c.log.Warn().Err(delErr).Int64("product_id", id).Msg("no se pudo eliminar el producto")
	}

	view, err := c.fetch(ctx)
	if err != nil && errors.Is(err, domain.ErrNotFound) {
		// la página quedó vacía (se borró el último elemento de la última página)
		if page := c.Page(); page > 1 {
			view, err = c.GoToPage(ctx, page-1)
		}
	}
	if delErr != nil {
		return false, view, fmt.Errorf("eliminar producto %d: %w", id, delErr)
	}
	return true, view, err
}

func (c *Controller) rowByID(id int64) ProductRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != nil {
		for _, r := range c.view.Rows {
			if r.ID == id {
				return r
			}
		}
	}
	return ProductRow{ProductResponse: dto.ProductResponse{ID: id}}
}

func (c *Controller) fetch(ctx context.Context) (*View, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	params := dto.ProductListParams{Filters: c.criteria.Clone(), Page: c.page}
	c.mu.Unlock()

	page, err := c.api.ListProducts(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug().Uint64("generation", gen).Uint64("current", c.gen).Msg("respuesta obsoleta descartada")
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	view := buildView(page, params, c.pageSize, clock.Today(c.clock))
	c.view = view
	return view, nil
}
