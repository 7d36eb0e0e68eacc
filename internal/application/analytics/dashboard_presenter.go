// Package analytics contiene el presentador del dashboard de estoque y las
// listas de alertas (vencimiento y estoque baixo).
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/internal/pkg/format"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// DashboardAPI lecturas que necesita el dashboard. ListProducts solo se usa
// cuando el backend no trae el ranking de marcas o el conteo de vencidos.
type DashboardAPI interface {
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	ExpiringSoon(ctx context.Context, days int) (dto.ProductSummaryList, error)
	ListProducts(ctx context.Context, params dto.ProductListParams) (*dto.ProductPage, error)
}

// maxCatalogPages tope de páginas al recorrer el catálogo completo.
const maxCatalogPages = 500

// ReportGenerator genera el PDF del dashboard.
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, view *DashboardView) ([]byte, error)
}

// Options parámetros del presentador.
type Options struct {
	HorizonDays int
	TopBrands   int
	Clock       clock.Clock
	Logger      *logger.Logger
}

func (o *Options) defaults() {
	if o.HorizonDays <= 0 {
		o.HorizonDays = inventory.DefaultHorizonDays
	}
	if o.TopBrands <= 0 {
		o.TopBrands = inventory.DefaultTopBrands
	}
	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
}

// ExpiringItem producto de la lista "vence pronto" con su etiqueta.
type ExpiringItem struct {
	dto.ProductSummary
	Bucket   inventory.Bucket
	DaysLeft int
	Label    string
}

// DashboardView todo lo que se muestra en el dashboard.
type DashboardView struct {
	GeneratedAt    time.Time
	Today          civil.Date
	HorizonDays    int
	TotalProducts  int
	TotalUnits     int
	TotalValue     decimal.Decimal
	TotalValueText string
	ExpiredCount   int
	NearCount      int
	TopBrands      []inventory.BrandCount
	ProductsByType []dto.TypeCount
	Recent         []dto.ProductSummary
	Expiring       []ExpiringItem

	// Derived indica qué campos se calcularon localmente por no venir del backend.
	Derived []string
}

// DashboardPresenter carga y deriva la vista del dashboard.
type DashboardPresenter struct {
	api  DashboardAPI
	opts Options
	log  *logger.Logger

	mu   sync.Mutex
	gen  uint64
	view *DashboardView
}

// NewDashboardPresenter construye el presentador.
func NewDashboardPresenter(api DashboardAPI, opts Options) *DashboardPresenter {
	opts.defaults()
	return &DashboardPresenter{api: api, opts: opts, log: opts.Logger.Component("dashboard")}
}

// View última vista cargada.
func (p *DashboardPresenter) View() *DashboardView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Load pide en paralelo las estadísticas y la lista de próximos a vencer. Solo
// arma la vista si ambas llegan; cualquier fallo deja el dashboard en error.
// Una carga superada por otra más reciente devuelve domain.ErrSuperseded.
func (p *DashboardPresenter) Load(ctx context.Context) (*DashboardView, error) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	var (
		stats    *dto.DashboardStatsResponse
		expiring dto.ProductSummaryList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.api.DashboardStats(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: estadísticas: %w", err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		list, err := p.api.ExpiringSoon(gctx, p.opts.HorizonDays)
		if err != nil {
			return fmt.Errorf("dashboard: próximos a vencer: %w", err)
		}
		expiring = list
		return nil
	})
	err := g.Wait()

	var catalog []dto.ProductResponse
	if err == nil && (stats.TopBrands == nil || stats.ExpiredCount == nil) {
		catalog, err = p.catalog(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		p.view = nil
		return nil, err
	}
	view := p.build(stats, expiring, catalog)
	p.view = view
	if len(view.Derived) > 0 {
		p.log.Debug().Strs("derived", view.Derived).Msg("campos calculados localmente")
	}
	return view, nil
}

// Report carga el dashboard y lo renderiza con gen.
func (p *DashboardPresenter) Report(ctx context.Context, gen ReportGenerator) ([]byte, *DashboardView, error) {
	view, err := p.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := gen.GenerateStockReport(ctx, view)
	if err != nil {
		return nil, view, fmt.Errorf("dashboard: generar reporte: %w", err)
	}
	return pdf, view, nil
}

// catalog recorre todas las páginas de products/.
func (p *DashboardPresenter) catalog(ctx context.Context) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	for page := 1; page <= maxCatalogPages; page++ {
		res, err := p.api.ListProducts(ctx, dto.ProductListParams{Page: page})
		if err != nil {
			return nil, fmt.Errorf("dashboard: catálogo: %w", err)
		}
		out = append(out, res.Results...)
		if res.Next == nil {
			return out, nil
		}
	}
	p.log.Warn().Int("pages", maxCatalogPages).Msg("catálogo truncado")
	return out, nil
}

func (p *DashboardPresenter) build(stats *dto.DashboardStatsResponse, expiring dto.ProductSummaryList, catalog []dto.ProductResponse) *DashboardView {
	now := p.opts.Clock.Now()
	today := civil.DateOf(now)
	v := &DashboardView{
		GeneratedAt:    now,
		Today:          today,
		HorizonDays:    p.opts.HorizonDays,
		TotalProducts:  *stats.TotalProducts,
		TotalUnits:     *stats.TotalUnits,
		TotalValue:     stats.TotalStockValue,
		TotalValueText: format.BRL(stats.TotalStockValue),
		ProductsByType: stats.ProductsByType,
		Recent:         stats.RecentProducts,
	}

	for _, item := range expiring {
		e := ExpiringItem{ProductSummary: item, Bucket: inventory.BucketNear, DaysLeft: -1}
		if item.ExpirationDate != nil {
			e.Bucket = inventory.Classify(*item.ExpirationDate, today, p.opts.HorizonDays)
			e.DaysLeft = inventory.DaysUntil(*item.ExpirationDate, today)
			e.Label = inventory.AlertLabel(e.DaysLeft)
		}
		v.Expiring = append(v.Expiring, e)
	}

	if stats.TopBrands != nil {
		v.TopBrands = stats.TopBrands
	} else {
		brands := make([]string, 0, len(catalog))
		for _, c := range catalog {
			brands = append(brands, c.Brand)
		}
		v.TopBrands = inventory.TopBrands(brands, p.opts.TopBrands)
		v.Derived = append(v.Derived, "top_brands")
	}
	if len(v.TopBrands) > p.opts.TopBrands {
		v.TopBrands = v.TopBrands[:p.opts.TopBrands]
	}

	if stats.ExpiredCount != nil {
		v.ExpiredCount = *stats.ExpiredCount
	} else {
		for _, c := range catalog {
			if inventory.Classify(c.ExpirationDate, today, p.opts.HorizonDays) == inventory.BucketExpired {
				v.ExpiredCount++
			}
		}
		v.Derived = append(v.Derived, "expired_count")
	}

	if stats.NearExpiryCount != nil {
		v.NearCount = *stats.NearExpiryCount
	} else {
		for _, e := range v.Expiring {
			if e.Bucket == inventory.BucketNear {
				v.NearCount++
			}
		}
		v.Derived = append(v.Derived, "near_count")
	}
	return v
}
