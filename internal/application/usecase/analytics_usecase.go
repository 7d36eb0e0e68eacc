package usecase

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/domain/repository"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

const (
	dashboardTopN     = inventory.DefaultTopBrands
	dashboardRecentN  = 5
	dashboardAlertsN  = 5
	maxExpiringDays   = 365
	DefaultLowStockAt = inventory.LowStockAlertMax
)

// AnalyticsUseCase arma las estadísticas del dashboard y las listas de
// vencimiento y estoque bajo.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	alertRepo     repository.AlertRepository
	clock         clock.Clock
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	alertRepo repository.AlertRepository,
	c clock.Clock,
) *AnalyticsUseCase {
	if c == nil {
		c = clock.RealClock{}
	}
	return &AnalyticsUseCase{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		alertRepo:     alertRepo,
		clock:         c,
	}
}

// DashboardStats agregados de products/dashboard/stats/. Las consultas son
// independientes y corren en paralelo.
func (uc *AnalyticsUseCase) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	today := clock.Today(uc.clock)

	var (
		totals          repository.StockTotals
		brands, types   []repository.GroupCount
		recent          []*entity.Product
		alerts          []*entity.StockAlert
		expired, nearby int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = uc.analyticsRepo.Totals(gctx)
		return wrap("totales", err)
	})
	g.Go(func() (err error) {
		brands, err = uc.analyticsRepo.TopBrands(gctx, dashboardTopN)
		return wrap("marcas", err)
	})
	g.Go(func() (err error) {
		types, err = uc.analyticsRepo.CountByType(gctx, 0)
		return wrap("tipos", err)
	})
	g.Go(func() (err error) {
		recent, _, err = uc.productRepo.List(gctx, repository.ProductFilter{Ordering: "-created_at"}, dashboardRecentN, 0)
		return wrap("recientes", err)
	})
	g.Go(func() (err error) {
		alerts, err = uc.alertRepo.ListOpen(gctx, dashboardAlertsN)
		return wrap("alertas", err)
	})
	g.Go(func() (err error) {
		expired, err = uc.countStatus(gctx, inventory.StatusExpired, today)
		return wrap("vencidos", err)
	})
	g.Go(func() (err error) {
		nearby, err = uc.countStatus(gctx, inventory.StatusNear, today)
		return wrap("próximos al vencimiento", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products, units := totals.Products, totals.Units
	expiredN, nearN := int(expired), int(nearby)
	out := &dto.DashboardStatsResponse{
		TotalProducts:    &products,
		TotalUnits:       &units,
		TotalStockValue:  totals.Value.Round(2),
		ExpiredCount:     &expiredN,
		NearExpiryCount:  &nearN,
		TopBrands:        make([]inventory.BrandCount, 0, len(brands)),
		ProductsByType:   make([]dto.TypeCount, 0, len(types)),
		RecentProducts:   make([]dto.ProductSummary, 0, len(recent)),
		ExpirationAlerts: make([]dto.StockAlertDTO, 0, len(alerts)),
	}
	for _, b := range brands {
		out.TopBrands = append(out.TopBrands, inventory.BrandCount{Brand: b.Name, Count: b.Count})
	}
	for _, t := range types {
		out.ProductsByType = append(out.ProductsByType, dto.TypeCount{Name: t.Name, Value: t.Count})
	}
	for _, p := range recent {
		out.RecentProducts = append(out.RecentProducts, dto.ProductSummaryFromEntity(*p))
	}
	for _, a := range alerts {
		item, err := uc.alertDTO(ctx, a)
		if err != nil {
			return nil, err
		}
		out.ExpirationAlerts = append(out.ExpirationAlerts, item)
	}
	return out, nil
}

// ExpiringSoon productos que vencen entre hoy y hoy+days, el más urgente primero.
func (uc *AnalyticsUseCase) ExpiringSoon(ctx context.Context, days int) (dto.ProductSummaryList, error) {
	if days <= 0 {
		days = inventory.DefaultHorizonDays
	}
	days = min(days, maxExpiringDays)
	today := clock.Today(uc.clock)
	to := today.AddDays(days)
	return uc.summaries(ctx, repository.ProductFilter{
		StatusFrom: &today,
		StatusTo:   &to,
		Ordering:   "data_validade",
	})
}

// Expired productos vencidos, el de vencimiento más reciente primero.
func (uc *AnalyticsUseCase) Expired(ctx context.Context) (dto.ProductSummaryList, error) {
	from, to := inventory.StatusRange(inventory.StatusExpired, clock.Today(uc.clock))
	return uc.summaries(ctx, repository.ProductFilter{
		StatusFrom: from,
		StatusTo:   to,
		Ordering:   "-data_validade",
	})
}

// LowStock productos con cantidad <= maxQty (maxQty <= 0 usa el umbral de alerta).
func (uc *AnalyticsUseCase) LowStock(ctx context.Context, maxQty int) (dto.ProductSummaryList, error) {
	if maxQty <= 0 {
		maxQty = DefaultLowStockAt
	}
	return uc.summaries(ctx, repository.ProductFilter{
		QuantityMax: &maxQty,
		Ordering:    "quantidade",
	})
}

func (uc *AnalyticsUseCase) summaries(ctx context.Context, f repository.ProductFilter) (dto.ProductSummaryList, error) {
	list, _, err := uc.productRepo.List(ctx, f, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make(dto.ProductSummaryList, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductSummaryFromEntity(*p))
	}
	return out, nil
}

func (uc *AnalyticsUseCase) countStatus(ctx context.Context, s inventory.Status, today civil.Date) (int64, error) {
	from, to := inventory.StatusRange(s, today)
	// limit 1: solo interesa el total
	_, total, err := uc.productRepo.List(ctx, repository.ProductFilter{StatusFrom: from, StatusTo: to}, 1, 0)
	return total, err
}

func (uc *AnalyticsUseCase) alertDTO(ctx context.Context, a *entity.StockAlert) (dto.StockAlertDTO, error) {
	out := dto.StockAlertDTO{
		ID:         a.ID,
		Message:    a.Message,
		CreatedAt:  a.CreatedAt,
		Resolved:   a.Resolved,
		ResolvedAt: a.ResolvedAt,
	}
	p, err := uc.productRepo.GetByID(ctx, a.ProductID)
	if err != nil {
		return out, err
	}
	if p != nil {
		out.ProductName = p.Type
		out.ProductBrand = p.Brand
		out.ProductExpiration = p.ExpirationDate.String()
		out.ProductQuantity = p.Quantity
	}
	return out, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("analytics: %s: %w", what, err)
	}
	return nil
}
