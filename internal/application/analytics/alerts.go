package analytics

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

// DefaultLowStockMin umbral de estoque baixo.
const DefaultLowStockMin = 10

// AlertsAPI listas de alerta del backend.
type AlertsAPI interface {
	ExpiringSoon(ctx context.Context, days int) (dto.ProductSummaryList, error)
	Expired(ctx context.Context) (dto.ProductSummaryList, error)
	LowStock(ctx context.Context, minQuantity int) (dto.ProductSummaryList, error)
}

// AlertItem producto con la etiqueta de días hasta el vencimiento.
type AlertItem struct {
	dto.ProductSummary
	DaysLeft int
	Label    string
}

// Alerts las tres listas de alerta.
type Alerts struct {
	Expiring []AlertItem
	Expired  []AlertItem
	LowStock []AlertItem
}

// AlertsUseCase consulta las listas de alerta en paralelo.
type AlertsUseCase struct {
	api   AlertsAPI
	clock clock.Clock
}

// NewAlertsUseCase construye el caso de uso.
func NewAlertsUseCase(api AlertsAPI, c clock.Clock) *AlertsUseCase {
	if c == nil {
		c = clock.RealClock{}
	}
	return &AlertsUseCase{api: api, clock: c}
}

// Load pide las tres listas; falla si cualquiera falla.
func (uc *AlertsUseCase) Load(ctx context.Context, days, minQuantity int) (*Alerts, error) {
	if days <= 0 {
		days = inventory.DefaultHorizonDays
	}
	if minQuantity <= 0 {
		minQuantity = DefaultLowStockMin
	}
	var expiring, expired, low dto.ProductSummaryList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expiring, err = uc.api.ExpiringSoon(gctx, days)
		return wrap("próximos a vencer", err)
	})
	g.Go(func() (err error) {
		expired, err = uc.api.Expired(gctx)
		return wrap("vencidos", err)
	})
	g.Go(func() (err error) {
		low, err = uc.api.LowStock(gctx, minQuantity)
		return wrap("estoque baixo", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	today := clock.Today(uc.clock)
	return &Alerts{
		Expiring: toAlertItems(expiring, today),
		Expired:  toAlertItems(expired, today),
		LowStock: toAlertItems(low, today),
	}, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("alertas: %s: %w", what, err)
}

func toAlertItems(list dto.ProductSummaryList, today civil.Date) []AlertItem {
	out := make([]AlertItem, 0, len(list))
	for _, p := range list {
		item := AlertItem{ProductSummary: p}
		if p.ExpirationDate != nil {
			item.DaysLeft = inventory.DaysUntil(*p.ExpirationDate, today)
			item.Label = inventory.AlertLabel(item.DaysLeft)
		}
		out = append(out, item)
	}
	return out
}
