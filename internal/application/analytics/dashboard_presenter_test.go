package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/application/analytics"
	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.Local)

func intPtr(n int) *int { return &n }

func datePtr(days int) *civil.Date {
	d := civil.DateOf(now).AddDays(days)
	return &d
}

func summary(id int64, brand string, expDays int) dto.ProductSummary {
	return dto.ProductSummary{ID: id, Name: "Ração", Brand: brand, Price: decimal.NewFromInt(10), Units: 1, ExpirationDate: datePtr(expDays)}
}

type fakeDashboardAPI struct {
	mu         sync.Mutex
	stats      *dto.DashboardStatsResponse
	statsErr   error
	expiring   dto.ProductSummaryList
	expErr     error
	daysAsked  []int
	statsGate  chan struct{}
	statsCalls int
	products   []dto.ProductResponse
	pagesAsked []int
}

func (f *fakeDashboardAPI) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	f.mu.Lock()
	f.statsCalls++
	n := f.statsCalls
	gate := f.statsGate
	stats := f.stats
	f.mu.Unlock()
	if gate != nil && n == 1 {
		<-gate
	}
	return stats, f.statsErr
}

func (f *fakeDashboardAPI) ExpiringSoon(_ context.Context, days int) (dto.ProductSummaryList, error) {
	f.mu.Lock()
	f.daysAsked = append(f.daysAsked, days)
	f.mu.Unlock()
	return f.expiring, f.expErr
}

// ListProducts pagina products de a 20, como el backend.
func (f *fakeDashboardAPI) ListProducts(_ context.Context, params dto.ProductListParams) (*dto.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pagesAsked = append(f.pagesAsked, params.Page)
	from := (params.Page - 1) * 20
	to := min(from+20, len(f.products))
	page := &dto.ProductPage{Count: len(f.products), Results: []dto.ProductResponse{}}
	if from < to {
		page.Results = f.products[from:to]
	}
	if to < len(f.products) {
		next := fmt.Sprintf("?page=%d", params.Page+1)
		page.Next = &next
	}
	return page, nil
}

func product(id int64, brand string, expDays int) dto.ProductResponse {
	return dto.ProductResponse{ID: id, Brand: brand, ExpirationDate: *datePtr(expDays)}
}

func newPresenter(api analytics.DashboardAPI) *analytics.DashboardPresenter {
	return analytics.NewDashboardPresenter(api, analytics.Options{Clock: clock.NewFake(now)})
}

func TestLoad_UsaCamposDelBackend(t *testing.T) {
	api := &fakeDashboardAPI{
		stats: &dto.DashboardStatsResponse{
			TotalProducts:   intPtr(12),
			TotalUnits:      intPtr(80),
			TotalStockValue: decimal.RequireFromString("1500.5"),
			ExpiredCount:    intPtr(2),
			NearExpiryCount: intPtr(3),
			TopBrands:       []inventory.BrandCount{{Brand: "Premier", Count: 7}},
		},
		expiring: dto.ProductSummaryList{summary(1, "Golden", 10)},
	}
	v, err := newPresenter(api).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{30}, api.daysAsked)
	assert.Equal(t, 12, v.TotalProducts)
	assert.Equal(t, 2, v.ExpiredCount)
	assert.Equal(t, 3, v.NearCount)
	assert.Equal(t, []inventory.BrandCount{{Brand: "Premier", Count: 7}}, v.TopBrands)
	assert.Empty(t, v.Derived)
	require.Len(t, v.Expiring, 1)
	assert.Equal(t, "10 dias", v.Expiring[0].Label)
	assert.Equal(t, inventory.BucketNear, v.Expiring[0].Bucket)
}

func TestLoad_ConCamposCompletosNoRecorreCatalogo(t *testing.T) {
	api := &fakeDashboardAPI{
		stats: &dto.DashboardStatsResponse{
			TotalProducts: intPtr(1), TotalUnits: intPtr(1), ExpiredCount: intPtr(0),
			TopBrands: []inventory.BrandCount{{Brand: "Golden", Count: 1}},
		},
	}
	_, err := newPresenter(api).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, api.pagesAsked)
}

func TestLoad_DerivaLoQueFalta(t *testing.T) {
	api := &fakeDashboardAPI{
		stats: &dto.DashboardStatsResponse{
			TotalProducts: intPtr(6),
			TotalUnits:    intPtr(9),
			// recientes no alcanzan para el ranking: se usa el catálogo
			RecentProducts: []dto.ProductSummary{summary(6, "D", 0)},
		},
		expiring: dto.ProductSummaryList{summary(2, "B", -3), summary(5, "A", 30), summary(6, "D", 0)},
		products: []dto.ProductResponse{
			product(1, "A", 100),
			product(2, "B", -3),
			product(3, "A", 200),
			product(4, "B", -1),
			product(5, "A", 30),
			product(6, "D", 0),
		},
	}
	v, err := newPresenter(api).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []inventory.BrandCount{
		{Brand: "A", Count: 3},
		{Brand: "B", Count: 2},
		{Brand: "D", Count: 1},
	}, v.TopBrands)
	assert.Equal(t, 2, v.ExpiredCount)
	assert.Equal(t, 2, v.NearCount, "vence en 30 días y vence hoy")
	assert.ElementsMatch(t, []string{"top_brands", "expired_count", "near_count"}, v.Derived)
	assert.Equal(t, "Vence hoje", v.Expiring[2].Label)
}

func TestLoad_RankingRecorreTodasLasPaginas(t *testing.T) {
	api := &fakeDashboardAPI{stats: &dto.DashboardStatsResponse{TotalProducts: intPtr(45), TotalUnits: intPtr(45)}}
	for i := range 45 {
		brand := "Golden"
		if i >= 20 {
			// Premier solo aparece a partir de la segunda página
			brand = "Premier"
		}
		api.products = append(api.products, product(int64(i+1), brand, 100))
	}
	v, err := newPresenter(api).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, api.pagesAsked)
	assert.Equal(t, []inventory.BrandCount{{Brand: "Premier", Count: 25}, {Brand: "Golden", Count: 20}}, v.TopBrands)
}

func TestLoad_TopBrandsTruncaEn5(t *testing.T) {
	api := &fakeDashboardAPI{stats: &dto.DashboardStatsResponse{TotalProducts: intPtr(7), TotalUnits: intPtr(7)}}
	for i, b := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		api.products = append(api.products, product(int64(i+1), b, 100))
	}
	v, err := newPresenter(api).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, v.TopBrands, 5)
	assert.Equal(t, "A", v.TopBrands[0].Brand)
	assert.Equal(t, "E", v.TopBrands[4].Brand)
}

func TestLoad_CualquierFalloEsError(t *testing.T) {
	okStats := &dto.DashboardStatsResponse{TotalProducts: intPtr(1), TotalUnits: intPtr(1)}

	p := newPresenter(&fakeDashboardAPI{stats: okStats, expErr: domain.ErrTimeout})
	_, err := p.Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrTimeout))
	assert.Nil(t, p.View(), "sin render parcial")

	p = newPresenter(&fakeDashboardAPI{statsErr: &domain.APIError{Status: 500}})
	_, err = p.Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrServer))
}

func TestLoad_CargaObsoletaSeDescarta(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeDashboardAPI{
		stats:     &dto.DashboardStatsResponse{TotalProducts: intPtr(1), TotalUnits: intPtr(1)},
		statsGate: gate,
	}
	p := newPresenter(api)

	first := make(chan error, 1)
	go func() {
		_, err := p.Load(context.Background())
		first <- err
	}()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.statsCalls == 1
	}, time.Second, 5*time.Millisecond)

	_, err := p.Load(context.Background())
	require.NoError(t, err)
	close(gate)
	assert.ErrorIs(t, <-first, domain.ErrSuperseded)
	assert.NotNil(t, p.View())
}

type fakeReport struct{ got *analytics.DashboardView }

func (f *fakeReport) GenerateStockReport(_ context.Context, v *analytics.DashboardView) ([]byte, error) {
	f.got = v
	return []byte("%PDF-1.3"), nil
}

func TestReport(t *testing.T) {
	api := &fakeDashboardAPI{stats: &dto.DashboardStatsResponse{TotalProducts: intPtr(1), TotalUnits: intPtr(1)}}
	gen := &fakeReport{}
	pdf, v, err := newPresenter(api).Report(context.Background(), gen)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(pdf))
	assert.Same(t, v, gen.got)
}
