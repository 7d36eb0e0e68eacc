package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/stockctl/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura del dashboard.
type AnalyticsRepo struct {
	db *gorm.DB
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// Totals cuenta productos y unidades y suma el valor del estoque. El valor se
// acumula en decimal fuera de SQL para no pasar por REAL.
func (r *AnalyticsRepo) Totals(ctx context.Context) (repository.StockTotals, error) {
	var rows []struct {
		Preco      decimal.Decimal
		Quantidade int
	}
	if err := r.db.WithContext(ctx).Model(&productModel{}).Select("preco, quantidade").Scan(&rows).Error; err != nil {
		return repository.StockTotals{}, fmt.Errorf("analytics.Totals: %w", err)
	}
	t := repository.StockTotals{Products: len(rows), Value: decimal.Zero}
	for _, row := range rows {
		t.Units += row.Quantidade
		t.Value = t.Value.Add(row.Preco.Mul(decimal.NewFromInt(int64(row.Quantidade))))
	}
	return t, nil
}

// TopBrands marcas con más productos.
func (r *AnalyticsRepo) TopBrands(ctx context.Context, limit int) ([]repository.GroupCount, error) {
	return r.groupCount(ctx, "marca", limit)
}

// CountByType productos por tipo.
func (r *AnalyticsRepo) CountByType(ctx context.Context, limit int) ([]repository.GroupCount, error) {
	return r.groupCount(ctx, "tipo_produto", limit)
}

func (r *AnalyticsRepo) groupCount(ctx context.Context, column string, limit int) ([]repository.GroupCount, error) {
	out := []repository.GroupCount{}
	q := r.db.WithContext(ctx).Model(&productModel{}).
		Select(column + " AS name, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Order("count DESC").
		Order(column + " ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("analytics.groupCount(%s): %w", column, err)
	}
	return out, nil
}
