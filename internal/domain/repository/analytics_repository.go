package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockTotals agregados globales del estoque.
type StockTotals struct {
	Products int
	Units    int
	Value    decimal.Decimal // Σ preço × quantidade
}

// GroupCount resultado crudo de un conteo agrupado (marca, tipo).
type GroupCount struct {
	Name  string
	Count int
}

// AnalyticsRepository define las consultas de lectura del dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	Totals(ctx context.Context) (StockTotals, error)

	// ── Rankings ──────────────────────────────────────────────────────────────

	// TopBrands marcas con más productos, desempate alfabético.
	TopBrands(ctx context.Context, limit int) ([]GroupCount, error)
	// CountByType productos por tipo, mismo orden que TopBrands.
	CountByType(ctx context.Context, limit int) ([]GroupCount, error)
}
