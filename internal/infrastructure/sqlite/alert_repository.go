package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas de estoque sobre gorm.
type AlertRepo struct {
	db *gorm.DB
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(db *gorm.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

// Ensure crea la alerta si no hay otra abierta del mismo producto y tipo.
func (r *AlertRepo) Ensure(ctx context.Context, alert *entity.StockAlert) (bool, error) {
	var existing alertModel
	err := r.db.WithContext(ctx).
		Where("produto_id = ? AND tipo = ? AND resolvido = ?", alert.ProductID, alert.Type, false).
		First(&existing).Error
	if err == nil {
		alert.ID = existing.ID
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("get alert: %w", err)
	}

	m := alertModel{
		ProductID: alert.ProductID,
		Type:      alert.Type,
		Level:     alert.Level,
		Message:   alert.Message,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	alert.ID = m.ID
	alert.CreatedAt = m.CreatedAt
	return true, nil
}

// ListOpen alertas sin resolver, las más antiguas primero; limit <= 0 trae todas.
func (r *AlertRepo) ListOpen(ctx context.Context, limit int) ([]*entity.StockAlert, error) {
	q := r.db.WithContext(ctx).Where("resolvido = ?", false).Order("criado_em").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []alertModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	out := make([]*entity.StockAlert, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
