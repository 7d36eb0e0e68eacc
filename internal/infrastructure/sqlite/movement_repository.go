package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial de movimientos sobre gorm.
type MovementRepo struct {
	db *gorm.DB
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(db *gorm.DB) *MovementRepo {
	return &MovementRepo{db: db}
}

// Create inserta el movimiento. Los movimientos no se editan.
func (r *MovementRepo) Create(ctx context.Context, mv *entity.Movement) error {
	m := movementModel{
		ProductID: mv.ProductID,
		Type:      mv.Type,
		Reason:    mv.Reason,
		Quantity:  mv.Quantity,
		UnitPrice: mv.UnitPrice,
		Date:      mv.Date,
		UserID:    mv.UserID,
		Notes:     mv.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	mv.ID = m.ID
	return nil
}

// List movimientos filtrados; limit <= 0 trae todo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.Movement, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.ProductID > 0 {
			q = q.Where("produto_id = ?", filter.ProductID)
		}
		return q
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&movementModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	dir := "DESC"
	if filter.Ordering == "data" {
		dir = "ASC"
	}
	q := r.db.WithContext(ctx).Model(&movementModel{}).Scopes(scope).Order("data " + dir).Order("id " + dir)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var rows []movementModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, total, nil
}
