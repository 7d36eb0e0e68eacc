package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// orderableProducts campos por los que se puede ordenar el listado.
var orderableProducts = map[string]bool{
	"id": true, "tipo_produto": true, "marca": true, "quantidade": true, "peso": true,
	"fornecedor": true, "preco": true, "data_compra": true, "data_validade": true,
	"created_at": true, "updated_at": true,
}

// ProductRepo implementación del puerto ProductRepository sobre gorm (usable con db o tx).
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create persiste un nuevo producto y completa su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	m := productToModel(product)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = m.ID
	product.CreatedAt = m.CreatedAt
	product.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var m productModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return m.toEntity(), nil
}

// Update reemplaza todos los campos editables.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	m := productToModel(product)
	res := r.db.WithContext(ctx).Model(&productModel{ID: m.ID}).Select("*").Omit("id", "created_at", "created_by").Updates(&m)
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	product.UpdatedAt = m.UpdatedAt
	return nil
}

// Delete elimina el producto junto con sus movimientos y alertas.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&productModel{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("produto_id = ?", id).Delete(&movementModel{}).Error; err != nil {
			return fmt.Errorf("delete product movements: %w", err)
		}
		if err := tx.Where("produto_id = ?", id).Delete(&alertModel{}).Error; err != nil {
			return fmt.Errorf("delete product alerts: %w", err)
		}
		return nil
	})
}

// List aplica el filtro, cuenta el total y devuelve la página.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&productModel{}).Scopes(productFilter(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	q := r.db.WithContext(ctx).Model(&productModel{}).Scopes(productFilter(filter), productOrder(filter.Ordering))
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var rows []productModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, total, nil
}

// Distinct valores únicos no vacíos de tipo, marca y proveedor.
func (r *ProductRepo) Distinct(ctx context.Context) (types, brands, suppliers []string, err error) {
	pluck := func(column string) ([]string, error) {
		out := []string{}
		err := r.db.WithContext(ctx).Model(&productModel{}).
			Where(column+" <> ''").
			Distinct().
			Order(column).
			Pluck(column, &out).Error
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", column, err)
		}
		return out, nil
	}
	if types, err = pluck("tipo_produto"); err != nil {
		return nil, nil, nil, err
	}
	if brands, err = pluck("marca"); err != nil {
		return nil, nil, nil, err
	}
	if suppliers, err = pluck("fornecedor"); err != nil {
		return nil, nil, nil, err
	}
	return types, brands, suppliers, nil
}

// ── scopes ────────────────────────────────────────────────────────────────────

func productFilter(f repository.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
			like := "%" + s + "%"
			q = q.Where("(LOWER(tipo_produto) LIKE ? OR LOWER(marca) LIKE ? OR LOWER(fornecedor) LIKE ? OR LOWER(observacoes) LIKE ?)",
				like, like, like, like)
		}
		for column, v := range map[string]string{"tipo_produto": f.Type, "marca": f.Brand, "fornecedor": f.Supplier} {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				q = q.Where("LOWER("+column+") LIKE ?", "%"+v+"%")
			}
		}
		if f.PurchaseFrom != nil {
			q = q.Where("data_compra >= ?", f.PurchaseFrom.String())
		}
		if f.PurchaseTo != nil {
			q = q.Where("data_compra <= ?", f.PurchaseTo.String())
		}
		if f.ExpirationFrom != nil {
			q = q.Where("data_validade >= ?", f.ExpirationFrom.String())
		}
		if f.ExpirationTo != nil {
			q = q.Where("data_validade <= ?", f.ExpirationTo.String())
		}
		if f.StatusFrom != nil {
			q = q.Where("data_validade >= ?", f.StatusFrom.String())
		}
		if f.StatusTo != nil {
			q = q.Where("data_validade <= ?", f.StatusTo.String())
		}
		if f.PriceMin != nil {
			q = q.Where("preco >= ?", f.PriceMin.InexactFloat64())
		}
		if f.PriceMax != nil {
			q = q.Where("preco <= ?", f.PriceMax.InexactFloat64())
		}
		if f.WeightMin != nil {
			q = q.Where("peso >= ?", f.WeightMin.InexactFloat64())
		}
		if f.WeightMax != nil {
			q = q.Where("peso <= ?", f.WeightMax.InexactFloat64())
		}
		if f.QuantityMin != nil {
			q = q.Where("quantidade >= ?", *f.QuantityMin)
		}
		if f.QuantityMax != nil {
			q = q.Where("quantidade <= ?", *f.QuantityMax)
		}
		return q
	}
}

// productOrder traduce ordering ("-preco", "marca") a ORDER BY; id desempata.
func productOrder(ordering string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		field, desc := strings.TrimPrefix(ordering, "-"), strings.HasPrefix(ordering, "-")
		if !orderableProducts[field] {
			return q.Order("created_at DESC").Order("id DESC")
		}
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		return q.Order(field + " " + dir).Order("id " + dir)
	}
}
