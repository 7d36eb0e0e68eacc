// Package usecase contiene los casos de uso del servidor de desarrollo.
package usecase

import (
	"context"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/domain/repository"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

// DefaultPageSize tamaño de página de los listados paginados.
const DefaultPageSize = 20

// ProductUseCase casos de uso CRUD para productos. La cantidad cambia también vía movimientos.
type ProductUseCase struct {
	repo   repository.ProductRepository
	alerts repository.AlertRepository
	clock  clock.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, alerts repository.AlertRepository, c clock.Clock) *ProductUseCase {
	if c == nil {
		c = clock.RealClock{}
	}
	return &ProductUseCase{repo: repo, alerts: alerts, clock: c}
}

// Create valida y crea un producto; abre las alertas que correspondan.
func (uc *ProductUseCase) Create(ctx context.Context, userID int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product := in.ToEntity()
	if err := inventory.ValidateProduct(product); err != nil {
		return nil, err
	}
	if userID > 0 {
		product.CreatedBy = &userID
	}
	if err := uc.repo.Create(ctx, &product); err != nil {
		return nil, err
	}
	if err := uc.ensureAlerts(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ProductResponseFromEntity(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ProductResponseFromEntity(*product)
	return &out, nil
}

// Update reemplaza los campos editables. created_by y created_at no cambian.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	product := in.ToEntity()
	if err := inventory.ValidateProduct(product); err != nil {
		return nil, err
	}
	product.ID = id
	product.CreatedBy = current.CreatedBy
	product.CreatedAt = current.CreatedAt
	if err := uc.repo.Update(ctx, &product); err != nil {
		return nil, err
	}
	if err := uc.ensureAlerts(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ProductResponseFromEntity(product)
	return &out, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// List lista productos filtrados con paginación por número de página. Una
// página fuera de rango es domain.ErrNotFound.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) (*dto.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	list, total, err := uc.repo.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if page > 1 && len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	out := &dto.ProductPage{Count: int(total), Results: make([]dto.ProductResponse, 0, len(list))}
	for _, p := range list {
		out.Results = append(out.Results, dto.ProductResponseFromEntity(*p))
	}
	return out, nil
}

func (uc *ProductUseCase) ensureAlerts(ctx context.Context, p entity.Product) error {
	if uc.alerts == nil {
		return nil
	}
	for _, a := range inventory.AlertsFor(p, clock.Today(uc.clock)) {
		if _, err := uc.alerts.Ensure(ctx, &a); err != nil {
			return err
		}
	}
	return nil
}

// ParseProductFilter traduce los parámetros de consulta a un filtro de
// repositorio. Las claves desconocidas se ignoran; un valor inválido es un
// ValidationError indexado por la clave.
func ParseProductFilter(params map[string]string, today civil.Date) (repository.ProductFilter, error) {
	var f repository.ProductFilter
	ve := &domain.ValidationError{}
	for _, key := range inventory.FilterKeys {
		raw, ok := params[key]
		if !ok {
			continue
		}
		v, err := inventory.NormalizeFilter(key, raw)
		if err != nil {
			if fields, ok := domain.FieldErrors(err); ok {
				ve.Add(key, fields[key])
			}
			continue
		}
		if v == "" {
			continue
		}
		switch key {
		case inventory.FilterSearch:
			f.Search = v
		case inventory.FilterType:
			f.Type = v
		case inventory.FilterBrand:
			f.Brand = v
		case inventory.FilterSupplier:
			f.Supplier = v
		case inventory.FilterStatus:
			st, _ := inventory.ParseStatus(v)
			f.StatusFrom, f.StatusTo = inventory.StatusRange(st, today)
		case inventory.FilterPurchaseFrom:
			f.PurchaseFrom = datePtr(v)
		case inventory.FilterPurchaseTo:
			f.PurchaseTo = datePtr(v)
		case inventory.FilterExpirationFrom:
			f.ExpirationFrom = datePtr(v)
		case inventory.FilterExpirationTo:
			f.ExpirationTo = datePtr(v)
		case inventory.FilterPriceMin:
			f.PriceMin = decimalPtr(v)
		case inventory.FilterPriceMax:
			f.PriceMax = decimalPtr(v)
		case inventory.FilterWeightMin:
			f.WeightMin = decimalPtr(v)
		case inventory.FilterWeightMax:
			f.WeightMax = decimalPtr(v)
		case inventory.FilterQuantityMin:
			f.QuantityMin = intPtr(v)
		case inventory.FilterQuantityMax:
			f.QuantityMax = intPtr(v)
		case inventory.FilterOrdering:
			f.Ordering = v
		}
	}
	if err := ve.OrNil(); err != nil {
		return repository.ProductFilter{}, err
	}
	return f, nil
}

// Los valores ya pasaron por NormalizeFilter.

func datePtr(s string) *civil.Date {
	d, _ := civil.ParseDate(s)
	return &d
}

func decimalPtr(s string) *decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return &d
}

func intPtr(s string) *int {
	n, _ := strconv.Atoi(s)
	return &n
}
