package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// API endpoints de productos y movimientos que usa el catálogo.
type API interface {
	GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error)
	CreateProduct(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error)
	ListMovements(ctx context.Context, params dto.MovementListParams) (*dto.MovementPage, error)
	CreateMovement(ctx context.Context, in dto.MovementRequest) (*dto.MovementResponse, error)
}

// CatalogUseCase alta y edición de productos y registro de movimientos.
// Los errores por campo del servidor se leen con domain.FieldErrors igual que
// los locales.
type CatalogUseCase struct {
	api API
	log *logger.Logger
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(api API, log *logger.Logger) *CatalogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogUseCase{api: api, log: log.Component("catalog")}
}

// Get obtiene un producto para detalle o edición.
func (uc *CatalogUseCase) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.api.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto %d: %w", id, err)
	}
	return p, nil
}

// Create valida y da de alta un producto.
func (uc *CatalogUseCase) Create(ctx context.Context, form ProductForm) (*dto.ProductResponse, error) {
	req, err := form.Parse()
	if err != nil {
		return nil, err
	}
	p, err := uc.api.CreateProduct(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	uc.log.Info().Int64("product_id", p.ID).Str("marca", p.Brand).Msg("producto creado")
	return p, nil
}

// Update valida y reemplaza un producto existente.
func (uc *CatalogUseCase) Update(ctx context.Context, id int64, form ProductForm) (*dto.ProductResponse, error) {
	req, err := form.Parse()
	if err != nil {
		return nil, err
	}
	p, err := uc.api.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("actualizar producto %d: %w", id, err)
	}
	uc.log.Info().Int64("product_id", p.ID).Msg("producto actualizado")
	return p, nil
}

// RegisterMovement valida y registra una entrada o salida. El backend ajusta la
// cantidad del producto.
func (uc *CatalogUseCase) RegisterMovement(ctx context.Context, form MovementForm) (*dto.MovementResponse, error) {
	req, err := form.Parse()
	if err != nil {
		return nil, err
	}
	m, err := uc.api.CreateMovement(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	uc.log.Info().
		Int64("movement_id", m.ID).
		Int64("product_id", m.Product).
		Str("tipo", m.Type).
		Int("quantidade", m.Quantity).
		Msg("movimiento registrado")
	return m, nil
}

// History movimientos de un producto (0 = todos), del más reciente al más antiguo.
func (uc *CatalogUseCase) History(ctx context.Context, productID int64, page int) (*dto.MovementPage, error) {
	out, err := uc.api.ListMovements(ctx, dto.MovementListParams{
		ProductID: productID,
		Ordering:  dto.OrderingNewestFirst,
		Page:      page,
	})
	if err != nil {
		return nil, fmt.Errorf("movimientos: %w", err)
	}
	return out, nil
}
