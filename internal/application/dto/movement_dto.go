package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// MovementRequest cuerpo de POST movimentacoes/.
type MovementRequest struct {
	Product   int64           `json:"produto"`
	Type      string          `json:"tipo"`
	Reason    string          `json:"motivo"`
	Quantity  int             `json:"quantidade"`
	UnitPrice decimal.Decimal `json:"preco_unitario"`
	Notes     string          `json:"observacoes"`
}

// ToEntity convierte a la entidad de dominio.
func (r MovementRequest) ToEntity() entity.Movement {
	return entity.Movement{
		ProductID: r.Product,
		Type:      r.Type,
		Reason:    r.Reason,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Notes:     r.Notes,
	}
}

// MovementResponse un movimiento registrado.
type MovementResponse struct {
	ID        int64           `json:"id"`
	Product   int64           `json:"produto"`
	Type      string          `json:"tipo"`
	Reason    string          `json:"motivo"`
	Quantity  int             `json:"quantidade"`
	UnitPrice decimal.Decimal `json:"preco_unitario"`
	Date      time.Time       `json:"data"`
	User      *int64          `json:"usuario"`
	Notes     string          `json:"observacoes"`
}

// Validate todo movimiento referencia un producto.
func (m *MovementResponse) Validate() error {
	if m.ID <= 0 || m.Product <= 0 {
		return fmt.Errorf("movimiento sin id o sin producto")
	}
	return nil
}

// MovementResponseFromEntity salida desde la entidad.
func MovementResponseFromEntity(m entity.Movement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		Product:   m.ProductID,
		Type:      m.Type,
		Reason:    m.Reason,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Date:      m.Date,
		User:      m.UserID,
		Notes:     m.Notes,
	}
}

// MovementPage listado paginado de movimientos.
type MovementPage = Page[MovementResponse]
