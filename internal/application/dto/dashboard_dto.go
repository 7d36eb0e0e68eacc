package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain/inventory"
)

// DashboardStatsResponse respuesta de GET products/dashboard/stats/.
// Los contadores son punteros: nil significa que el backend no los agregó y el
// presentador los deriva localmente.
type DashboardStatsResponse struct {
	TotalProducts    *int                   `json:"total_produtos"`
	TotalUnits       *int                   `json:"total_unidades"`
	TotalStockValue  decimal.Decimal        `json:"total_valor_estoque"`
	ExpiredCount     *int                   `json:"produtos_vencidos"`
	NearExpiryCount  *int                   `json:"produtos_proximos_vencimento"`
	TopBrands        []inventory.BrandCount `json:"marcas_mais_registradas"`
	ProductsByType   []TypeCount            `json:"produtos_por_tipo"`
	RecentProducts   []ProductSummary       `json:"produtos_recentes"`
	ExpirationAlerts []StockAlertDTO        `json:"alertas_vencimento"`
}

// Validate los totales generales son obligatorios.
func (s *DashboardStatsResponse) Validate() error {
	if s.TotalProducts == nil || s.TotalUnits == nil {
		return fmt.Errorf("faltan total_produtos/total_unidades")
	}
	return nil
}

// TypeCount elemento de produtos_por_tipo (formato listo para gráfico).
type TypeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StockAlertDTO alerta de estoque abierta.
type StockAlertDTO struct {
	ID                int64      `json:"id"`
	ProductName       string     `json:"produto_nome"`
	ProductBrand      string     `json:"produto_marca"`
	ProductExpiration string     `json:"produto_validade"`
	ProductQuantity   int        `json:"produto_quantidade"`
	Message           string     `json:"mensagem"`
	CreatedAt         time.Time  `json:"criado_em"`
	Resolved          bool       `json:"resolvido"`
	ResolvedAt        *time.Time `json:"resolvido_em"`
}
