package sqlite

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockctl/internal/domain/entity"
)

// Las columnas usan los nombres de campo de la API; así ordering y filtros se
// traducen sin tabla intermedia. Las fechas civiles se guardan como texto ISO,
// que ordena y compara igual que la fecha.

type productModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Type           string          `gorm:"column:tipo_produto;not null;index"`
	Brand          string          `gorm:"column:marca;not null;index"`
	Quantity       int             `gorm:"column:quantidade;not null"`
	Weight         decimal.Decimal `gorm:"column:peso;type:numeric;not null"`
	Supplier       string          `gorm:"column:fornecedor;not null"`
	Price          decimal.Decimal `gorm:"column:preco;type:numeric;not null"`
	PurchaseDate   string          `gorm:"column:data_compra;type:text;not null"`
	ExpirationDate string          `gorm:"column:data_validade;type:text;not null;index"`
	Notes          string          `gorm:"column:observacoes"`
	CreatedBy      *int64          `gorm:"column:created_by"`
	CreatedAt      time.Time       `gorm:"column:created_at;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (productModel) TableName() string { return "products" }

func productToModel(p *entity.Product) productModel {
	return productModel{
		ID:             p.ID,
		Type:           p.Type,
		Brand:          p.Brand,
		Quantity:       p.Quantity,
		Weight:         p.Weight,
		Supplier:       p.Supplier,
		Price:          p.Price,
		PurchaseDate:   p.PurchaseDate.String(),
		ExpirationDate: p.ExpirationDate.String(),
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m productModel) toEntity() *entity.Product {
	purchase, _ := civil.ParseDate(m.PurchaseDate)
	expiration, _ := civil.ParseDate(m.ExpirationDate)
	return &entity.Product{
		ID:             m.ID,
		Type:           m.Type,
		Brand:          m.Brand,
		Quantity:       m.Quantity,
		Weight:         m.Weight,
		Supplier:       m.Supplier,
		Price:          m.Price,
		PurchaseDate:   purchase,
		ExpirationDate: expiration,
		Notes:          m.Notes,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type movementModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	ProductID int64           `gorm:"column:produto_id;not null;index"`
	Type      string          `gorm:"column:tipo;not null"`
	Reason    string          `gorm:"column:motivo;not null"`
	Quantity  int             `gorm:"column:quantidade;not null"`
	UnitPrice decimal.Decimal `gorm:"column:preco_unitario;type:numeric"`
	Date      time.Time       `gorm:"column:data;index"`
	UserID    *int64          `gorm:"column:usuario_id"`
	Notes     string          `gorm:"column:observacoes"`
}

func (movementModel) TableName() string { return "movimentacoes" }

func (m movementModel) toEntity() *entity.Movement {
	return &entity.Movement{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Reason:    m.Reason,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Date:      m.Date,
		UserID:    m.UserID,
		Notes:     m.Notes,
	}
}

type userModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"index"`
	FirstName    string
	LastName     string
	PasswordHash string `gorm:"not null"`
	DateJoined   time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		DateJoined:   m.DateJoined,
	}
}

type alertModel struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	ProductID  int64      `gorm:"column:produto_id;not null;index"`
	Type       string     `gorm:"column:tipo;not null"`
	Level      string     `gorm:"column:nivel"`
	Message    string     `gorm:"column:mensagem"`
	CreatedAt  time.Time  `gorm:"column:criado_em;index"`
	Resolved   bool       `gorm:"column:resolvido;index"`
	ResolvedAt *time.Time `gorm:"column:resolvido_em"`
}

func (alertModel) TableName() string { return "alertas_estoque" }

func (m alertModel) toEntity() *entity.StockAlert {
	return &entity.StockAlert{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		Level:      m.Level,
		Message:    m.Message,
		CreatedAt:  m.CreatedAt,
		Resolved:   m.Resolved,
		ResolvedAt: m.ResolvedAt,
	}
}
