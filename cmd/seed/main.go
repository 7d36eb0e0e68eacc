// seed puebla la base SQLite del servidor de desarrollo: un usuario de prueba y
// los productos de una planilla CSV (mismo formato que la exportación).
//
// Uso: go run ./cmd/seed [ruta/produtos.csv]
// Sin argumento carga un catálogo de ejemplo. DEV_DB_DSN debe apuntar a un
// archivo: con ":memory:" los datos se pierden al terminar.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/infrastructure/csvimport"
	"github.com/jhoicas/stockctl/internal/infrastructure/sqlite"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/config"
)

const demoCatalog = `Tipo do Produto,Marca,Quantidade,Peso,Fornecedor,Preço,Data de Compra,Data de Validade,Observações
Ração,Golden,20,15,PetDist,89.90,2026-01-10,2026-12-10,Adulto frango
Ração,Premier,3,12,PetDist,120.00,2026-01-15,2026-11-30,Filhote
Areia,Pipicat,8,4,Higiene Pet,30.00,2025-12-01,2027-12-01,
Petisco,Dreamies,1,0.08,Mars Pet,12.50,2026-02-01,2026-08-01,Sabor queijo
Ração,Whiskas,14,10.1,Mars Pet,95.00,2026-02-10,2027-02-10,
`

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Dev.DSN == sqlite.MemoryDSN {
		fmt.Fprintln(os.Stderr, "DEV_DB_DSN apunta a memoria; configure un archivo, p. ej. DEV_DB_DSN=stock.db")
		os.Exit(1)
	}

	var src io.Reader = strings.NewReader(demoCatalog)
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		src = f
	}
	parsed, err := csvimport.Read(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, rej := range parsed.Rejected {
		fmt.Fprintf(os.Stderr, "Fila omitida: %v\n", rej)
	}

	db, err := sqlite.Open(cfg.Dev.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir base: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = sqlite.Close(db) }()

	ctx := context.Background()
	clk := clock.RealClock{}
	users := usecase.NewUserUseCase(sqlite.NewUserRepository(db), cfg.JWT, clk)
	products := usecase.NewProductUseCase(sqlite.NewProductRepository(db), sqlite.NewAlertRepository(db), clk)

	var ownerID int64
	reg, err := users.Register(ctx, dto.RegisterRequest{
		Username:        "admin",
		Email:           "admin@petshop.local",
		Password:        "admin12345",
		PasswordConfirm: "admin12345",
		FirstName:       "Administrador",
	})
	switch {
	case err == nil:
		ownerID = reg.User.ID
		fmt.Println("Usuario admin creado (contraseña: admin12345)")
	case errors.Is(err, domain.ErrInvalidInput):
		// ya existe: se reutiliza
		fmt.Println("Usuario admin ya existía")
	default:
		fmt.Fprintf(os.Stderr, "Crear usuario: %v\n", err)
		os.Exit(1)
	}

	created := 0
	for _, p := range parsed.Products {
		if _, err := products.Create(ctx, ownerID, p); err != nil {
			fmt.Fprintf(os.Stderr, "Producto %s %s: %v\n", p.Type, p.Brand, err)
			continue
		}
		created++
	}
	fmt.Printf("Productos cargados: %d (omitidos: %d)\n", created, len(parsed.Rejected))
}
