package cli_test

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/application/inventory"
	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/internal/infrastructure/sessionstore"
	"github.com/jhoicas/stockctl/internal/infrastructure/sqlite"
	"github.com/jhoicas/stockctl/internal/interfaces/cli"
	apphttp "github.com/jhoicas/stockctl/internal/interfaces/http"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/config"
)

const jwtSecret = "cli-test-secret"

type env struct {
	cfg   *config.Config
	store *sessionstore.Store
	clock *clock.FakeClock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryDSN)
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	productRepo := sqlite.NewProductRepository(db)
	movRepo := sqlite.NewMovementRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	alertRepo := sqlite.NewAlertRepository(db)
	jwtCfg := config.JWTConfig{Secret: jwtSecret, AccessMinutes: 5, RefreshMinutes: 60, Issuer: "stockctl-test"}

	app := apphttp.NewApp("stockctl-test", apphttp.RouterDeps{
		UserUC:      usecase.NewUserUseCase(userRepo, jwtCfg, clk),
		ProductUC:   usecase.NewProductUseCase(productRepo, alertRepo, clk),
		MovementUC:  inventory.NewMovementUseCase(sqlite.NewTxRunner(db), productRepo, movRepo, clk),
		AnalyticsUC: usecase.NewAnalyticsUseCase(sqlite.NewAnalyticsRepository(db), productRepo, alertRepo, clk),
		ExportUC:    usecase.NewExportUseCase(productRepo, movRepo, userRepo, alertRepo, clk),
		Clock:       clk,
		PageSize:    usecase.DefaultPageSize,
		JWTSecret:   jwtSecret,
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = sqlite.Close(db)
	})

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Name: "stockctl", LogLevel: "error"},
		API: config.APIConfig{BaseURL: "http://" + ln.Addr().String() + "/api/", Timeout: 5 * time.Second},
		UI: config.UIConfig{
			PageSize:        20,
			ExpiringHorizon: 30,
			TopBrands:       5,
			LowStockMin:     10,
			ExportDir:       t.TempDir(),
		},
	}
	return &env{cfg: cfg, store: sessionstore.NewMemory(), clock: clk}
}

// run ejecuta un comando con la misma sesión que los anteriores.
func (e *env) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := cli.New(cli.Options{
		Stdout: &out,
		Stderr: &errOut,
		Stdin:  strings.NewReader(stdin),
		Config: e.cfg,
		Store:  e.store,
		Clock:  e.clock,
	})
	code := app.Run(context.Background(), args)
	return code, out.String(), errOut.String()
}

func (e *env) login(t *testing.T) {
	t.Helper()
	code, _, stderr := e.run(t, "", "register", "-u", "ana", "-e", "ana@petshop.com", "-p", "segredo123", "--first-name", "Ana")
	require.Equal(t, cli.ExitOK, code, stderr)
	code, out, stderr := e.run(t, "segredo123\n", "login", "-u", "ana")
	require.Equal(t, cli.ExitOK, code, stderr)
	require.Contains(t, out, "Sesión iniciada como Ana")
}

func (e *env) createProduct(t *testing.T, brand, qty, expiration string) {
	t.Helper()
	code, out, stderr := e.run(t, "", "products", "create",
		"--tipo", "Ração", "--marca", brand, "--quantidade", qty, "--peso", "15",
		"--fornecedor", "PetDist", "--preco", "89,90", "--data-compra", "01/02/2026", "--data-validade", expiration)
	require.Equal(t, cli.ExitOK, code, stderr)
	require.Contains(t, out, "creado")
}

// ── Uso y sesión ────────────────────────────────────────────────────────────

func TestRun_ComandoDesconocido(t *testing.T) {
	e := newEnv(t)
	code, _, stderr := e.run(t, "", "inventar")
	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, stderr, "comando desconocido")
	assert.Contains(t, stderr, "products")

	code, _, _ = e.run(t, "")
	assert.Equal(t, cli.ExitUsage, code)
}

func TestRun_SinSesion(t *testing.T) {
	e := newEnv(t)
	code, _, stderr := e.run(t, "", "products", "list")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "stockctl login")
}

func TestRun_LoginWhoamiLogout(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	code, out, _ := e.run(t, "", "whoami", "--verify")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "ana@petshop.com")

	code, _, _ = e.run(t, "", "logout")
	require.Equal(t, cli.ExitOK, code)
	code, _, _ = e.run(t, "", "whoami")
	assert.Equal(t, cli.ExitError, code)
}

func TestRun_LoginIncorrecto(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	code, _, stderr := e.run(t, "", "login", "-u", "ana", "-p", "errada123")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "error:")
}

// ── Productos ───────────────────────────────────────────────────────────────

func TestRun_ProductosCRUD(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.createProduct(t, "Golden", "12", "2027-03-01")
	e.createProduct(t, "Premier", "3", "2026-03-20")

	code, out, _ := e.run(t, "", "products", "list", "--marca", "golden")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Golden")
	assert.NotContains(t, out, "Premier")
	assert.Contains(t, out, "Página 1 de 1")

	code, out, _ = e.run(t, "", "products", "list", "--status-validade", "proximo_vencimento")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Premier")

	code, out, _ = e.run(t, "", "products", "update", "1", "--quantidade", "5")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "actualizado")

	code, out, _ = e.run(t, "", "products", "get", "1")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Golden")
	assert.Contains(t, out, "R$ 89,90")

	code, out, _ = e.run(t, "n\n", "products", "delete", "2")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Cancelado")

	code, out, _ = e.run(t, "", "products", "delete", "2", "--yes")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "eliminado")

	code, _, stderr := e.run(t, "", "products", "get", "2")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "error:")
}

func TestRun_ProductoInvalidoMuestraCampos(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	code, _, stderr := e.run(t, "", "products", "create", "--tipo", "Ração", "--preco", "abc")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "datos inválidos")
	assert.Contains(t, stderr, "marca:")
	assert.Contains(t, stderr, "preco: número inválido")
}

func TestRun_IDInvalido(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	code, _, stderr := e.run(t, "", "products", "get", "abc")
	assert.Equal(t, cli.ExitUsage, code)
	assert.Contains(t, stderr, "id inválido")
}

func TestRun_Movimientos(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.createProduct(t, "Golden", "12", "2027-03-01")

	code, out, stderr := e.run(t, "", "movements", "create",
		"--produto", "1", "--tipo", "saida", "--motivo", "venda", "--quantidade", "4")
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, out, "SAIDA de 4 unidades")

	code, out, _ = e.run(t, "", "movements", "list", "--produto", "1")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "VENDA")

	code, out, _ = e.run(t, "", "products", "get", "1")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Quantidade")
	assert.Contains(t, out, "8")
}

// ── Alertas, dashboard, exportación ─────────────────────────────────────────

func TestRun_AlertasYDashboard(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.createProduct(t, "Golden", "12", "2027-03-01")
	e.createProduct(t, "Premier", "3", "2026-03-20")

	code, out, _ := e.run(t, "", "alerts")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Vencen en los próximos 30 días (1)")
	assert.Contains(t, out, "10 dias")
	assert.Contains(t, out, "Estoque baixo (hasta 10 unidades) (1)")

	code, out, _ = e.run(t, "", "dashboard")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Unidades")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "Golden")
}

func TestRun_ExportBackupYFiltros(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.createProduct(t, "Golden", "12", "2027-03-01")

	code, out, stderr := e.run(t, "", "export", "--format", "csv")
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, out, "produtos_exportados.csv")
	data, err := os.ReadFile(filepath.Join(e.cfg.UI.ExportDir, "produtos_exportados.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Golden")

	code, _, stderr = e.run(t, "", "export", "--format", "xlsx")
	assert.Equal(t, cli.ExitError, code)
	assert.Contains(t, stderr, "format:")

	code, out, _ = e.run(t, "", "backup")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "backup_sistema_2026-03-10.zip")

	code, out, _ = e.run(t, "", "filters")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Golden")
	assert.Contains(t, out, "Últimas exportaciones")
}

func TestRun_ReportePDF(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	e.createProduct(t, "Golden", "12", "2027-03-01")

	path := filepath.Join(t.TempDir(), "reporte.pdf")
	code, out, stderr := e.run(t, "", "report", "-o", path)
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRun_ImportCSV(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	path := filepath.Join(t.TempDir(), "produtos.csv")
	csv := "Tipo do Produto;Marca;Quantidade;Peso;Fornecedor;Preço;Data de Compra;Data de Validade\n" +
		"Ração;Golden;10;15;PetDist;89,90;01/02/2026;01/02/2027\n" +
		"Areia;;4;4;PetDist;30,00;01/02/2026;01/02/2027\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	code, out, _ := e.run(t, "", "import", path, "--dry-run")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "1 productos válidos, 1 filas con errores")

	code, out, stderr := e.run(t, "", "import", path)
	require.Equal(t, cli.ExitOK, code, stderr)
	assert.Contains(t, out, "Importados 1 productos")
	assert.Contains(t, stderr, "línea 3")

	code, out, _ = e.run(t, "", "products", "list")
	require.Equal(t, cli.ExitOK, code)
	assert.Contains(t, out, "Golden")
}
