package stockapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/ports"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/infrastructure/gateway"
	"github.com/jhoicas/stockctl/internal/infrastructure/sessionstore"
	"github.com/jhoicas/stockctl/internal/infrastructure/stockapi"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
	auth   string
}

// recorder responde con el cuerpo/cabeceras configurados y guarda la última petición.
type recorder struct {
	last    recorded
	status  int
	body    string
	headers map[string]string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	b, _ := io.ReadAll(req.Body)
	r.last = recorded{req.Method, req.URL.Path, req.URL.RawQuery, string(b), req.Header.Get("Authorization")}
	for k, v := range r.headers {
		w.Header().Set(k, v)
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(r.body))
}

func newClient(t *testing.T, rec *recorder) *stockapi.Client {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	store := sessionstore.NewMemory()
	require.NoError(t, store.SetSession(context.Background(), ports.Tokens{Access: "tok", Refresh: "r"}, dto.UserDTO{ID: 1}))
	gw, err := gateway.New(store, gateway.Options{BaseURL: srv.URL + "/api/"})
	require.NoError(t, err)
	return stockapi.New(gw)
}

const productJSON = `{"id":7,"tipo_produto":"Ração","marca":"Golden","quantidade":4,"peso":"15.00","fornecedor":"PetDist","preco":"159.90","data_compra":"2024-03-01","data_validade":"2025-03-01","observacoes":"","created_by":1,"created_at":"2024-03-01T10:00:00Z","updated_at":"2024-03-01T10:00:00Z"}`

func TestListProducts_OmiteFiltrosVacios(t *testing.T) {
	rec := &recorder{body: `{"count":1,"next":null,"previous":null,"results":[` + productJSON + `]}`}
	c := newClient(t, rec)

	params := dto.ProductListParams{
		Filters: map[string]string{"marca": "Golden", "fornecedor": "", "search": "  ", "preco_min": "10"},
		Page:    2,
	}
	page, err := c.ListProducts(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.last.method)
	assert.Equal(t, "/api/products/", rec.last.path)
	assert.Equal(t, "marca=Golden&page=2&preco_min=10", rec.last.query)
	assert.Equal(t, "Bearer tok", rec.last.auth)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].TotalValue().Equal(decimal.RequireFromString("639.60")))

	// misma consulta, mismos parámetros
	first := rec.last.query
	_, err = c.ListProducts(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, first, rec.last.query)
}

func TestListProducts_FormaInesperada(t *testing.T) {
	rec := &recorder{body: `{"data":[]}`}
	_, err := newClient(t, rec).ListProducts(context.Background(), dto.ProductListParams{})
	assert.True(t, errors.Is(err, domain.ErrUnexpectedResponse))
}

func TestProductCRUD_FormaDeLlamada(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{body: productJSON}
	c := newClient(t, rec)

	p, err := c.GetProduct(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, recorded{method: "GET", path: "/api/products/7/", auth: "Bearer tok"}, rec.last)
	assert.Equal(t, "Golden", p.Brand)

	in := dto.ProductRequest{Type: "Ração", Brand: "Golden", Quantity: 4, Price: decimal.RequireFromString("159.90")}
	_, err = c.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "POST", rec.last.method)
	assert.Equal(t, "/api/products/", rec.last.path)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.last.body), &sent))
	assert.Equal(t, "Golden", sent["marca"])
	assert.Equal(t, "159.9", sent["preco"])

	_, err = c.UpdateProduct(ctx, 7, in)
	require.NoError(t, err)
	assert.Equal(t, "PUT", rec.last.method)
	assert.Equal(t, "/api/products/7/", rec.last.path)

	rec.status, rec.body = http.StatusNoContent, ""
	require.NoError(t, c.DeleteProduct(ctx, 7))
	assert.Equal(t, "DELETE", rec.last.method)
	assert.Equal(t, "/api/products/7/", rec.last.path)
}

func TestCreateProduct_ErroresPorCampo(t *testing.T) {
	rec := &recorder{status: http.StatusBadRequest, body: `{"data_validade":["A data de validade deve ser posterior à data de compra."]}`}
	_, err := newClient(t, rec).CreateProduct(context.Background(), dto.ProductRequest{})
	require.Error(t, err)
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields["data_validade"], "posterior")
}

func TestListasDeAlerta(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{body: `[{"id":1,"nome":"Ração","marca":"Golden","distribuidora":"PetDist","preco":"10.00","unidades":2,"data_cadastro":"2024-01-01","data_validade":"2024-02-01"}]`}
	c := newClient(t, rec)

	list, err := c.ExpiringSoon(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, "/api/products/expiring-soon/", rec.last.path)
	assert.Equal(t, "days=30", rec.last.query)
	require.Len(t, list, 1)
	assert.Equal(t, "Golden", list[0].Brand)

	_, err = c.Expired(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/api/products/expired/", rec.last.path)

	_, err = c.LowStock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "/api/products/low-stock/", rec.last.path)
	assert.Equal(t, "min_quantity=5", rec.last.query)

	rec.body = `{"results":[]}`
	_, err = c.Expired(ctx)
	assert.True(t, errors.Is(err, domain.ErrUnexpectedResponse), "se espera una lista, no una página")
}

func TestDashboardStats(t *testing.T) {
	rec := &recorder{body: `{"total_produtos":3,"total_unidades":10,"total_valor_estoque":"100.50","marcas_mais_registradas":[{"marca":"Golden","total":2}]}`}
	c := newClient(t, rec)
	stats, err := c.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/products/dashboard/stats/", rec.last.path)
	assert.Equal(t, 3, *stats.TotalProducts)
	assert.Nil(t, stats.ExpiredCount)
	require.Len(t, stats.TopBrands, 1)
	assert.Equal(t, 2, stats.TopBrands[0].Count)

	rec.body = `{"total_valor_estoque":"1"}`
	_, err = c.DashboardStats(context.Background())
	assert.True(t, errors.Is(err, domain.ErrUnexpectedResponse))
}

func TestMovements(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{body: `{"count":0,"next":null,"previous":null,"results":[]}`}
	c := newClient(t, rec)

	_, err := c.ListMovements(ctx, dto.MovementListParams{ProductID: 7, Ordering: dto.OrderingNewestFirst})
	require.NoError(t, err)
	assert.Equal(t, "/api/movimentacoes/", rec.last.path)
	assert.Equal(t, "ordering=-data&produto=7", rec.last.query)

	rec.status = http.StatusCreated
	rec.body = `{"id":1,"produto":7,"tipo":"SAIDA","motivo":"VENDA","quantidade":2,"preco_unitario":"10.00","data":"2024-05-01T12:00:00Z","usuario":1,"observacoes":""}`
	m, err := c.CreateMovement(ctx, dto.MovementRequest{Product: 7, Type: "SAIDA", Reason: "VENDA", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "POST", rec.last.method)
	assert.Equal(t, 2, m.Quantity)
}

func TestExportYBackup(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{
		body:    "id;marca\n1;Golden\n",
		headers: map[string]string{"Content-Type": "text/csv", "Content-Disposition": `attachment; filename="report_2024.csv"`},
	}
	c := newClient(t, rec)

	d, err := c.Export(ctx, dto.ExportRequest{Format: dto.FormatCSV, Filters: map[string]any{"marca": "Golden"}})
	require.NoError(t, err)
	assert.Equal(t, "POST", rec.last.method)
	assert.Equal(t, "/api/export/", rec.last.path)
	assert.JSONEq(t, `{"format":"csv","filters":{"marca":"Golden"}}`, rec.last.body)
	assert.Equal(t, `attachment; filename="report_2024.csv"`, d.ContentDisposition())
	assert.Equal(t, "id;marca\n1;Golden\n", string(d.Data))

	_, err = c.Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GET", rec.last.method)
	assert.Equal(t, "/api/backup/", rec.last.path)
}

func TestExportFilters(t *testing.T) {
	rec := &recorder{body: `{"tipos_produto":["Ração"],"marcas":["Golden"],"fornecedores":[],"historico":[],"estatisticas":{"total_produtos":1}}`}
	f, err := newClient(t, rec).ExportFilters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/export/filters/", rec.last.path)
	assert.Equal(t, []string{"Golden"}, f.Brands)
	assert.Equal(t, 1, f.Stats.TotalProducts)
}

func TestAuth_SinBearer(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{body: `{"access":"a","refresh":"r","user":{"id":1,"username":"ana"}}`}
	c := newClient(t, rec)

	out, err := c.Login(ctx, dto.LoginRequest{Username: "ana", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/token/", rec.last.path)
	assert.Empty(t, rec.last.auth, "el login no lleva bearer")
	assert.Equal(t, "ana", out.User.Username)

	rec.body = `{"access":"a"}`
	_, err = c.Login(ctx, dto.LoginRequest{})
	assert.True(t, errors.Is(err, domain.ErrUnexpectedResponse))

	rec.body = `{"message":"ok","user":{"id":2,"username":"bia"}}`
	reg, err := c.Register(ctx, dto.RegisterRequest{Username: "bia"})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/register/", rec.last.path)
	assert.Equal(t, int64(2), reg.User.ID)

	rec.body = `{"access":"a2"}`
	ref, err := c.Refresh(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/token/refresh/", rec.last.path)
	assert.Equal(t, "a2", ref.Access)

	rec.body = `{"authenticated":true,"user":{"id":1,"username":"ana"}}`
	chk, err := c.CheckAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", rec.last.auth)
	assert.True(t, chk.Authenticated)
}
