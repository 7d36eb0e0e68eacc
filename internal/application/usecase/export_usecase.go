package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/domain/repository"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
)

const (
	exportBaseName   = "produtos_exportados"
	exportHistoryMax = 10
)

var exportHeader = []string{
	"ID", "Tipo do Produto", "Marca", "Quantidade", "Peso",
	"Fornecedor", "Preço", "Data de Compra", "Data de Validade",
	"Valor Total", "Criado em",
}

var contentTypes = map[string]string{
	dto.FormatCSV:  "text/csv; charset=utf-8",
	dto.FormatJSON: "application/json",
	dto.FormatZIP:  "application/zip",
}

// ExportUseCase exportación filtrada del catálogo y backup completo.
type ExportUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	userRepo    repository.UserRepository
	alertRepo   repository.AlertRepository
	clock       clock.Clock

	mu      sync.Mutex
	history []dto.ExportHistoryEntry // más reciente primero
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	alertRepo repository.AlertRepository,
	c clock.Clock,
) *ExportUseCase {
	if c == nil {
		c = clock.RealClock{}
	}
	return &ExportUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		userRepo:    userRepo,
		alertRepo:   alertRepo,
		clock:       c,
	}
}

// Filters opciones del formulario de exportación, historial y cifras rápidas.
func (uc *ExportUseCase) Filters(ctx context.Context) (*dto.ExportFiltersResponse, error) {
	types, brands, suppliers, err := uc.productRepo.Distinct(ctx)
	if err != nil {
		return nil, err
	}
	today := clock.Today(uc.clock)
	_, total, err := uc.productRepo.List(ctx, repository.ProductFilter{}, 1, 0)
	if err != nil {
		return nil, err
	}
	stats := &dto.ExportStats{TotalProducts: int(total)}
	for _, s := range []inventory.Status{inventory.StatusExpired, inventory.StatusNear} {
		from, to := inventory.StatusRange(s, today)
		_, total, err := uc.productRepo.List(ctx, repository.ProductFilter{StatusFrom: from, StatusTo: to}, 1, 0)
		if err != nil {
			return nil, err
		}
		if s == inventory.StatusExpired {
			stats.ExpiredProducts = int(total)
		} else {
			stats.NearExpiry = int(total)
		}
	}

	uc.mu.Lock()
	history := append([]dto.ExportHistoryEntry{}, uc.history...)
	uc.mu.Unlock()

	return &dto.ExportFiltersResponse{
		Types:     nonNil(types),
		Brands:    nonNil(brands),
		Suppliers: nonNil(suppliers),
		History:   history,
		Stats:     stats,
	}, nil
}

// Export genera el archivo pedido con los productos que cumplen los filtros.
// include_expired=false descarta los vencidos; include_notes agrega la columna
// de observaciones. xlsx no está soportado y es un error de entrada.
func (uc *ExportUseCase) Export(ctx context.Context, req dto.ExportRequest) (*dto.Download, error) {
	if !dto.ValidFormat(req.Format) || req.Format == dto.FormatXLSX {
		ve := &domain.ValidationError{}
		ve.Add("format", fmt.Sprintf("Formato %q não suportado. Use csv, json ou zip.", req.Format))
		return nil, ve
	}
	params, includeExpired, includeNotes := splitExportFilters(req.Filters)
	today := clock.Today(uc.clock)
	filter, err := ParseProductFilter(params, today)
	if err != nil {
		return nil, err
	}
	list, _, err := uc.productRepo.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(list))
	for _, p := range list {
		if !includeExpired && p.ExpirationDate.Before(today) {
			continue
		}
		products = append(products, *p)
	}

	var data []byte
	switch req.Format {
	case dto.FormatCSV:
		data, err = productsCSV(products, includeNotes)
	case dto.FormatJSON:
		data, err = productsJSON(products, includeNotes)
	case dto.FormatZIP:
		data, err = productsZIP(products, includeNotes)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", req.Format, err)
	}

	name := exportBaseName + "." + req.Format
	uc.record(dto.ExportHistoryEntry{
		Format:    req.Format,
		Filename:  name,
		Rows:      len(products),
		CreatedAt: uc.clock.Now().UTC(),
	})
	return download(data, contentTypes[req.Format], name), nil
}

type backupDocument struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Products    []dto.ProductResponse  `json:"produtos"`
	Movements   []dto.MovementResponse `json:"movimentacoes"`
	Users       []dto.UserDTO          `json:"usuarios"`
	Alerts      []dto.StockAlertDTO    `json:"alertas"`
}

// Backup ZIP con backup.json: productos, movimientos, usuarios (sin hash) y alertas abiertas.
func (uc *ExportUseCase) Backup(ctx context.Context) (*dto.Download, error) {
	now := uc.clock.Now().UTC()
	doc := backupDocument{
		GeneratedAt: now,
		Products:    []dto.ProductResponse{},
		Movements:   []dto.MovementResponse{},
		Users:       []dto.UserDTO{},
		Alerts:      []dto.StockAlertDTO{},
	}

	products, _, err := uc.productRepo.List(ctx, repository.ProductFilter{Ordering: "id"}, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		doc.Products = append(doc.Products, dto.ProductResponseFromEntity(*p))
	}
	movements, _, err := uc.movRepo.List(ctx, repository.MovementFilter{Ordering: "data"}, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, m := range movements {
		doc.Movements = append(doc.Movements, dto.MovementResponseFromEntity(*m))
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		doc.Users = append(doc.Users, dto.UserFromEntity(*u))
	}
	alerts, err := uc.alertRepo.ListOpen(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, a := range alerts {
		doc.Alerts = append(doc.Alerts, dto.StockAlertDTO{
			ID: a.ID, Message: a.Message, CreatedAt: a.CreatedAt, Resolved: a.Resolved, ResolvedAt: a.ResolvedAt,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	data, err := zipFiles(map[string][]byte{"backup.json": body})
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	name := fmt.Sprintf("backup_sistema_%s.zip", civilDate(now))
	return download(data, contentTypes[dto.FormatZIP], name), nil
}

func (uc *ExportUseCase) record(e dto.ExportHistoryEntry) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.history = append([]dto.ExportHistoryEntry{e}, uc.history...)
	if len(uc.history) > exportHistoryMax {
		uc.history = uc.history[:exportHistoryMax]
	}
}

// splitExportFilters separa los flags del resto y pasa los valores JSON a texto.
func splitExportFilters(in map[string]any) (params map[string]string, includeExpired, includeNotes bool) {
	params = make(map[string]string, len(in))
	includeExpired, includeNotes = true, true
	for k, v := range in {
		s := anyToString(v)
		switch k {
		case inventory.FilterIncludeExpired:
			includeExpired = parseFlag(s, true)
		case inventory.FilterIncludeNotes:
			includeNotes = parseFlag(s, true)
		default:
			params[k] = s
		}
	}
	return params, includeExpired, includeNotes
}

func anyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func parseFlag(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// ── Formatos ────────────────────────────────────────────────────────────────

func productsCSV(products []entity.Product, includeNotes bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := exportHeader
	if includeNotes {
		header = append(append([]string{}, exportHeader...), "Observações")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range products {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.Type,
			p.Brand,
			strconv.Itoa(p.Quantity),
			p.Weight.String(),
			p.Supplier,
			p.Price.StringFixed(2),
			p.PurchaseDate.String(),
			p.ExpirationDate.String(),
			p.TotalValue().StringFixed(2),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if includeNotes {
			row = append(row, p.Notes)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func productsJSON(products []entity.Product, includeNotes bool) ([]byte, error) {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		r := dto.ProductResponseFromEntity(p)
		if !includeNotes {
			r.Notes = ""
		}
		out = append(out, r)
	}
	return json.MarshalIndent(out, "", "  ")
}

func productsZIP(products []entity.Product, includeNotes bool) ([]byte, error) {
	csvData, err := productsCSV(products, includeNotes)
	if err != nil {
		return nil, err
	}
	jsonData, err := productsJSON(products, includeNotes)
	if err != nil {
		return nil, err
	}
	return zipFiles(map[string][]byte{
		exportBaseName + ".csv":  csvData,
		exportBaseName + ".json": jsonData,
	})
}

func zipFiles(files map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		f, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func download(data []byte, contentType, name string) *dto.Download {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	return &dto.Download{Data: data, Header: h}
}

func civilDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
