// Package export es el controlador de exportación: mantiene sus propios filtros
// y opciones, pide el archivo al backend y lo guarda en disco con el nombre
// sugerido por la respuesta.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/listing"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// BackupFilename nombre de respaldo del backup.
const BackupFilename = "backup.zip"

// API lo que el controlador necesita de los resource clients.
type API interface {
	ExportFilters(ctx context.Context) (*dto.ExportFiltersResponse, error)
	Export(ctx context.Context, in dto.ExportRequest) (*dto.Download, error)
	Backup(ctx context.Context) (*dto.Download, error)
}

// Options estado del formulario de exportación.
type Options struct {
	Filters        listing.Criteria
	IncludeExpired bool
	IncludeNotes   bool
}

// DefaultOptions sin filtros, incluyendo vencidos y observaciones.
func DefaultOptions() Options {
	return Options{Filters: listing.Criteria{}, IncludeExpired: true, IncludeNotes: true}
}

// Result archivo guardado.
type Result struct {
	Path     string
	Filename string
	Format   string
	Size     int
}

// Controller exportaciones. Solo una exportación (o backup) a la vez: una
// segunda llamada concurrente falla con domain.ErrExportInProgress.
type Controller struct {
	api  API
	dir  string
	log  *logger.Logger
	busy atomic.Bool

	mu   sync.Mutex
	opts Options
}

// NewController construye el controlador; dir es la carpeta de descargas.
func NewController(api API, dir string, log *logger.Logger) *Controller {
	if dir == "" {
		dir = "."
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{api: api, dir: dir, log: log.Component("export"), opts: DefaultOptions()}
}

// Options copia del estado actual.
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	o := c.opts
	o.Filters = c.opts.Filters.Clone()
	return o
}

// SetFilter cambia un filtro de exportación (vacío lo quita).
func (c *Controller) SetFilter(key, value string) error {
	norm, err := inventory.NormalizeFilter(key, value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if norm == "" {
		delete(c.opts.Filters, key)
	} else {
		c.opts.Filters[key] = norm
	}
	return nil
}

// SetIncludeExpired incluye o no productos vencidos.
func (c *Controller) SetIncludeExpired(v bool) {
	c.mu.Lock()
	c.opts.IncludeExpired = v
	c.mu.Unlock()
}

// SetIncludeNotes incluye o no la columna de observaciones.
func (c *Controller) SetIncludeNotes(v bool) {
	c.mu.Lock()
	c.opts.IncludeNotes = v
	c.mu.Unlock()
}

// Reset vuelve a DefaultOptions.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.opts = DefaultOptions()
	c.mu.Unlock()
}

// Busy true mientras hay una exportación en curso.
func (c *Controller) Busy() bool { return c.busy.Load() }

// Metadata opciones disponibles (tipos, marcas, fornecedores) e historial.
func (c *Controller) Metadata(ctx context.Context) (*dto.ExportFiltersResponse, error) {
	return c.api.ExportFilters(ctx)
}

// Request arma el cuerpo {format, filters} con el estado actual.
func (c *Controller) Request(format string) dto.ExportRequest {
	o := c.Options()
	filters := make(map[string]any, len(o.Filters)+2)
	for k, v := range o.Filters {
		filters[k] = v
	}
	filters[inventory.FilterIncludeExpired] = o.IncludeExpired
	filters[inventory.FilterIncludeNotes] = o.IncludeNotes
	return dto.ExportRequest{Format: format, Filters: filters}
}

// Export pide la exportación en el formato dado y guarda el archivo.
func (c *Controller) Export(ctx context.Context, format string) (*Result, error) {
	if !dto.ValidFormat(format) {
		ve := &domain.ValidationError{}
		ve.Add("format", "formato inválido: use csv, xlsx, json o zip")
		return nil, ve
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrExportInProgress
	}
	defer c.busy.Store(false)

	d, err := c.api.Export(ctx, c.Request(format))
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	name := FilenameFromDisposition(d.ContentDisposition(), DefaultFilename(format))
	return c.save(d, name, format)
}

// Backup descarga el ZIP de respaldo completo.
func (c *Controller) Backup(ctx context.Context) (*Result, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrExportInProgress
	}
	defer c.busy.Store(false)

	d, err := c.api.Backup(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	name := FilenameFromDisposition(d.ContentDisposition(), BackupFilename)
	return c.save(d, name, dto.FormatZIP)
}

func (c *Controller) save(d *dto.Download, name, format string) (*Result, error) {
	path, err := deliver(c.dir, name, d.Data)
	if err != nil {
		return nil, fmt.Errorf("guardar %s: %w", name, err)
	}
	c.log.Info().Str("path", path).Int("bytes", len(d.Data)).Msg("archivo exportado")
	return &Result{Path: path, Filename: filepath.Base(path), Format: format, Size: len(d.Data)}, nil
}

// deliver escribe data en un temporal del mismo directorio y lo promueve al
// nombre final. El temporal se borra siempre que no haya sido promovido.
func deliver(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	promoted := false
	defer func() {
		if !promoted {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	final, err := availablePath(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, final); err != nil {
		return "", err
	}
	promoted = true
	return final, nil
}
