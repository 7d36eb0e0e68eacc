package dto

import (
	"fmt"
	"net/http"
	"time"
)

// Formatos de exportación.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
	FormatZIP  = "zip"
)

// ValidFormat indica si f es un formato de exportación soportado.
func ValidFormat(f string) bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatJSON, FormatZIP:
		return true
	}
	return false
}

// ExportRequest cuerpo de POST export/.
type ExportRequest struct {
	Format  string         `json:"format"`
	Filters map[string]any `json:"filters"`
}

// ExportFiltersResponse metadatos para armar el formulario de exportación.
type ExportFiltersResponse struct {
	Types     []string             `json:"tipos_produto"`
	Brands    []string             `json:"marcas"`
	Suppliers []string             `json:"fornecedores"`
	History   []ExportHistoryEntry `json:"historico"`
	Stats     *ExportStats         `json:"estatisticas"`
}

// Validate las tres listas de opciones son obligatorias (pueden venir vacías).
func (r *ExportFiltersResponse) Validate() error {
	if r.Types == nil || r.Brands == nil || r.Suppliers == nil {
		return fmt.Errorf("faltan tipos_produto/marcas/fornecedores")
	}
	return nil
}

// ExportHistoryEntry una exportación previa.
type ExportHistoryEntry struct {
	Format    string    `json:"format"`
	Filename  string    `json:"filename"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportStats cifras rápidas del catálogo exportable.
type ExportStats struct {
	TotalProducts   int `json:"total_produtos"`
	ExpiredProducts int `json:"total_vencidos"`
	NearExpiry      int `json:"total_proximos_vencimento"`
}

// Download respuesta binaria (export, backup) con sus cabeceras.
type Download struct {
	Data   []byte
	Header http.Header
}

// ContentDisposition valor crudo de la cabecera content-disposition.
func (d *Download) ContentDisposition() string {
	return d.Header.Get("Content-Disposition")
}
