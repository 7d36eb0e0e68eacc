// Package csvimport lee planillas de productos con las mismas columnas que
// genera la exportación CSV, en UTF-8 o ISO-8859-1.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockctl/internal/application/catalog"
	"github.com/jhoicas/stockctl/internal/application/dto"
)

// Columnas reconocidas. ID, Valor Total y Criado em se ignoran: los calcula el backend.
const (
	colType       = "tipo do produto"
	colBrand      = "marca"
	colQuantity   = "quantidade"
	colWeight     = "peso"
	colSupplier   = "fornecedor"
	colPrice      = "preço"
	colPurchase   = "data de compra"
	colExpiration = "data de validade"
	colNotes      = "observações"
)

var required = []string{colType, colBrand, colQuantity, colWeight, colSupplier, colPrice, colPurchase, colExpiration}

// ErrMissingColumns la cabecera no trae todas las columnas obligatorias.
var ErrMissingColumns = errors.New("csvimport: faltan columnas obligatorias")

// RowError fila rechazada por las reglas del formulario de producto.
type RowError struct {
	Line int // línea del archivo, 1 es la cabecera
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// Result productos válidos y filas rechazadas, en orden de aparición.
type Result struct {
	Products []dto.ProductRequest
	Rejected []RowError
}

// Read decodifica la planilla. El separador puede ser "," o ";" (Excel pt-BR) y
// el texto se pasa a UTF-8 si no lo es. Una fila inválida no aborta la lectura.
func Read(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvimport: leer: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		data, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("csvimport: decodificar ISO-8859-1: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectComma(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvimport: cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	out := &Result{Products: []dto.ProductRequest{}}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvimport: línea %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		req, err := catalog.ProductForm{
			Type:           get(colType),
			Brand:          get(colBrand),
			Quantity:       get(colQuantity),
			Weight:         get(colWeight),
			Supplier:       get(colSupplier),
			Price:          get(colPrice),
			PurchaseDate:   get(colPurchase),
			ExpirationDate: get(colExpiration),
			Notes:          get(colNotes),
		}.Parse()
		if err != nil {
			out.Rejected = append(out.Rejected, RowError{Line: line, Err: err})
			continue
		}
		out.Products = append(out.Products, req)
	}
	return out, nil
}

// detectComma mira solo la primera línea.
func detectComma(data []byte) rune {
	first, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
