package dto

import "fmt"

// Page respuesta paginada estilo DRF: {count, next, previous, results}.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Validate exige la lista de resultados: un cuerpo sin "results" no es una página.
func (p *Page[T]) Validate() error {
	if p.Results == nil {
		return fmt.Errorf("falta el campo results")
	}
	if p.Count < 0 {
		return fmt.Errorf("count negativo")
	}
	return nil
}

// ErrorResponse cuerpo de error HTTP (detail al estilo DRF, code opcional).
type ErrorResponse struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}
