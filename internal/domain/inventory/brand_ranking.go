package inventory

import (
	"sort"
	"strings"
)

// DefaultTopBrands tamaño del widget "Top Marcas".
const DefaultTopBrands = 5

// BrandCount una marca y cuántos productos la usan.
type BrandCount struct {
	Brand string `json:"marca"`
	Count int    `json:"total"`
}

// TopBrands cuenta ocurrencias por marca y devuelve las n más frecuentes,
// de mayor a menor; los empates respetan el orden de primera aparición.
// Las marcas vacías no cuentan.
func TopBrands(brands []string, n int) []BrandCount {
	index := make(map[string]int, len(brands))
	counts := make([]BrandCount, 0, len(brands))
	for _, b := range brands {
		if strings.TrimSpace(b) == "" {
			continue
		}
		if i, ok := index[b]; ok {
			counts[i].Count++
			continue
		}
		index[b] = len(counts)
		counts = append(counts, BrandCount{Brand: b, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
