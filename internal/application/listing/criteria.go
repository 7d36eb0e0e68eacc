package listing

import (
	"sort"
	"strings"
)

// Criteria filtros activos del listado (clave de la API → valor).
type Criteria map[string]string

// Clone copia sin entradas vacías.
func (c Criteria) Clone() Criteria {
	out := make(Criteria, len(c))
	for k, v := range c {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// Equal compara ignorando entradas vacías.
func (c Criteria) Equal(other Criteria) bool {
	a, b := c.Clone(), other.Clone()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Keys claves con valor, ordenadas.
func (c Criteria) Keys() []string {
	keys := make([]string, 0, len(c))
	for k, v := range c {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
