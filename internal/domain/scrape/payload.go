package scrape

import (
	"strconv"
	"strings"
)

// Accessors defensivos sobre el árbol genérico del payload. El upstream no
// garantiza schema: campo ausente o con tipo inesperado devuelve el zero
// value en vez de romper la normalización.

func subMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	return v
}

func subList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	v, ok := m[key].([]any)
	if !ok {
		return nil
	}
	return v
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key].(string)
	if !ok {
		return ""
	}
	return v
}

func boolean(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key].(bool)
	if !ok {
		return false
	}
	return v
}

// number acepta float64 (JSON numérico) o string numérico; ok=false en
// cualquier otro caso.
func number(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func intOr(m map[string]any, key string, fallback int) int {
	f, ok := number(m, key)
	if !ok {
		return fallback
	}
	return int(f)
}
