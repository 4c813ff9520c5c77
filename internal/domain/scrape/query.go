package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"pet-adoption-scraper/internal/config"
)

// QueryBuilder arma URLs de búsqueda contra el API externo. Los límites de
// distancia vienen de config para no esparcir constantes.
type QueryBuilder struct {
	baseURL      string
	pageSize     int
	defaultMiles int
	minMiles     int
	maxMiles     int
}

func NewQueryBuilder(cfg config.ScraperConfig) *QueryBuilder {
	b := &QueryBuilder{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "?"),
		pageSize:     cfg.PageSize,
		defaultMiles: cfg.DefaultMiles,
		minMiles:     cfg.MinMiles,
		maxMiles:     cfg.MaxMiles,
	}
	if b.pageSize <= 0 {
		b.pageSize = 100
	}
	if b.defaultMiles <= 0 {
		b.defaultMiles = 100
	}
	if b.minMiles <= 0 {
		b.minMiles = 1
	}
	if b.maxMiles <= 0 {
		b.maxMiles = 500
	}
	return b
}

// ClampDistance normaliza la distancia pedida: nil -> default (100),
// por debajo del mínimo -> 1, por encima del máximo -> 500.
func (b *QueryBuilder) ClampDistance(distance *int) int {
	if distance == nil {
		return b.defaultMiles
	}
	d := *distance
	if d < b.minMiles {
		return b.minMiles
	}
	if d > b.maxMiles {
		return b.maxMiles
	}
	return d
}

// Build devuelve la URL completa para una página de resultados. El caller no
// necesita armar nada más.
//
// El query string se construye a mano porque el API espera el location_slug
// con los separadores ya escapados (us%2F{state}%2F{city}); url.Values lo
// escaparía dos veces.
func (b *QueryBuilder) Build(city, state, animal string, page int, distance int) string {
	if page < 1 {
		page = 1
	}

	slug := url.QueryEscape(fmt.Sprintf("us/%s/%s", strings.TrimSpace(state), strings.TrimSpace(city)))

	parts := []string{
		fmt.Sprintf("page=%d", page),
		fmt.Sprintf("limit[]=%d", b.pageSize),
		"status=adoptable",
		fmt.Sprintf("distance[]=%d", distance),
		fmt.Sprintf("type[]=%s", url.QueryEscape(strings.TrimSpace(animal))),
		"sort[]=nearest",
		fmt.Sprintf("location_slug[]=%s", slug),
		"include_transportable=true",
	}

	return b.baseURL + "?" + strings.Join(parts, "&")
}
