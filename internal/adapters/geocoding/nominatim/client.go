package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-adoption-scraper/internal/domain/geo"
	"pet-adoption-scraper/internal/platform/httpclient"
)

var (
	ErrUpstream  = errors.New("nominatim upstream error")
	ErrNoResults = errors.New("nominatim: no results")
)

// Config del cliente Nominatim (OpenStreetMap).
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client implementa geo.Provider contra la API de búsqueda de Nominatim.
// Nominatim exige un User-Agent identificable; va en cada request.
type Client struct {
	baseURL   string
	userAgent string
	http      *httpclient.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://nominatim.openstreetmap.org/search"
	}

	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = "PetAdoptionScraper/1.0 (Educational Purpose)"
	}

	return &Client{
		baseURL:   base,
		userAgent: ua,
		http:      httpclient.New(timeout),
	}
}

// result es un elemento del array que devuelve Nominatim.
// lat/lon vienen como strings numéricos.
type result struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Locate geocodifica "{city}, {state}, USA" restringido a US, limit=1.
func (c *Client) Locate(ctx context.Context, city, state string) (geo.Coordinates, error) {
	query := fmt.Sprintf("%s, %s, USA", strings.TrimSpace(city), strings.TrimSpace(state))

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "us")

	fullURL := c.baseURL + "?" + params.Encode()
	headers := map[string]string{
		"User-Agent": c.userAgent,
	}

	var results []result
	if err := c.http.GetJSON(ctx, fullURL, headers, &results); err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(results) == 0 {
		return geo.Coordinates{}, ErrNoResults
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lat), 64)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: invalid lat %q", ErrUpstream, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lon), 64)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("%w: invalid lon %q", ErrUpstream, results[0].Lon)
	}

	return geo.Coordinates{Lat: lat, Lon: lon}, nil
}
