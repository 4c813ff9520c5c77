package scrape

import (
	"context"
	"errors"
	"fmt"

	"pet-adoption-scraper/internal/config"
	"pet-adoption-scraper/internal/platform/httpclient"
	"pet-adoption-scraper/internal/platform/logger"
)

// ErrAPI es el único error que ven los callers del fetcher: transporte,
// status no-2xx, JSON inválido o estructura inesperada, todo envuelto acá
// con la causa adentro.
var ErrAPI = errors.New("search api error")

// PageFetcher es el puerto del ciclo request/response de una página.
// Lo implementa Fetcher; los tests inyectan fakes.
type PageFetcher interface {
	FetchPage(ctx context.Context, fullURL string) (map[string]any, error)
}

type Fetcher struct {
	http      *httpclient.Client
	userAgent string
	log       logger.Logger
}

func NewFetcher(cfg config.ScraperConfig, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		http:      httpclient.New(cfg.Timeout()),
		userAgent: cfg.UserAgent,
		log:       log,
	}
}

// FetchPage trae una página y valida la forma mínima del payload: tiene que
// existir el contenedor top-level "result". El resto del árbol se recorre
// defensivamente en la normalización.
func (f *Fetcher) FetchPage(ctx context.Context, fullURL string) (map[string]any, error) {
	f.log.Debug("fetching page", map[string]any{"url": fullURL})

	headers := map[string]string{
		"Accept":           "application/json, text/plain, */*",
		"User-Agent":       f.userAgent,
		"X-Requested-With": "XMLHttpRequest",
	}

	var payload map[string]any
	if err := f.http.GetJSON(ctx, fullURL, headers, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}

	if _, ok := payload["result"]; !ok {
		return nil, fmt.Errorf("%w: invalid response structure: missing 'result' key", ErrAPI)
	}

	return payload, nil
}
