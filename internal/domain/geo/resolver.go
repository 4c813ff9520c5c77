package geo

import (
	"context"

	"pet-adoption-scraper/internal/platform/logger"
)

// Provider es el puerto hacia el proveedor externo de geocoding.
// Los adapters viven en internal/adapters/geocoding.
type Provider interface {
	Locate(ctx context.Context, city, state string) (Coordinates, error)
}

// CachedResolver resuelve (city, state) -> coordenadas consultando primero la
// tabla estática y cayendo al Provider en caso de miss.
//
// Nunca devuelve error: un fallo del proveedor (red, payload inválido, sin
// resultados) se degrada a nil y el caller salta el filtro de distancia.
type CachedResolver struct {
	provider Provider
	log      logger.Logger
}

func NewCachedResolver(provider Provider, log logger.Logger) *CachedResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedResolver{
		provider: provider,
		log:      log,
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, city, state string) *Coordinates {
	if c, ok := cachedCoordinates(city, state); ok {
		r.log.Debug("using cached coordinates", map[string]any{
			"city":  city,
			"state": state,
		})
		return &c
	}

	if r.provider == nil {
		return nil
	}

	c, err := r.provider.Locate(ctx, city, state)
	if err != nil {
		r.log.Warn("geocoding failed", map[string]any{
			"city":  city,
			"state": state,
			"error": err.Error(),
		})
		return nil
	}

	return &c
}
