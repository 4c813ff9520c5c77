package scrape

import (
	"context"

	"github.com/google/uuid"

	"pet-adoption-scraper/internal/domain/geo"
	"pet-adoption-scraper/internal/domain/pets"
)

// saveBatch aplica el batch completo dentro de una transacción: filtro de
// distancia, match por ProfileURL y create-o-update por registro.
//
// El fallo de un registro individual se loguea y el registro se saltea; la
// transacción commitea con los que sí entraron. Solo un error que escape del
// loop (p.ej. abrir la transacción) aborta el batch entero.
func (s *Service) saveBatch(
	ctx context.Context,
	records []pets.Pet,
	searchCity, searchState string,
	maxDistance int,
) (saved, updated, filtered int, err error) {
	var origin *geo.Coordinates
	if searchCity != "" && searchState != "" && maxDistance > 0 {
		// Una sola resolución por batch. Si falla, se avisa y el batch
		// sigue sin filtro de distancia.
		origin = s.resolver.Resolve(ctx, searchCity, searchState)
		if origin == nil {
			s.log.Warn("could not resolve search origin, distance filter disabled", map[string]any{
				"city":  searchCity,
				"state": searchState,
			})
		}
	}

	err = s.repo.WithinTx(ctx, func(tx pets.Repository) error {
		for _, rec := range records {
			if origin != nil && maxDistance > 0 {
				if coords := rec.Coords(); coords != nil {
					d, ok := geo.DistanceBetween(origin, coords)
					if !ok || d > float64(maxDistance) {
						filtered++
						s.log.Debug("filtered out by distance", map[string]any{
							"name":     rec.Name,
							"distance": d,
						})
						continue
					}
				}
				// Sin coordenadas propias el registro pasa igual: la
				// ausencia de ubicación no lo descarta.
			}

			if err := rec.Validate(); err != nil {
				s.log.Error("invalid record skipped", map[string]any{
					"name":  rec.Name,
					"error": err.Error(),
				})
				continue
			}

			existing, found, err := tx.FindByProfileURL(ctx, rec.ProfileURL)
			if err != nil {
				s.log.Error("failed to match record", map[string]any{
					"name":  rec.Name,
					"error": err.Error(),
				})
				continue
			}

			now := s.now()
			if found {
				// Match por clave natural: se pisan todos los campos menos
				// la identidad y el created_at original.
				rec.ID = existing.ID
				rec.CreatedAt = existing.CreatedAt
				rec.UpdatedAt = now
				if err := tx.Update(ctx, rec); err != nil {
					s.log.Error("failed to update pet", map[string]any{
						"name":  rec.Name,
						"error": err.Error(),
					})
					continue
				}
				updated++
			} else {
				rec.ID = uuid.NewString()
				rec.CreatedAt = now
				rec.UpdatedAt = now
				if err := tx.Create(ctx, rec); err != nil {
					s.log.Error("failed to create pet", map[string]any{
						"name":  rec.Name,
						"error": err.Error(),
					})
					continue
				}
				saved++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}

	s.log.Info("batch applied", map[string]any{
		"saved":    saved,
		"updated":  updated,
		"filtered": filtered,
	})
	return saved, updated, filtered, nil
}
