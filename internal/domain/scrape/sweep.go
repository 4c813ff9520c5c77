package scrape

import (
	"context"
	"sort"

	"pet-adoption-scraper/internal/domain/pets"
	"pet-adoption-scraper/internal/platform/logger"
)

// Sweeper es el pase de mantenimiento que limpia duplicados acumulados:
// primero por ProfileURL, después por la clave compuesta (name, breed).
// En cada grupo sobrevive la entidad creada más recientemente.
type Sweeper struct {
	repo pets.Repository
	log  logger.Logger
}

func NewSweeper(repo pets.Repository, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &Sweeper{repo: repo, log: log}
}

// SweepEntry describe una entidad removida (o a remover, en dry-run).
type SweepEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Breed      string `json:"breed"`
	ProfileURL string `json:"profile_url"`
	Reason     string `json:"reason"` // "profile_url" | "name_breed"
}

// Sweep corre los dos pases en secuencia. Una entidad removida en el pase por
// ProfileURL no se vuelve a considerar en el pase por name+breed. Con dryRun
// devuelve las candidatas sin borrar nada.
func (s *Sweeper) Sweep(ctx context.Context, dryRun bool) ([]SweepEntry, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	removed := make([]SweepEntry, 0)
	removedIDs := make(map[string]struct{})

	// Pase (a): duplicados por ProfileURL no vacía.
	byProfile := make(map[string][]pets.Pet)
	for _, p := range all {
		if p.ProfileURL == "" {
			continue
		}
		byProfile[p.ProfileURL] = append(byProfile[p.ProfileURL], p)
	}
	for _, group := range byProfile {
		for _, victim := range victims(group) {
			removedIDs[victim.ID] = struct{}{}
			removed = append(removed, SweepEntry{
				ID:         victim.ID,
				Name:       victim.Name,
				Breed:      victim.PrimaryBreed,
				ProfileURL: victim.ProfileURL,
				Reason:     "profile_url",
			})
		}
	}

	// Pase (b): duplicados por (name, breed) entre las sobrevivientes.
	type nameBreed struct{ name, breed string }
	byNameBreed := make(map[nameBreed][]pets.Pet)
	for _, p := range all {
		if _, gone := removedIDs[p.ID]; gone {
			continue
		}
		key := nameBreed{p.Name, p.PrimaryBreed}
		byNameBreed[key] = append(byNameBreed[key], p)
	}
	for _, group := range byNameBreed {
		for _, victim := range victims(group) {
			removedIDs[victim.ID] = struct{}{}
			removed = append(removed, SweepEntry{
				ID:         victim.ID,
				Name:       victim.Name,
				Breed:      victim.PrimaryBreed,
				ProfileURL: victim.ProfileURL,
				Reason:     "name_breed",
			})
		}
	}

	if dryRun || len(removed) == 0 {
		s.log.Info("duplicate sweep (dry run)", map[string]any{
			"candidates": len(removed),
			"dry_run":    dryRun,
		})
		return removed, nil
	}

	err = s.repo.WithinTx(ctx, func(tx pets.Repository) error {
		for _, entry := range removed {
			if err := tx.Delete(ctx, entry.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("duplicate sweep complete", map[string]any{"removed": len(removed)})
	return removed, nil
}

// victims devuelve todas las entidades del grupo menos la creada más
// recientemente. Grupos de una sola entidad no tienen víctimas.
func victims(group []pets.Pet) []pets.Pet {
	if len(group) < 2 {
		return nil
	}
	sorted := make([]pets.Pet, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[1:]
}
