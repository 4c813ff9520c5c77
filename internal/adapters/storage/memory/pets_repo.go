package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-scraper/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

// NewPetRepo crea el repo in-memory (dev y tests).
func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) FindByProfileURL(ctx context.Context, profileURL string) (pets.Pet, bool, error) {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return pets.Pet{}, false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Si hubiera más de un match (estado transitorio previo al sweep),
	// gana el creado más recientemente, igual que el lookup original.
	var winner pets.Pet
	found := false
	for _, p := range r.byID {
		if p.ProfileURL != profileURL {
			continue
		}
		if !found || p.CreatedAt.After(winner.CreatedAt) {
			winner = p
			found = true
		}
	}
	return winner, found, nil
}

func (r *petRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	breed := strings.ToLower(strings.TrimSpace(f.Breed))
	age := strings.ToLower(strings.TrimSpace(f.Age))

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if breed != "" && !strings.Contains(strings.ToLower(p.PrimaryBreed), breed) {
			continue
		}
		if f.Sex != "" && p.Sex != f.Sex {
			continue
		}
		if f.Size != "" && p.Size != f.Size {
			continue
		}
		if age != "" && !strings.Contains(strings.ToLower(p.Age), age) {
			continue
		}
		out = append(out, p)
	}

	sortByCreatedDesc(out)
	return out, nil
}

func (r *petRepo) ListAll(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	sortByCreatedDesc(out)
	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *petRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byID))
	r.byID = make(map[string]pets.Pet)
	return n, nil
}

func (r *petRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byID)), nil
}

// WithinTx in-memory no aísla: ejecuta fn contra el mismo repo. Alcanza
// porque el modelo de concurrencia asume un único writer por operación.
func (r *petRepo) WithinTx(ctx context.Context, fn func(pets.Repository) error) error {
	return fn(r)
}

// Orden estable por created_at desc (el listado original ordena igual).
func sortByCreatedDesc(items []pets.Pet) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
