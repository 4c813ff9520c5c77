package pets

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-adoption-scraper/internal/platform/logger"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Pet, error) {
	f.Breed = strings.TrimSpace(f.Breed)
	f.Sex = strings.TrimSpace(f.Sex)
	f.Size = strings.TrimSpace(f.Size)
	f.Age = strings.TrimSpace(f.Age)
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ClearAll borra todos los pets. Se ejecuta antes de cada búsqueda nueva para
// evitar acumular resultados de corridas anteriores.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("cleared pets", map[string]any{"deleted": deleted})
	return deleted, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

type BreedCount struct {
	Breed string `json:"breed"`
	Count int    `json:"count"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalPets        int          `json:"total_pets"`
	TotalBreeds      int          `json:"total_breeds"`
	MixedBreeds      int          `json:"mixed_breeds"`
	TopBreeds        []BreedCount `json:"top_breeds"`
	SexDistribution  []ValueCount `json:"sex_distribution"`
	SizeDistribution []ValueCount `json:"size_distribution"`
}

// Stats agrega sobre el estado persistido: totales, razas distintas, mezclas,
// top-10 de razas y distribuciones por sexo y tamaño.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	breedCounts := map[string]int{}
	sexCounts := map[string]int{}
	sizeCounts := map[string]int{}
	mixed := 0

	for _, p := range all {
		if b := strings.TrimSpace(p.PrimaryBreed); b != "" {
			breedCounts[b]++
		}
		if p.Sex != "" {
			sexCounts[p.Sex]++
		}
		if p.Size != "" {
			sizeCounts[p.Size]++
		}
		if p.IsMixedBreed {
			mixed++
		}
	}

	topBreeds := make([]BreedCount, 0, len(breedCounts))
	for b, n := range breedCounts {
		topBreeds = append(topBreeds, BreedCount{Breed: b, Count: n})
	}
	sortCountsDesc(topBreeds, func(b BreedCount) (string, int) { return b.Breed, b.Count })
	if len(topBreeds) > 10 {
		topBreeds = topBreeds[:10]
	}

	return Stats{
		TotalPets:        len(all),
		TotalBreeds:      len(breedCounts),
		MixedBreeds:      mixed,
		TopBreeds:        topBreeds,
		SexDistribution:  toValueCounts(sexCounts),
		SizeDistribution: toValueCounts(sizeCounts),
	}, nil
}

func toValueCounts(m map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(m))
	for v, n := range m {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sortCountsDesc(out, func(v ValueCount) (string, int) { return v.Value, v.Count })
	return out
}

// sortCountsDesc ordena por count desc, desempatando por nombre asc para que
// la salida sea estable.
func sortCountsDesc[T any](items []T, key func(T) (string, int)) {
	sort.Slice(items, func(i, j int) bool {
		ni, ci := key(items[i])
		nj, cj := key(items[j])
		if ci != cj {
			return ci > cj
		}
		return ni < nj
	})
}
