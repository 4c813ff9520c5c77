package scrape

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-adoption-scraper/internal/domain/geo"
	"pet-adoption-scraper/internal/domain/pets"
	"pet-adoption-scraper/internal/platform/logger"
)

var ErrInvalidInput = errors.New("invalid input")

// OriginResolver resuelve las coordenadas de origen de la búsqueda.
// Lo implementa geo.CachedResolver.
type OriginResolver interface {
	Resolve(ctx context.Context, city, state string) *geo.Coordinates
}

// Service orquesta el pipeline completo: paginación -> normalización ->
// filtro de distancia -> upsert. Una invocación de Scrape es un flujo
// secuencial; no hay paralelismo entre páginas.
type Service struct {
	repo     pets.Repository
	fetcher  PageFetcher
	queries  *QueryBuilder
	resolver OriginResolver
	log      logger.Logger

	pageDelay time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

func NewService(
	repo pets.Repository,
	fetcher PageFetcher,
	queries *QueryBuilder,
	resolver OriginResolver,
	log logger.Logger,
	pageDelay time.Duration,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		fetcher:   fetcher,
		queries:   queries,
		resolver:  resolver,
		log:       log,
		pageDelay: pageDelay,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

type ScrapeInput struct {
	City   string
	State  string
	Animal string

	// MaxPages limita cuántas páginas se piden. Mínimo 1.
	MaxPages int

	// Distance en millas. nil usa el default; el valor se clampea a los
	// límites del API.
	Distance *int
}

type ScrapeResult struct {
	TotalPages   int `json:"total_pages"`
	PagesFetched int `json:"pages_fetched"`
	Records      int `json:"records"`
	Saved        int `json:"saved"`
	Updated      int `json:"updated"`
	Filtered     int `json:"filtered"`
}

// Scrape recorre hasta min(MaxPages, total disponible) páginas del API,
// normaliza cada registro y persiste el batch acumulado de una sola vez.
//
// Fallos de una página individual se loguean y la página se saltea; solo un
// fallo en la página 1 (que trae la metadata de paginación) aborta la
// operación con ErrAPI.
func (s *Service) Scrape(ctx context.Context, in ScrapeInput) (ScrapeResult, error) {
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Animal = strings.TrimSpace(in.Animal)
	if in.City == "" || in.State == "" || in.Animal == "" {
		return ScrapeResult{}, ErrInvalidInput
	}
	if in.MaxPages < 1 {
		in.MaxPages = 1
	}

	distance := s.queries.ClampDistance(in.Distance)

	firstURL := s.queries.Build(in.City, in.State, in.Animal, 1, distance)
	firstPage, err := s.fetcher.FetchPage(ctx, firstURL)
	if err != nil {
		return ScrapeResult{}, err
	}

	pagination := subMap(subMap(firstPage, "result"), "pagination")
	totalPages := intOr(pagination, "total_pages", 1)
	if totalPages < 1 {
		totalPages = 1
	}

	s.log.Info("search started", map[string]any{
		"city":        in.City,
		"state":       in.State,
		"animal":      in.Animal,
		"distance":    distance,
		"total_pages": totalPages,
	})

	pagesToFetch := in.MaxPages
	if totalPages < pagesToFetch {
		pagesToFetch = totalPages
	}

	records := make([]pets.Pet, 0)
	pagesFetched := 0

	for pageNum := 1; pageNum <= pagesToFetch; pageNum++ {
		var page map[string]any

		if pageNum == 1 {
			page = firstPage
		} else {
			// Delay fijo antes de cada página adicional para respetar el
			// rate limit implícito del servicio.
			s.sleep(s.pageDelay)

			pageURL := s.queries.Build(in.City, in.State, in.Animal, pageNum, distance)
			page, err = s.fetcher.FetchPage(ctx, pageURL)
			if err != nil {
				s.log.Error("failed to fetch page", map[string]any{
					"page":  pageNum,
					"error": err.Error(),
				})
				continue
			}
		}
		pagesFetched++

		animals := subList(subMap(page, "result"), "animals")
		scrapedAt := s.now()
		for _, a := range animals {
			raw, ok := a.(map[string]any)
			if !ok {
				continue
			}
			p := normalizeRecord(raw)
			p.ScrapedAt = scrapedAt
			records = append(records, p)
		}

		s.log.Info("extracted page", map[string]any{
			"page":    pageNum,
			"records": len(animals),
		})
	}

	saved, updated, filtered, err := s.saveBatch(ctx, records, in.City, in.State, distance)
	if err != nil {
		return ScrapeResult{}, err
	}

	return ScrapeResult{
		TotalPages:   totalPages,
		PagesFetched: pagesFetched,
		Records:      len(records),
		Saved:        saved,
		Updated:      updated,
		Filtered:     filtered,
	}, nil
}
