package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-adoption-scraper/internal/adapters/geocoding/nominatim"
	mem "pet-adoption-scraper/internal/adapters/storage/memory"
	pg "pet-adoption-scraper/internal/adapters/storage/postgres"
	"pet-adoption-scraper/internal/config"
	"pet-adoption-scraper/internal/domain/geo"
	"pet-adoption-scraper/internal/domain/pets"
	"pet-adoption-scraper/internal/domain/scrape"
	"pet-adoption-scraper/internal/platform/logger"
)

type Options struct {
	Cfg config.Config
	Log logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var repo pets.Repository

	// Si no te pasan DB explícita, intenta por DSN (dev/handoff).
	db := opts.DB
	if db == nil && opts.Cfg.Database.DSN != "" {
		opened, err := pg.Open(opts.Cfg.Database.DSN)
		if err == nil {
			db = opened
		} else {
			log.Warn("postgres unavailable, falling back to memory store", map[string]any{
				"error": err.Error(),
			})
		}
	}

	if db != nil {
		repo = pg.NewPetsRepo(db)
	} else {
		repo = mem.NewPetRepo()
	}

	resolver := geo.NewCachedResolver(nominatim.NewClient(nominatim.Config{
		BaseURL:   opts.Cfg.Geocoding.BaseURL,
		UserAgent: opts.Cfg.Geocoding.UserAgent,
		Timeout:   opts.Cfg.Geocoding.Timeout(),
	}), log)

	catalogSvc := pets.NewService(repo, log)
	scrapeSvc := scrape.NewService(
		repo,
		scrape.NewFetcher(opts.Cfg.Scraper, log),
		scrape.NewQueryBuilder(opts.Cfg.Scraper),
		resolver,
		log,
		opts.Cfg.Scraper.PageDelay(),
	)
	sweeper := scrape.NewSweeper(repo, log)

	pets.RegisterRoutes(r, catalogSvc)
	scrape.RegisterRoutes(r, scrapeSvc, sweeper, catalogSvc)

	return r
}
