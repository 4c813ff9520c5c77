package scrape

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-adoption-scraper/internal/domain/pets"
)

func RegisterRoutes(r chi.Router, svc *Service, sweeper *Sweeper, catalog *pets.Service) {
	r.Post("/scrape", scrapeHandler(svc, catalog))
	r.Post("/maintenance/dedupe", dedupeHandler(sweeper))
}

type scrapeRequest struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Animal   string `json:"animal"`
	MaxPages int    `json:"max_pages"`
	Distance *int   `json:"distance"`
}

type scrapeResponse struct {
	Cleared int64 `json:"cleared"`
	ScrapeResult
}

func scrapeHandler(svc *Service, catalog *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Toda búsqueda nueva arranca limpiando lo persistido, para no
		// mezclar resultados de corridas anteriores.
		cleared, err := catalog.ClearAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		result, err := svc.Scrape(r.Context(), ScrapeInput{
			City:     req.City,
			State:    req.State,
			Animal:   req.Animal,
			MaxPages: req.MaxPages,
			Distance: req.Distance,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrAPI):
				// El detalle fino (páginas salteadas, registros caídos) ya
				// quedó en los logs; al caller le llega un único resumen.
				http.Error(w, "failed to scrape pets: "+err.Error(), http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, scrapeResponse{
			Cleared:      cleared,
			ScrapeResult: result,
		})
	}
}

func dedupeHandler(sweeper *Sweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dryRun := r.URL.Query().Get("dry_run") == "true"

		entries, err := sweeper.Sweep(r.Context(), dryRun)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"removed": len(entries),
			"dry_run": dryRun,
			"entries": entries,
		})
	}
}

// writeJSON duplicado a propósito (ver nota en pets/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
