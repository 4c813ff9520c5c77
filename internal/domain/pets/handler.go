package pets

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Delete("/", clearPetsHandler(svc))
		pr.Get("/stats", statsHandler(svc))
		pr.Get("/export.csv", exportCSVHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})
}

type petResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	ProfileURL     string     `json:"profile_url,omitempty"`
	PhotoURL       string     `json:"photo_url,omitempty"`
	PrimaryBreed   string     `json:"primary_breed,omitempty"`
	SecondaryBreed string     `json:"secondary_breed,omitempty"`
	IsMixedBreed   bool       `json:"is_mixed_breed"`
	PrimaryColor   string     `json:"primary_color,omitempty"`
	Age            string     `json:"age,omitempty"`
	Sex            string     `json:"sex,omitempty"`
	Size           string     `json:"size,omitempty"`
	CoatLength     string     `json:"coat_length,omitempty"`
	AdoptionFee    *float64   `json:"adoption_fee"`
	FeeWaived      bool       `json:"fee_waived"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	PostalCode     string     `json:"postal_code,omitempty"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	Location       string     `json:"location"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ScrapedAt      time.Time  `json:"scraped_at"`
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	// Filtros por query params, igual que el listado original.
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := Filter{
			Breed: q.Get("breed"),
			Sex:   q.Get("sex"),
			Size:  q.Get("size"),
			Age:   q.Get("age"),
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func clearPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.ClearAll(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func exportCSVHandler(svc *Service) http.HandlerFunc {
	// Mismo layout de columnas que el export original.
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), Filter{})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="pets.csv"`)

		cw := csv.NewWriter(w)
		_ = cw.Write([]string{
			"ID", "Name", "Profile URL", "Primary Breed", "Secondary Breed",
			"Is Mixed Breed", "Primary Color", "Age", "Sex", "Size",
			"Coat Length", "Photo URL", "Adoption Fee", "Fee Waived",
			"Created At", "Updated At",
		})

		for _, p := range items {
			fee := ""
			if p.AdoptionFee != nil {
				fee = fmt.Sprintf("%.2f", *p.AdoptionFee)
			}
			_ = cw.Write([]string{
				p.ID,
				p.Name,
				p.ProfileURL,
				p.PrimaryBreed,
				p.SecondaryBreed,
				fmt.Sprintf("%t", p.IsMixedBreed),
				p.PrimaryColor,
				p.Age,
				p.Sex,
				p.Size,
				p.CoatLength,
				p.PhotoURL,
				fee,
				fmt.Sprintf("%t", p.FeeWaived),
				p.CreatedAt.Format("2006-01-02 15:04:05"),
				p.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		cw.Flush()
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:             p.ID,
		Name:           p.Name,
		ProfileURL:     p.ProfileURL,
		PhotoURL:       p.PhotoURL,
		PrimaryBreed:   p.PrimaryBreed,
		SecondaryBreed: p.SecondaryBreed,
		IsMixedBreed:   p.IsMixedBreed,
		PrimaryColor:   p.PrimaryColor,
		Age:            p.Age,
		Sex:            p.Sex,
		Size:           p.Size,
		CoatLength:     p.CoatLength,
		AdoptionFee:    p.AdoptionFee,
		FeeWaived:      p.FeeWaived,
		City:           p.City,
		State:          p.State,
		PostalCode:     p.PostalCode,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Location:       p.DisplayLocation(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		ScrapedAt:      p.ScrapedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (pets/scrape) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
