package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-adoption-scraper/internal/config"
	"pet-adoption-scraper/internal/platform/logger"
)

// Servidor que imita al API de búsqueda externo: una página con tres animales,
// dos cerca de Seattle y uno en Spokane (fuera de un radio de 50 millas).
func fakeSearchAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			http.Error(w, "unexpected page", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"result": {
				"pagination": {"total_pages": 1, "total_count": 3},
				"animals": [
					{
						"animal": {
							"name": "Milo",
							"primary_breed": {"name": "Labrador"},
							"sex": "Male",
							"size": "Medium",
							"social_sharing": {"email_url": "https://example.com/pet/milo"}
						},
						"location": {
							"address": {"city": "Tacoma", "state": "WA"},
							"geo": {"latitude": 47.2529, "longitude": -122.4443}
						}
					},
					{
						"animal": {
							"name": "Luna",
							"primary_breed": {"name": "Beagle"},
							"sex": "Female",
							"size": "Small",
							"social_sharing": {"email_url": "https://example.com/pet/luna"}
						}
					},
					{
						"animal": {
							"name": "Rex",
							"primary_breed": {"name": "Husky"},
							"sex": "Male",
							"size": "Large",
							"social_sharing": {"email_url": "https://example.com/pet/rex"}
						},
						"location": {
							"address": {"city": "Spokane", "state": "WA"},
							"geo": {"latitude": 47.6588, "longitude": -117.4260}
						}
					}
				]
			}
		}`)
	}))
}

func testRouter(t *testing.T, searchURL string) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Scraper.BaseURL = searchURL
	cfg.Scraper.PageDelaySecs = 0
	cfg.Database.DSN = ""

	return NewRouter(Options{Cfg: cfg, Log: logger.Nop()})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if out != nil && rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v\n%s", method, path, err, rr.Body.String())
		}
	}
	return rr
}

func TestRouter_ScrapeAndQueryFlow(t *testing.T) {
	api := fakeSearchAPI(t)
	defer api.Close()

	h := testRouter(t, api.URL)

	// Scrape: Seattle sale del cache estático de geocoding, Spokane queda
	// fuera del radio de 50 millas, Luna pasa sin coordenadas.
	var scrapeOut struct {
		Cleared      int64 `json:"cleared"`
		TotalPages   int   `json:"total_pages"`
		PagesFetched int   `json:"pages_fetched"`
		Saved        int   `json:"saved"`
		Filtered     int   `json:"filtered"`
	}
	rr := doJSON(t, h, http.MethodPost, "/scrape", map[string]any{
		"city": "Seattle", "state": "WA", "animal": "dog",
		"max_pages": 1, "distance": 50,
	}, &scrapeOut)
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /scrape = %d: %s", rr.Code, rr.Body.String())
	}
	if scrapeOut.Saved != 2 || scrapeOut.Filtered != 1 {
		t.Fatalf("saved/filtered = %d/%d, want 2/1", scrapeOut.Saved, scrapeOut.Filtered)
	}
	if scrapeOut.TotalPages != 1 || scrapeOut.PagesFetched != 1 {
		t.Fatalf("pages = %d/%d, want 1/1", scrapeOut.TotalPages, scrapeOut.PagesFetched)
	}

	// Listado completo.
	var list []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	rr = doJSON(t, h, http.MethodGet, "/pets", nil, &list)
	if rr.Code != http.StatusOK || len(list) != 2 {
		t.Fatalf("GET /pets = %d, %d items", rr.Code, len(list))
	}

	// Filtrado por raza.
	var filtered []struct {
		Name string `json:"name"`
	}
	doJSON(t, h, http.MethodGet, "/pets?breed=labrador", nil, &filtered)
	if len(filtered) != 1 || filtered[0].Name != "Milo" {
		t.Fatalf("breed filter = %+v, want only Milo", filtered)
	}

	// Detalle por ID y 404.
	var single struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	rr = doJSON(t, h, http.MethodGet, "/pets/"+list[0].ID, nil, &single)
	if rr.Code != http.StatusOK || single.Name == "" {
		t.Fatalf("GET /pets/{id} = %d, %+v", rr.Code, single)
	}
	rr = doJSON(t, h, http.MethodGet, "/pets/does-not-exist", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("GET missing pet = %d, want 404", rr.Code)
	}

	// Stats.
	var stats struct {
		TotalPets   int `json:"total_pets"`
		TotalBreeds int `json:"total_breeds"`
	}
	doJSON(t, h, http.MethodGet, "/pets/stats", nil, &stats)
	if stats.TotalPets != 2 || stats.TotalBreeds != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	// Export CSV.
	req := httptest.NewRequest(http.MethodGet, "/pets/export.csv", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /pets/export.csv = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("csv content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "ID,Name,Profile URL") {
		t.Fatalf("unexpected csv header:\n%s", rec.Body.String())
	}

	// Dedupe (sin duplicados después de un scrape limpio).
	var dedupe struct {
		Removed int  `json:"removed"`
		DryRun  bool `json:"dry_run"`
	}
	rr = doJSON(t, h, http.MethodPost, "/maintenance/dedupe?dry_run=true", nil, &dedupe)
	if rr.Code != http.StatusOK || dedupe.Removed != 0 || !dedupe.DryRun {
		t.Fatalf("dedupe = %d, %+v", rr.Code, dedupe)
	}

	// Clear.
	var cleared struct {
		Deleted int64 `json:"deleted"`
	}
	doJSON(t, h, http.MethodDelete, "/pets", nil, &cleared)
	if cleared.Deleted != 2 {
		t.Fatalf("deleted = %d, want 2", cleared.Deleted)
	}
	var empty []any
	doJSON(t, h, http.MethodGet, "/pets", nil, &empty)
	if len(empty) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(empty))
	}
}

func TestRouter_ScrapeClearsPreviousResults(t *testing.T) {
	api := fakeSearchAPI(t)
	defer api.Close()

	h := testRouter(t, api.URL)

	body := map[string]any{
		"city": "Seattle", "state": "WA", "animal": "dog",
		"max_pages": 1, "distance": 50,
	}
	doJSON(t, h, http.MethodPost, "/scrape", body, nil)

	var second struct {
		Cleared int64 `json:"cleared"`
		Saved   int   `json:"saved"`
	}
	rr := doJSON(t, h, http.MethodPost, "/scrape", body, &second)
	if rr.Code != http.StatusOK {
		t.Fatalf("second scrape = %d", rr.Code)
	}
	if second.Cleared != 2 {
		t.Fatalf("cleared = %d, want 2 from the previous run", second.Cleared)
	}
	if second.Saved != 2 {
		t.Fatalf("saved = %d, want 2", second.Saved)
	}
}

func TestRouter_ScrapeValidationAndUpstreamErrors(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	h := testRouter(t, broken.URL)

	rr := doJSON(t, h, http.MethodPost, "/scrape", map[string]any{
		"city": "", "state": "WA", "animal": "dog",
	}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank city = %d, want 400", rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, "/scrape", map[string]any{
		"city": "Seattle", "state": "WA", "animal": "dog", "max_pages": 1,
	}, nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("upstream failure = %d, want 502", rr.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	h := testRouter(t, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rr.Code, rr.Body.String())
	}
}
