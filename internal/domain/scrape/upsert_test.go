package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "pet-adoption-scraper/internal/adapters/storage/memory"
	"pet-adoption-scraper/internal/domain/pets"
)

func batchRecord(name, profileURL string, lat, lon *float64) pets.Pet {
	return pets.Pet{
		Name:         name,
		ProfileURL:   profileURL,
		PrimaryBreed: "Labrador",
		Sex:          "male",
		Latitude:     lat,
		Longitude:    lon,
		ScrapedAt:    time.Now(),
	}
}

func TestSaveBatch_UpsertIsIdempotent(t *testing.T) {
	repo := mem.NewPetRepo()
	svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{})
	ctx := context.Background()

	batch := []pets.Pet{
		batchRecord("Milo", "https://x/milo", nil, nil),
		batchRecord("Luna", "https://x/luna", nil, nil),
	}

	saved, updated, _, err := svc.saveBatch(ctx, batch, "", "", 0)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if saved != 2 || updated != 0 {
		t.Fatalf("first apply saved/updated = %d/%d, want 2/0", saved, updated)
	}

	saved, updated, _, err = svc.saveBatch(ctx, batch, "", "", 0)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if saved != 0 {
		t.Fatalf("second apply saved = %d, want 0 new inserts", saved)
	}
	if updated != 2 {
		t.Fatalf("second apply updated = %d, want 2", updated)
	}

	count, _ := repo.Count(ctx)
	if count != 2 {
		t.Fatalf("count after double apply = %d, want 2 (no duplicate growth)", count)
	}
}

func TestSaveBatch_EmptyProfileURLAlwaysInserts(t *testing.T) {
	repo := mem.NewPetRepo()
	svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{})
	ctx := context.Background()

	batch := []pets.Pet{batchRecord("Anon", "", nil, nil)}

	for i := 0; i < 2; i++ {
		if _, _, _, err := svc.saveBatch(ctx, batch, "", "", 0); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	count, _ := repo.Count(ctx)
	if count != 2 {
		t.Fatalf("count = %d, want 2 (empty identifier never matches)", count)
	}
}

func TestSaveBatch_UpdateOverwritesFieldsButKeepsIdentity(t *testing.T) {
	repo := mem.NewPetRepo()
	svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{})
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	rec := batchRecord("Milo", "https://x/milo", nil, nil)
	if _, _, _, err := svc.saveBatch(ctx, []pets.Pet{rec}, "", "", 0); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	original, found, _ := repo.FindByProfileURL(ctx, "https://x/milo")
	if !found {
		t.Fatal("expected stored pet")
	}

	svc.now = func() time.Time { return base.Add(time.Hour) }
	rec.Name = "Milo Updated"
	rec.Age = "Senior"
	if _, _, _, err := svc.saveBatch(ctx, []pets.Pet{rec}, "", "", 0); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	updated, _, _ := repo.FindByProfileURL(ctx, "https://x/milo")
	if updated.ID != original.ID {
		t.Fatalf("identity changed: %s -> %s", original.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", original.CreatedAt, updated.CreatedAt)
	}
	if updated.Name != "Milo Updated" || updated.Age != "Senior" {
		t.Fatalf("fields not overwritten: %+v", updated)
	}
	if !updated.UpdatedAt.After(original.UpdatedAt) {
		t.Fatalf("updated_at not advanced: %v", updated.UpdatedAt)
	}
}

func TestSaveBatch_DistanceFilter(t *testing.T) {
	cases := []struct {
		name     string
		rec      pets.Pet
		maxMiles int
		retained bool
	}{
		{"within radius", batchRecord("Near", "https://x/n", f64(tacoma.Lat), f64(tacoma.Lon)), 50, true},
		{"beyond radius", batchRecord("Far", "https://x/f", f64(spokane.Lat), f64(spokane.Lon)), 50, false},
		{"exactly at origin", batchRecord("Here", "https://x/h", f64(seattle.Lat), f64(seattle.Lon)), 1, true},
		{"no coordinates always retained", batchRecord("NoGeo", "https://x/g", nil, nil), 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mem.NewPetRepo()
			svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{coords: &seattle})
			ctx := context.Background()

			saved, _, filtered, err := svc.saveBatch(ctx, []pets.Pet{tc.rec}, "Seattle", "WA", tc.maxMiles)
			if err != nil {
				t.Fatalf("saveBatch: %v", err)
			}

			if tc.retained {
				if saved != 1 || filtered != 0 {
					t.Fatalf("saved/filtered = %d/%d, want 1/0", saved, filtered)
				}
			} else {
				if saved != 0 || filtered != 1 {
					t.Fatalf("saved/filtered = %d/%d, want 0/1", saved, filtered)
				}
			}
		})
	}
}

func TestSaveBatch_OriginResolutionFailureDisablesFilter(t *testing.T) {
	repo := mem.NewPetRepo()
	// resolver sin coordenadas: el batch sigue sin filtro de distancia.
	svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{coords: nil})
	ctx := context.Background()

	batch := []pets.Pet{
		batchRecord("Far", "https://x/far", f64(spokane.Lat), f64(spokane.Lon)),
	}

	saved, _, filtered, err := svc.saveBatch(ctx, batch, "Nowhere", "ZZ", 10)
	if err != nil {
		t.Fatalf("saveBatch: %v", err)
	}
	if saved != 1 || filtered != 0 {
		t.Fatalf("saved/filtered = %d/%d, want 1/0 without origin", saved, filtered)
	}
}

func TestSaveBatch_InvalidRecordIsSkipped(t *testing.T) {
	repo := mem.NewPetRepo()
	svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{})
	ctx := context.Background()

	bad := batchRecord("Mixy", "https://x/mixy", nil, nil)
	bad.IsMixedBreed = true
	bad.SecondaryBreed = ""

	saved, _, _, err := svc.saveBatch(ctx, []pets.Pet{bad, batchRecord("Ok", "https://x/ok", nil, nil)}, "", "", 0)
	if err != nil {
		t.Fatalf("saveBatch: %v", err)
	}
	if saved != 1 {
		t.Fatalf("saved = %d, want 1 (invalid record skipped)", saved)
	}
}

// flakyRepo falla el Create de un nombre puntual para simular el fallo de un
// registro individual dentro del batch.
type flakyRepo struct {
	pets.Repository
	failName string
}

func (r *flakyRepo) Create(ctx context.Context, p pets.Pet) error {
	if p.Name == r.failName {
		return errors.New("simulated write failure")
	}
	return r.Repository.Create(ctx, p)
}

func (r *flakyRepo) WithinTx(ctx context.Context, fn func(pets.Repository) error) error {
	return r.Repository.WithinTx(ctx, func(tx pets.Repository) error {
		return fn(&flakyRepo{Repository: tx, failName: r.failName})
	})
}

func TestSaveBatch_PerRecordFailureDoesNotAbortBatch(t *testing.T) {
	repo := &flakyRepo{Repository: mem.NewPetRepo(), failName: "Bad"}
	svc, _ := newTestService(repo, &fakeFetcher{}, &fixedResolver{})
	ctx := context.Background()

	batch := []pets.Pet{
		batchRecord("Good1", "https://x/g1", nil, nil),
		batchRecord("Bad", "https://x/bad", nil, nil),
		batchRecord("Good2", "https://x/g2", nil, nil),
	}

	saved, _, _, err := svc.saveBatch(ctx, batch, "", "", 0)
	if err != nil {
		t.Fatalf("batch should commit with survivors, got %v", err)
	}
	if saved != 2 {
		t.Fatalf("saved = %d, want 2", saved)
	}

	count, _ := repo.Count(ctx)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}
