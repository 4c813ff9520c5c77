// petsctl agrupa las operaciones de mantenimiento del scraper: limpieza de
// duplicados y una búsqueda de diagnóstico contra el API real.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pet-adoption-scraper/internal/adapters/geocoding/nominatim"
	mem "pet-adoption-scraper/internal/adapters/storage/memory"
	pg "pet-adoption-scraper/internal/adapters/storage/postgres"
	"pet-adoption-scraper/internal/config"
	"pet-adoption-scraper/internal/domain/geo"
	"pet-adoption-scraper/internal/domain/pets"
	"pet-adoption-scraper/internal/domain/scrape"
	"pet-adoption-scraper/internal/platform/logger"
)

var (
	dryRun bool

	searchCity     string
	searchState    string
	searchAnimal   string
	searchDistance int
	searchPages    int
)

var rootCmd = &cobra.Command{
	Use:   "petsctl",
	Short: "Maintenance commands for the pet adoption scraper",
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate pets by profile URL and by name+breed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Database.DSN == "" {
			return fmt.Errorf("dedupe requires DB_DSN (nothing to sweep in memory)")
		}

		db, err := pg.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		log := logger.NewFromEnv()
		sweeper := scrape.NewSweeper(pg.NewPetsRepo(db), log)

		entries, err := sweeper.Sweep(context.Background(), dryRun)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No duplicate pets found!")
			return nil
		}

		verb := "Deleted"
		if dryRun {
			fmt.Println("DRY RUN MODE - No pets will be deleted")
			verb = "Would delete"
		}
		for _, e := range entries {
			fmt.Printf("%s: %s (%s) [%s] id=%s\n", verb, e.Name, e.Breed, e.Reason, e.ID)
		}
		fmt.Printf("\n%s %d duplicate pets\n", verb, len(entries))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a diagnostic scrape and report what would be stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log := logger.NewFromEnv()

		// La búsqueda de diagnóstico trabaja sobre un repo in-memory: no
		// toca la base real.
		repo := mem.NewPetRepo()

		resolver := geo.NewCachedResolver(nominatim.NewClient(nominatim.Config{
			BaseURL:   cfg.Geocoding.BaseURL,
			UserAgent: cfg.Geocoding.UserAgent,
			Timeout:   cfg.Geocoding.Timeout(),
		}), log)

		svc := scrape.NewService(
			repo,
			scrape.NewFetcher(cfg.Scraper, log),
			scrape.NewQueryBuilder(cfg.Scraper),
			resolver,
			log,
			cfg.Scraper.PageDelay(),
		)

		fmt.Printf("Testing search: %ss in %s, %s within %d miles\n",
			searchAnimal, searchCity, searchState, searchDistance)

		result, err := svc.Scrape(context.Background(), scrape.ScrapeInput{
			City:     searchCity,
			State:    searchState,
			Animal:   searchAnimal,
			MaxPages: searchPages,
			Distance: &searchDistance,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Total pages available: %d, fetched: %d\n", result.TotalPages, result.PagesFetched)
		fmt.Printf("Records: %d, saved: %d, updated: %d, filtered by distance: %d\n",
			result.Records, result.Saved, result.Updated, result.Filtered)

		stored, err := pets.NewService(repo, log).List(context.Background(), pets.Filter{})
		if err != nil {
			return err
		}
		for i, p := range stored {
			if i >= 10 {
				fmt.Printf("... and %d more\n", len(stored)-10)
				break
			}
			fmt.Printf("  %s (%s) - %s\n", p.Name, p.PrimaryBreed, p.DisplayLocation())
		}
		return nil
	},
}

func init() {
	dedupeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")

	searchCmd.Flags().StringVar(&searchCity, "city", "Seattle", "city to search in")
	searchCmd.Flags().StringVar(&searchState, "state", "WA", "state to search in")
	searchCmd.Flags().StringVar(&searchAnimal, "animal", "dog", "animal type to search for")
	searchCmd.Flags().IntVar(&searchDistance, "distance", 100, "search radius in miles")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "maximum pages to fetch")

	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(searchCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
