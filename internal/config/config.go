package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config reemplaza el estado global implícito del proyecto original:
// timeouts, delays, base URLs y credenciales viajan explícitamente a cada
// componente en su construcción.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Database  DatabaseConfig  `yaml:"database"`
}

type AppConfig struct {
	Name      string `yaml:"name"`
	Port      int    `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type ScraperConfig struct {
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
	PageSize       int    `yaml:"page_size"`
	PageDelaySecs  int    `yaml:"page_delay_secs"`
	DefaultMiles   int    `yaml:"default_miles"`
	MaxMiles       int    `yaml:"max_miles"`
	MinMiles       int    `yaml:"min_miles"`
}

type GeocodingConfig struct {
	BaseURL     string `yaml:"base_url"`
	UserAgent   string `yaml:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

func (c ScraperConfig) Timeout() time.Duration   { return time.Duration(c.TimeoutSecs) * time.Second }
func (c ScraperConfig) PageDelay() time.Duration { return time.Duration(c.PageDelaySecs) * time.Second }
func (c GeocodingConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSecs) * time.Second }

// Default devuelve la configuración base del scraper.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:      "pet-adoption-scraper",
			Port:      8080,
			LogLevel:  "info",
			LogFormat: "text",
		},
		Scraper: ScraperConfig{
			BaseURL:       "https://www.petfinder.com/search/",
			UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			TimeoutSecs:   30,
			PageSize:      100,
			PageDelaySecs: 2,
			DefaultMiles:  100,
			MaxMiles:      500,
			MinMiles:      1,
		},
		Geocoding: GeocodingConfig{
			BaseURL:     "https://nominatim.openstreetmap.org/search",
			UserAgent:   "PetAdoptionScraper/1.0 (Educational Purpose)",
			TimeoutSecs: 10,
		},
		Database: DatabaseConfig{},
	}
}

// Load arma la config en tres capas: defaults -> YAML opcional -> env.
// El YAML base vive en configs/app.yaml (si no existe, no es error).
func Load() (Config, error) {
	cfg := Default()

	basePath := filepath.Join("configs", "app.yaml")
	if b, err := os.ReadFile(basePath); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv pisa valores puntuales desde variables de entorno.
func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_NAME"); v != "" {
		cfg.App.Name = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.App.Port = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.App.LogFormat = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SCRAPER_BASE_URL"); v != "" {
		cfg.Scraper.BaseURL = v
	}
	if v := os.Getenv("GEOCODING_BASE_URL"); v != "" {
		cfg.Geocoding.BaseURL = v
	}
}
