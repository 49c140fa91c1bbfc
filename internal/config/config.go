package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetDir      string
	DatasetMarker   string
	DatasetExt      string
	DatasetVariable string
	LocationsFile   string
	OutputDir       string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ReportInterval  time.Duration

	// Kafka sink for trajectory points.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Postgres sink; disabled when empty.
	DatabaseURL string

	// Mapbox reverse geocoding for report subtitles.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	reportInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("REPORT_INTERVAL", "1h"))
	if err != nil || reportInterval <= 0 {
		return nil, errors.New("invalid REPORT_INTERVAL")
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		DatasetDir:      sharedcfg.EnvOrDefault("DATASET_DIR", "./data"),
		DatasetMarker:   sharedcfg.EnvOrDefault("DATASET_MARKER", "FireRisk"),
		DatasetExt:      sharedcfg.EnvOrDefault("DATASET_EXT", ".nc"),
		DatasetVariable: sharedcfg.EnvOrDefault("DATASET_VARIABLE", "rf"),
		LocationsFile:   sharedcfg.EnvOrDefault("LOCATIONS_FILE", "locations.yaml"),
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "./out"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		ReportInterval:  reportInterval,

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "fire-risk-points"),
		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",

		DatabaseURL: os.Getenv("DATABASE_URL"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}

	if cfg.DatasetVariable == "" {
		return nil, errors.New("DATASET_VARIABLE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 100
}

// locationsFile is the YAML layout of LOCATIONS_FILE.
type locationsFile struct {
	Locations []domain.Location `yaml:"locations"`
}

// LoadLocations reads the tracked locations from a YAML file:
//
//	locations:
//	  - name: Palmeiras
//	    lat: -12.45
//	    lon: -41.47
func LoadLocations(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}

	var file locationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locations %s: %w", path, err)
	}

	if len(file.Locations) == 0 {
		return nil, fmt.Errorf("no locations in %s", path)
	}
	seen := make(map[string]bool, len(file.Locations))
	for i, loc := range file.Locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("location %d: name is required", i+1)
		}
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			return nil, fmt.Errorf("location %q: coordinates out of range", loc.Name)
		}
		if seen[loc.Name] {
			return nil, fmt.Errorf("location %q listed twice", loc.Name)
		}
		seen[loc.Name] = true
	}
	return file.Locations, nil
}
