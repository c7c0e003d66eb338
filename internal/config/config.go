package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Trip store backends selectable with TRIP_STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Port string

	TripStore     string
	DBPath        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	SeedPath      string

	ORSAPIKey  string
	ORSBaseURL string

	RoutingTimeout     time.Duration
	RoutingConcurrency int

	DistanceCacheSize int
	DistanceCacheTTL  time.Duration
	RedisURL          string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var cfg Config
	var err error

	cfg.Port = Get("PORT", "8080")
	cfg.TripStore = strings.ToLower(Get("TRIP_STORE", StoreSQLite))
	cfg.DBPath = Get("DB_PATH", "data/app.db")
	cfg.DatabaseURL = Get("DATABASE_URL", "")
	cfg.MongoURI = Get("MONGO_URI", "")
	cfg.MongoDatabase = Get("MONGO_DATABASE", "travel")
	cfg.SeedPath = Get("SEED_PATH", "data/seeds/trips.json")
	cfg.ORSAPIKey = Get("ORS_API_KEY", "")
	cfg.ORSBaseURL = Get("ORS_BASE_URL", "")
	cfg.RedisURL = Get("REDIS_URL", "")

	if cfg.RoutingTimeout, err = GetDuration("ROUTING_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RoutingConcurrency, err = GetInt("ROUTING_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if cfg.DistanceCacheSize, err = GetInt("DISTANCE_CACHE_SIZE", 1024); err != nil {
		return Config{}, err
	}
	if cfg.DistanceCacheTTL, err = GetDuration("DISTANCE_CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.TripStore {
	case StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when TRIP_STORE=%s", StorePostgres)
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config: MONGO_URI is required when TRIP_STORE=%s", StoreMongo)
		}
	default:
		return fmt.Errorf("config: unsupported TRIP_STORE %q", c.TripStore)
	}

	if c.RoutingTimeout <= 0 {
		return fmt.Errorf("config: ROUTING_TIMEOUT must be positive, got %s", c.RoutingTimeout)
	}
	if c.RoutingConcurrency < 1 {
		return fmt.Errorf("config: ROUTING_CONCURRENCY must be at least 1, got %d", c.RoutingConcurrency)
	}
	if c.DistanceCacheSize < 0 {
		return fmt.Errorf("config: DISTANCE_CACHE_SIZE must not be negative, got %d", c.DistanceCacheSize)
	}
	if c.RedisURL != "" && c.DistanceCacheTTL <= 0 {
		return fmt.Errorf("config: DISTANCE_CACHE_TTL must be positive when REDIS_URL is set")
	}

	return nil
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: invalid integer %q: %w", key, v, err)
	}
	return n, nil
}

// GetDuration accepts Go duration strings ("750ms", "2s") or a plain number of seconds.
func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}
