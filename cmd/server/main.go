package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"itinerary-optimizer-service/internal/adapters/cache"
	"itinerary-optimizer-service/internal/adapters/distance"
	"itinerary-optimizer-service/internal/adapters/repositories"
	"itinerary-optimizer-service/internal/api"
	"itinerary-optimizer-service/internal/config"
	"itinerary-optimizer-service/internal/platform/db"
	"itinerary-optimizer-service/internal/ports"
	"itinerary-optimizer-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (trip store, distance cache, ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openTripStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	distanceCache, closeCache, err := openDistanceCache(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	// Without a routing key the service still runs; every car leg uses the geodesic fallback.
	var road ports.RoadDistanceProvider
	if cfg.ORSAPIKey == "" {
		log.Println("ORS_API_KEY not set: car legs will use geodesic distances")
	} else {
		provider, err := distance.NewORSDistanceProvider(cfg.ORSAPIKey, cfg.ORSBaseURL, distanceCache)
		if err != nil {
			log.Fatal(err)
		}
		road = provider
	}

	resolver := services.NewDistanceResolver(road, cfg.RoutingTimeout)
	optimizer := services.NewItineraryOptimizer(repo, resolver, cfg.RoutingConcurrency)
	router := api.NewRouter(repo, optimizer)

	// Timeouts are tuned for cold-cache optimization (one routing call per car leg).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s store=%s", cfg.Port, cfg.TripStore)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func openTripStore(ctx context.Context, cfg config.Config) (ports.TripRepository, func(), error) {
	switch cfg.TripStore {
	case config.StorePostgres:
		conn, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresTripRepository(conn), closeDB(conn), nil

	case config.StoreMongo:
		client, err := repositories.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("mongo disconnect failed: %v", err)
			}
		}
		return repositories.NewMongoTripRepository(client.Database(cfg.MongoDatabase)), closeFn, nil

	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		// Initialize schema and seed demo data on first start for local runs.
		if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return repositories.NewSqliteTripRepository(conn), closeDB(conn), nil
	}
}

// openDistanceCache prefers Redis when configured, then the in-process LRU.
// A nil cache means every car leg goes to the routing service.
func openDistanceCache(ctx context.Context, cfg config.Config) (ports.DistanceCache, func(), error) {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		redisCache, err := cache.NewRedisDistanceCache(client, cfg.DistanceCacheTTL)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		log.Printf("distance cache: redis ttl=%s", cfg.DistanceCacheTTL)
		return redisCache, func() { _ = client.Close() }, nil
	}

	if cfg.DistanceCacheSize > 0 {
		log.Printf("distance cache: memory size=%d", cfg.DistanceCacheSize)
		return cache.NewMemoryDistanceCache(cfg.DistanceCacheSize), func() {}, nil
	}

	log.Println("distance cache: disabled")
	return nil, func() {}, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn, repositories.DialectSQLite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file %q not found, starting with an empty trip store", seedPath)
		return nil
	}

	seeded, err := repositories.SeedIfEmpty(ctx, conn, repositories.DialectSQLite, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if seeded {
		log.Printf("seeded trips from %q", seedPath)
	}

	return nil
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Printf("db close failed: %v", err)
		}
	}
}
