package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"itinerary-optimizer-service/internal/adapters/repositories"
	"itinerary-optimizer-service/internal/config"
	"itinerary-optimizer-service/internal/platform/db"
)

// dbtool creates the trips schema for the configured store and loads the seed file.
// Unlike the server, it replaces trips that already exist.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch cfg.TripStore {
	case config.StoreMongo:
		err = seedMongo(ctx, cfg)
	case config.StorePostgres:
		err = withSQL(ctx, cfg, repositories.DialectPostgres, func() (*sql.DB, error) {
			return db.OpenPostgres(cfg.DatabaseURL)
		})
	default:
		err = withSQL(ctx, cfg, repositories.DialectSQLite, func() (*sql.DB, error) {
			return db.OpenSQLite(cfg.DBPath)
		})
	}
	if err != nil {
		log.Fatal(err)
	}
}

func withSQL(ctx context.Context, cfg config.Config, dialect repositories.Dialect, open func() (*sql.DB, error)) error {
	conn, err := open()
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("Initializing database schema... dialect=%s", dialect)
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Printf("Seeding database... path=%s", cfg.SeedPath)
	if err := repositories.SeedFromJSON(ctx, conn, dialect, cfg.SeedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}

func seedMongo(ctx context.Context, cfg config.Config) error {
	seeds, err := repositories.ReadTripSeeds(cfg.SeedPath)
	if err != nil {
		return err
	}

	client, err := repositories.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	log.Printf("Seeding mongo... database=%s trips=%d", cfg.MongoDatabase, len(seeds))
	repo := repositories.NewMongoTripRepository(client.Database(cfg.MongoDatabase))
	if err := repo.SeedTrips(ctx, seeds); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
