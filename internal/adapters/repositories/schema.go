package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"itinerary-optimizer-service/internal/domain"
)

// Dialect selects the SQL flavour of the trips table.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Initialize the trips schema for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var createTripsQuery string
	switch dialect {
	case DialectSQLite:
		createTripsQuery = `
		CREATE TABLE IF NOT EXISTS trips (
			trip_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			itinerary TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`
	case DialectPostgres:
		createTripsQuery = `
		CREATE TABLE IF NOT EXISTS trips (
			trip_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			itinerary JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`
	default:
		return fmt.Errorf("init schema: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, createTripsQuery); err != nil {
		return fmt.Errorf("init schema: create trips table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// TripSeed is one entry of the seed file.
type TripSeed struct {
	TripID    string                 `json:"trip_id"`
	Name      string                 `json:"name"`
	Itinerary []domain.ItineraryItem `json:"itinerary"`
}

// ReadTripSeeds loads and validates a seed file.
func ReadTripSeeds(jsonPath string) ([]TripSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed trips: read %q: %w", jsonPath, err)
	}

	var data []TripSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed trips: parse json: %w", err)
	}

	rows := make([]TripSeed, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for i, item := range data {
		tripID := strings.TrimSpace(item.TripID)
		if tripID == "" {
			return nil, fmt.Errorf("seed trips: item at index %d: trip_id cannot be empty", i+1)
		}
		if _, dup := seen[tripID]; dup {
			return nil, fmt.Errorf("seed trips: item at index %d: duplicate trip_id %q", i+1, tripID)
		}
		seen[tripID] = struct{}{}

		itinerary := item.Itinerary
		if itinerary == nil {
			itinerary = []domain.ItineraryItem{}
		}
		rows = append(rows, TripSeed{TripID: tripID, Name: strings.TrimSpace(item.Name), Itinerary: itinerary})
	}

	return rows, nil
}

// Populate the trips table from a JSON seed file. Existing trips are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) error {
	if db == nil {
		return errors.New("seed trips: DB is nil")
	}

	rows, err := ReadTripSeeds(jsonPath)
	if err != nil {
		return err
	}

	var query string
	switch dialect {
	case DialectSQLite:
		query = `
		INSERT INTO trips (trip_id, name, itinerary, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (trip_id) DO UPDATE SET
			name = excluded.name,
			itinerary = excluded.itinerary,
			updated_at = excluded.updated_at;
		`
	case DialectPostgres:
		query = `
		INSERT INTO trips (trip_id, name, itinerary, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (trip_id) DO UPDATE SET
			name = EXCLUDED.name,
			itinerary = EXCLUDED.itinerary,
			updated_at = EXCLUDED.updated_at;
		`
	default:
		return fmt.Errorf("seed trips: unsupported dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed trips: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed trips: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range rows {
		payload, err := encodeItinerary(t.Itinerary)
		if err != nil {
			return fmt.Errorf("seed trips: trip_id=%s: %w", t.TripID, err)
		}
		if _, err := stmt.ExecContext(ctx, t.TripID, t.Name, string(payload)); err != nil {
			return fmt.Errorf("seed trips: insert trip_id=%s: %w", t.TripID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed trips: commit tx: %w", err)
	}

	return nil
}

// SeedIfEmpty seeds the trips table only when it holds no rows, so restarts
// keep previously optimized itineraries. It reports whether seeding ran.
func SeedIfEmpty(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (bool, error) {
	if db == nil {
		return false, errors.New("seed trips: DB is nil")
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips;`).Scan(&count); err != nil {
		return false, fmt.Errorf("seed trips: count trips: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := SeedFromJSON(ctx, db, dialect, jsonPath); err != nil {
		return false, err
	}
	return true, nil
}
