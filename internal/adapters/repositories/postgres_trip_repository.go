package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/platform/obs"
)

// Postgres-backed implementation of the TripRepository port (pgx stdlib driver).
// The itinerary lives in a JSONB column.
type PostgresTripRepository struct{ DB *sql.DB }

func NewPostgresTripRepository(db *sql.DB) *PostgresTripRepository {
	return &PostgresTripRepository{DB: db}
}

func (p *PostgresTripRepository) LoadItinerary(ctx context.Context, tripID string) (_ []domain.ItineraryItem, err error) {
	defer obs.Time(ctx, "trip.postgres.LoadItinerary")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres trip repository: DB is nil")
	}

	query := `
	SELECT itinerary
	FROM trips
	WHERE trip_id = $1;
	`

	var raw []byte
	err = p.DB.QueryRowContext(ctx, query, tripID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: query trips table: %w", tripID, err)
	}

	items, err := decodeItinerary(raw)
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, err)
	}
	return items, nil
}

func (p *PostgresTripRepository) SaveItinerary(ctx context.Context, tripID string, items []domain.ItineraryItem) (err error) {
	defer obs.Time(ctx, "trip.postgres.SaveItinerary")(&err)

	if p.DB == nil {
		return errors.New("postgres trip repository: DB is nil")
	}

	payload, err := encodeItinerary(items)
	if err != nil {
		return fmt.Errorf("save itinerary %q: %w", tripID, err)
	}

	query := `
	UPDATE trips
	SET itinerary = $1::jsonb,
		updated_at = NOW()
	WHERE trip_id = $2;
	`

	res, err := p.DB.ExecContext(ctx, query, string(payload), tripID)
	if err != nil {
		return fmt.Errorf("save itinerary %q: update trips table: %w", tripID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save itinerary %q: rows affected: %w", tripID, err)
	}
	if n == 0 {
		return fmt.Errorf("save itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}

	return nil
}
