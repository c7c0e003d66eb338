package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/platform/obs"
)

// SQLite-backed implementation of the TripRepository port.
// The itinerary is stored as one JSON document per trip.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

func (s *SqliteTripRepository) LoadItinerary(ctx context.Context, tripID string) (_ []domain.ItineraryItem, err error) {
	defer obs.Time(ctx, "trip.sqlite.LoadItinerary")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT itinerary
	FROM trips
	WHERE trip_id = ?;
	`

	var raw string
	err = s.DB.QueryRowContext(ctx, query, tripID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, domain.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: query trips table: %w", tripID, err)
	}

	items, err := decodeItinerary([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: %w", tripID, err)
	}
	return items, nil
}

func (s *SqliteTripRepository) SaveItinerary(ctx context.Context, tripID string, items []domain.ItineraryItem) (err error) {
	defer obs.Time(ctx, "trip.sqlite.SaveItinerary")(&err)

	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	payload, err := encodeItinerary(items)
	if err != nil {
		return fmt.Errorf("save itinerary %q: %w", tripID, err)
	}

	query := `
	UPDATE trips
	SET itinerary = ?,
		updated_at = CURRENT_TIMESTAMP
	WHERE trip_id = ?;
	`

	res, err := s.DB.ExecContext(ctx, query, string(payload), tripID)
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
