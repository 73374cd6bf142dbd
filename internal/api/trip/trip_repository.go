package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IgorOC/Taste-Trip/app/observability/metrics"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

var ErrTripNotFound = errors.New("trip not found")

var _ TripRepository = (*PostgresTripRepo)(nil)

// TripRepository persists generated trips. Reads are scoped to the owning
// user; a trip belonging to someone else reads as not found.
type TripRepository interface {
	CreateTrip(ctx context.Context, trip *types.StoredTrip) (uuid.UUID, error)
	GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.StoredTrip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.StoredTrip, error)
}

// pgxQuerier is the pool surface the repository needs. *pgxpool.Pool
// satisfies it in production; tests substitute a pgxmock pool.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ pgxQuerier = (*pgxpool.Pool)(nil)

type PostgresTripRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresTripRepo(pgpool pgxQuerier, logger *slog.Logger) *PostgresTripRepo {
	return &PostgresTripRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresTripRepo) CreateTrip(ctx context.Context, trip *types.StoredTrip) (uuid.UUID, error) {
	itinerary, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}
	weather, err := marshalNullable(trip.WeatherData)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal weather data: %w", err)
	}
	cuisine, err := marshalNullable(trip.LocalCuisine)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal cuisine data: %w", err)
	}

	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx,
		`INSERT INTO trips (user_id, title, origin, destination, start_date, end_date,
		                    budget, budget_category, itinerary, weather_data, local_cuisine)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		trip.UserID, trip.Title, trip.Origin, trip.Destination, trip.StartDate, trip.EndDate,
		trip.Budget, trip.BudgetCategory, itinerary, weather, cuisine).Scan(&id)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return uuid.Nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	r.logger.InfoContext(ctx, "Trip stored",
		slog.String("trip_id", id.String()),
		slog.String("user_id", trip.UserID.String()))
	return id, nil
}

func (r *PostgresTripRepo) GetTrip(ctx context.Context, tripID, userID uuid.UUID) (*types.StoredTrip, error) {
	var (
		trip      types.StoredTrip
		itinerary []byte
		weather   []byte
		cuisine   []byte
	)
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, user_id, title, origin, destination, start_date, end_date,
		        budget, budget_category, itinerary, weather_data, local_cuisine, created_at
		 FROM trips WHERE id = $1 AND user_id = $2`,
		tripID, userID).Scan(
		&trip.ID, &trip.UserID, &trip.Title, &trip.Origin, &trip.Destination,
		&trip.StartDate, &trip.EndDate, &trip.Budget, &trip.BudgetCategory,
		&itinerary, &weather, &cuisine, &trip.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	if err := json.Unmarshal(itinerary, &trip.Itinerary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored itinerary: %w", err)
	}
	if err := unmarshalNullable(weather, &trip.WeatherData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored weather data: %w", err)
	}
	if err := unmarshalNullable(cuisine, &trip.LocalCuisine); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored cuisine data: %w", err)
	}
	return &trip, nil
}

// ListTrips returns the caller's trips newest first, without the JSONB
// payloads. Detail fetches go through GetTrip.
func (r *PostgresTripRepo) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.StoredTrip, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT id, user_id, title, origin, destination, start_date, end_date,
		        budget, budget_category, created_at
		 FROM trips WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []types.StoredTrip{}
	for rows.Next() {
		var trip types.StoredTrip
		if err := rows.Scan(
			&trip.ID, &trip.UserID, &trip.Title, &trip.Origin, &trip.Destination,
			&trip.StartDate, &trip.EndDate, &trip.Budget, &trip.BudgetCategory,
			&trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed reading trip rows: %w", err)
	}
	return trips, nil
}

func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalNullable[T any](data []byte, dst **T) error {
	if len(data) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}
