package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/IgorOC/Taste-Trip/app/observability/metrics"
	"github.com/IgorOC/Taste-Trip/config"
	"github.com/IgorOC/Taste-Trip/internal/api/cuisine"
	"github.com/IgorOC/Taste-Trip/internal/api/generative"
	"github.com/IgorOC/Taste-Trip/internal/api/places"
	"github.com/IgorOC/Taste-Trip/internal/api/weather"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

// placesFetchLimit is how many places are requested per trip. The prompt
// only surfaces a capped subset, but the full list feeds the validator.
const placesFetchLimit = 20

var (
	// ErrInvalidTripRequest marks user input problems. Handlers map it to a
	// 400 response.
	ErrInvalidTripRequest = errors.New("invalid trip request")
	// ErrGenerationFailed means every attempt, including the final pressured
	// one, produced no usable itinerary.
	ErrGenerationFailed = errors.New("itinerary generation failed")
)

var _ TripService = (*TripServiceImpl)(nil)

// TripService runs the itinerary pipeline and serves stored trips.
type TripService interface {
	GenerateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.StoredTrip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.StoredTrip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]types.StoredTrip, error)
}

type TripServiceImpl struct {
	logger  *slog.Logger
	cfg     config.GenerationConfig
	weather weather.WeatherService
	places  places.PlacesService
	cuisine cuisine.CuisineService
	ai      generative.Client
	repo    TripRepository
}

func NewTripService(
	weatherSvc weather.WeatherService,
	placesSvc places.PlacesService,
	cuisineSvc cuisine.CuisineService,
	ai generative.Client,
	repo TripRepository,
	cfg config.GenerationConfig,
	logger *slog.Logger,
) *TripServiceImpl {
	return &TripServiceImpl{
		logger:  logger,
		cfg:     cfg,
		weather: weatherSvc,
		places:  placesSvc,
		cuisine: cuisineSvc,
		ai:      ai,
		repo:    repo,
	}
}

// tripContext is the gathered enrichment data. Any field may be nil when
// its lookup failed; the pipeline degrades instead of aborting.
type tripContext struct {
	Weather *types.WeatherOutlook
	Places  *types.PlacesData
	Cuisine *types.CuisineProfile
}

// GenerateTrip runs the full pipeline: validate input, gather context,
// generate with validation and retries, persist, return the stored trip.
func (s *TripServiceImpl) GenerateTrip(ctx context.Context, userID uuid.UUID, req types.TripRequest) (*types.StoredTrip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GenerateTrip")
	defer span.End()

	l := s.logger.With(
		slog.String("service", "TripService"),
		slog.String("user_id", userID.String()),
		slog.String("destination", req.Destination),
	)

	start, end, err := validateRequest(req)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid trip request")
		return nil, err
	}

	days := types.GetDaysCount(start, end)
	category := resolveBudgetCategory(req)
	span.SetAttributes(
		attribute.Int("trip.days", days),
		attribute.String("trip.budget_category", string(category)),
	)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PipelineTimeout)
	defer cancel()

	pipelineStart := time.Now()
	tc := s.gatherContext(ctx, req, start, end)

	prompt := BuildItineraryPrompt(PromptInput{
		Request:  req,
		Start:    start,
		End:      end,
		Days:     days,
		Category: category,
		Weather:  tc.Weather,
		Places:   tc.Places,
		Cuisine:  tc.Cuisine,
	})

	itinerary, err := s.generateWithValidation(ctx, l, prompt, ExtractPlaceNames(tc.Places))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, err
	}

	stored := &types.StoredTrip{
		UserID:         userID,
		Title:          tripTitle(req),
		Origin:         req.Origin,
		Destination:    req.Destination,
		StartDate:      start,
		EndDate:        end,
		Budget:         req.Budget,
		BudgetCategory: category,
		Itinerary:      itinerary,
		WeatherData:    tc.Weather,
		LocalCuisine:   tc.Cuisine,
		CreatedAt:      time.Now(),
	}

	id, err := s.repo.CreateTrip(ctx, stored)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Persistence failed")
		return nil, fmt.Errorf("failed to store generated trip: %w", err)
	}
	stored.ID = id

	m := metrics.Get()
	m.TripsStoredTotal.Add(ctx, 1)
	m.PipelineDurationSeconds.Record(ctx, time.Since(pipelineStart).Seconds())

	l.InfoContext(ctx, "Trip generated and stored",
		slog.String("trip_id", id.String()),
		slog.Int("days", days),
		slog.Duration("pipeline_duration", time.Since(pipelineStart)))
	span.SetStatus(codes.Ok, "Trip generated")
	return stored, nil
}

func (s *TripServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.StoredTrip, error) {
	return s.repo.GetTrip(ctx, tripID, userID)
}

func (s *TripServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]types.StoredTrip, error) {
	return s.repo.ListTrips(ctx, userID)
}

// gatherContext fans out the weather, places and cuisine lookups. Failures
// are logged and counted but never abort the pipeline; the corresponding
// context slot is simply left empty.
func (s *TripServiceImpl) gatherContext(ctx context.Context, req types.TripRequest, start, end time.Time) tripContext {
	l := s.logger.With(slog.String("service", "TripService"), slog.String("destination", req.Destination))
	m := metrics.Get()

	var tc tripContext
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		outlook, err := s.weather.FetchWeather(gctx, req.Destination, &start, &end)
		if err != nil {
			m.ContextLookupErrorsTotal.Add(gctx, 1)
			l.WarnContext(gctx, "Weather lookup failed, continuing without it", slog.Any("error", err))
			return nil
		}
		tc.Weather = outlook
		return nil
	})

	g.Go(func() error {
		data, err := s.places.FetchPlaces(gctx, req.Destination, req.Interests, placesFetchLimit)
		if err != nil {
			m.ContextLookupErrorsTotal.Add(gctx, 1)
			l.WarnContext(gctx, "Places lookup failed, continuing without it", slog.Any("error", err))
			return nil
		}
		tc.Places = data
		return nil
	})

	g.Go(func() error {
		profile, err := s.cuisine.FetchCuisine(gctx, req.Destination)
		if err != nil {
			m.ContextLookupErrorsTotal.Add(gctx, 1)
			l.WarnContext(gctx, "Cuisine lookup failed, continuing without it", slog.Any("error", err))
			return nil
		}
		tc.Cuisine = profile
		return nil
	})

	// Lookups absorb their own errors, so this never returns one.
	_ = g.Wait()
	return tc
}

// generateWithValidation runs the retry loop: up to MaxAttempts ordinary
// attempts at the scheduled temperatures, each validated against the place
// list, then one final pressured attempt at FinalTemperature whose result is
// accepted regardless of validation. The backend is never called more than
// MaxAttempts+1 times.
func (s *TripServiceImpl) generateWithValidation(ctx context.Context, l *slog.Logger, prompt string, placeNames []string) (*types.GeneratedItinerary, error) {
	m := metrics.Get()

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		temp := s.cfg.AttemptTemperature(attempt)
		it, result, err := s.attempt(ctx, systemPromptStandard, prompt, temp, placeNames)
		m.GenerationAttemptsTotal.Add(ctx, 1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, ctx.Err())
			}
			m.GenerationFailuresTotal.Add(ctx, 1)
			l.WarnContext(ctx, "Generation attempt failed",
				slog.Int("attempt", attempt),
				slog.Float64("temperature", temp),
				slog.Any("error", err))
			continue
		}
		if result.Passed {
			l.InfoContext(ctx, "Itinerary accepted",
				slog.Int("attempt", attempt),
				slog.Float64("places_usage", result.Ratio))
			return it, nil
		}
		m.ValidationFailuresTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Itinerary under-used supplied places, retrying",
			slog.Int("attempt", attempt),
			slog.Float64("places_usage", result.Ratio),
			slog.Int("places_referenced", result.Referenced),
			slog.Int("places_matched", len(result.Matched)))
	}

	// Final pressured attempt. The result is kept even if validation still
	// fails; validation runs once more only for observability.
	it, result, err := s.attempt(ctx, systemPromptFinal, prompt, s.cfg.FinalTemperature, placeNames)
	m.GenerationAttemptsTotal.Add(ctx, 1)
	if err != nil {
		m.GenerationFailuresTotal.Add(ctx, 1)
		return nil, fmt.Errorf("%w: final attempt: %v", ErrGenerationFailed, err)
	}
	if !result.Passed {
		m.ValidationFailuresTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Final itinerary still under-uses supplied places, accepting anyway",
			slog.Float64("places_usage", result.Ratio))
	}
	return it, nil
}

// attempt issues one generation call under the per-attempt timeout and
// returns the parsed itinerary with its validation result.
func (s *TripServiceImpl) attempt(ctx context.Context, system, prompt string, temperature float64, placeNames []string) (*types.GeneratedItinerary, ValidationResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	raw, err := s.ai.GenerateWithSystem(callCtx, system, prompt, temperature)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	it, err := ParseItinerary(raw)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	return it, ValidatePlacesUsage(it, placeNames, s.cfg.UsageThreshold), nil
}

func validateRequest(req types.TripRequest) (time.Time, time.Time, error) {
	if req.Origin == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: origin is required", ErrInvalidTripRequest)
	}
	if req.Destination == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: destination is required", ErrInvalidTripRequest)
	}
	if req.Budget <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: budget must be positive", ErrInvalidTripRequest)
	}
	if req.Adults < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: at least one adult traveler is required", ErrInvalidTripRequest)
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid startDate %q", ErrInvalidTripRequest, req.StartDate)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid endDate %q", ErrInvalidTripRequest, req.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidTripRequest)
	}
	return start, end, nil
}

// resolveBudgetCategory honors an explicit valid category from the request
// and otherwise derives one from the budget.
func resolveBudgetCategory(req types.TripRequest) types.BudgetCategory {
	switch types.BudgetCategory(req.BudgetCategory) {
	case types.BudgetLow, types.BudgetMedium, types.BudgetHigh:
		return types.BudgetCategory(req.BudgetCategory)
	}
	return types.GetBudgetCategory(req.Budget)
}

func tripTitle(req types.TripRequest) string {
	if req.Title != "" {
		return req.Title
	}
	return "Trip to " + req.Destination
}
