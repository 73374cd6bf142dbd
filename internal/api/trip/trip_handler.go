package trip

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/IgorOC/Taste-Trip/internal/api"
	"github.com/IgorOC/Taste-Trip/internal/api/auth"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service TripService
}

func NewTripHandler(service TripService, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// GenerateTrip handles POST /trips/generate. On success it answers 201 with
// the new trip id; the full document is fetched through GetTrip.
func (h *Handler) GenerateTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GenerateTrip")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateTrip"))

	userID, ok := h.callerID(w, r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode trip request", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	span.SetAttributes(attribute.String("trip.destination", req.Destination))

	l.InfoContext(ctx, "Generating trip",
		slog.String("destination", req.Destination),
		slog.String("start_date", req.StartDate),
		slog.String("end_date", req.EndDate))

	stored, err := h.service.GenerateTrip(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrInvalidTripRequest):
			l.WarnContext(ctx, "Invalid trip request", slog.Any("error", err))
			span.SetStatus(codes.Error, "Invalid trip request")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrGenerationFailed):
			l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
			span.SetStatus(codes.Error, "Generation failed")
			api.ErrorResponse(w, r, http.StatusBadGateway, "Itinerary generation failed, please try again")
		default:
			l.ErrorContext(ctx, "Trip pipeline failed", slog.Any("error", err))
			span.SetStatus(codes.Error, "Pipeline failed")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate trip")
		}
		return
	}

	span.SetStatus(codes.Ok, "Trip generated")
	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]string{"tripId": stored.ID.String()})
}

// GetTrip handles GET /trips/{tripID}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GetTrip")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetTrip"))

	userID, ok := h.callerID(w, r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid trip id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip id")
		return
	}
	span.SetAttributes(attribute.String("trip.id", tripID.String()))

	stored, err := h.service.GetTrip(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip returned")
	api.WriteJSONResponse(w, r, http.StatusOK, stored)
}

// ListTrips handles GET /trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "ListTrips")
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListTrips"))

	userID, ok := h.callerID(w, r)
	if !ok {
		span.SetStatus(codes.Error, "Unauthenticated")
		return
	}

	trips, err := h.service.ListTrips(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	span.SetStatus(codes.Ok, "Trips returned")
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// callerID extracts the authenticated user id, writing the 401 itself when
// the request somehow bypassed the auth middleware.
func (h *Handler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
