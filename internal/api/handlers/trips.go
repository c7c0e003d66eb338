package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"itinerary-optimizer-service/internal/api/dto"
	"itinerary-optimizer-service/internal/domain"
	"itinerary-optimizer-service/internal/platform/obs"
	"itinerary-optimizer-service/internal/ports"
	"itinerary-optimizer-service/internal/services"
)

type Optimizer interface {
	Optimize(ctx context.Context, tripID string, opts services.OptimizeOptions) (*domain.OptimizationResult, error)
}

// TripHandler exposes itinerary optimization and the stored itinerary of a trip.
type TripHandler struct {
	Repo      ports.TripRepository
	Optimizer Optimizer
}

// Optimize reorders the trip's stops and, unless dry_run is set, writes the new order back.
func (h *TripHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tripID := strings.TrimSpace(r.PathValue("tripID"))
	if tripID == "" {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}

	var opts services.OptimizeOptions
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "dry_run must be a boolean")
			return
		}
		opts.DryRun = dryRun
	}

	res, err := h.Optimizer.Optimize(r.Context(), tripID, opts)
	if err != nil {
		writeServiceError(w, r, "optimize itinerary", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOptimizeResponse(res))
}

func (h *TripHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tripID := strings.TrimSpace(r.PathValue("tripID"))
	if tripID == "" {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}

	items, err := h.Repo.LoadItinerary(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, r, "load itinerary", err)
		return
	}
	if items == nil {
		items = []domain.ItineraryItem{}
	}

	writeJSON(w, r, http.StatusOK, dto.ItineraryResponse{TripID: tripID, Itinerary: items})
}

// writeServiceError maps domain errors to status codes. Anything unexpected is
// logged in full and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, "trip not found")
	case errors.Is(err, domain.ErrInvalidItinerary):
		writeError(w, r, http.StatusUnprocessableEntity, "invalid itinerary")
	default:
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
