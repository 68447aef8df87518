package handlers

import (
	"context"
	"net/http"
	"strconv"

	"hos-logbook-service/internal/api/dto"
	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/services"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// TripService is the planner surface the trip handlers need.
type TripService interface {
	PlanTrip(ctx context.Context, req services.PlanTripRequest) (*domain.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	ListTrips(ctx context.Context, limit int) ([]domain.TripSummary, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
}

type TripHandler struct {
	Planner TripService
}

// Calculate plans an HOS-compliant trip and returns it with its daily logs.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.CurrentCycleUsed == nil {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used is required")
		return
	}

	svcReq := services.PlanTripRequest{
		CurrentLocation:  req.CurrentLocation,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		CurrentCycleUsed: *req.CurrentCycleUsed,
	}
	if req.StartTime != nil {
		svcReq.StartTime = *req.StartTime
	}

	trip, err := h.Planner.PlanTrip(r.Context(), svcReq)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewTripResponse(trip))
}

// List returns recent trips, newest first. ?limit= bounds the result.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	trips, err := h.Planner.ListTrips(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewListTripsResponse(trips))
}

// Get returns one stored trip with recomputed daily logs.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := uuid.Parse(params.ByName("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid trip id")
		return
	}

	trip, err := h.Planner.GetTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(trip))
}

// Delete removes a stored trip and answers 204.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := uuid.Parse(params.ByName("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid trip id")
		return
	}

	if err := h.Planner.DeleteTrip(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
