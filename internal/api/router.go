package api

import (
	"net/http"

	"hos-logbook-service/internal/api/handlers"

	"github.com/julienschmidt/httprouter"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner handlers.TripService) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowed = http.HandlerFunc(handlers.MethodNotAllowed)

	tripHandler := &handlers.TripHandler{Planner: planner}

	router.HandlerFunc(http.MethodGet, "/health", handlers.Health)
	router.HandlerFunc(http.MethodPost, "/api/v1/logbook/trips/calculate", tripHandler.Calculate)
	router.HandlerFunc(http.MethodGet, "/api/v1/logbook/trips", tripHandler.List)
	router.HandlerFunc(http.MethodGet, "/api/v1/logbook/trips/:id", tripHandler.Get)
	router.HandlerFunc(http.MethodDelete, "/api/v1/logbook/trips/:id", tripHandler.Delete)

	return loggingMiddleware(router)
}
