package api

import (
	"net/http"

	"itinerary-optimizer-service/internal/api/handlers"
	"itinerary-optimizer-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(repo ports.TripRepository, optimizer handlers.Optimizer) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Repo: repo, Optimizer: optimizer}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/trips/{tripID}/optimize", tripHandler.Optimize)
	mux.HandleFunc("/trips/{tripID}/itinerary", tripHandler.GetItinerary)

	return requestIDMiddleware(loggingMiddleware(mux))
}
