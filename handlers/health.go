package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rolebot/core/log"
)

type HealthHandler struct {
	gatherer prometheus.Gatherer
}

func NewHealthHandler(gatherer prometheus.Gatherer) *HealthHandler {
	return &HealthHandler{
		gatherer: gatherer,
	}
}

// SetupEndpoints registers the liveness and Prometheus scrape endpoints
func (h *HealthHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods("GET")
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
		log.Error("❌ Failed to write health check response: %v", err)
	}
}
