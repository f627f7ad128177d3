package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger UI and the generated OpenAPI document
// @Tags Health
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Metrics godoc
// @Summary Prometheus metrics
// @Description Request counters, latency histograms and Go runtime metrics
// @Tags Health
// @Produce plain
// @Success 200 {string} string "Prometheus text exposition"
// @Router /metrics [get]
func (h *FavoritesHandler) MetricsDoc() {}
