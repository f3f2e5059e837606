package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tax-estimator/domain"
)

// NewRouter wires the tax endpoints. limiter may be nil to disable rate
// limiting; it only guards the estimate routes.
func NewRouter(h *TaxHandler, limiter *RateLimiter) *mux.Router {
	limited := func(f http.HandlerFunc) http.Handler {
		if limiter == nil {
			return f
		}
		return RateLimitMiddleware(limiter, f)
	}

	r := mux.NewRouter()
	r.Use(CorrelationIDMiddleware)

	r.Handle("/tax/estimate", limited(h.Estimate)).Methods(http.MethodPost)
	r.Handle("/tax/income", limited(h.EstimateMode(domain.ModeIncome))).Methods(http.MethodPost)
	r.Handle("/tax/sales", limited(h.EstimateMode(domain.ModeSales))).Methods(http.MethodPost)
	r.Handle("/tax/property", limited(h.EstimateMode(domain.ModeProperty))).Methods(http.MethodPost)

	r.HandleFunc("/tax/jurisdictions", h.Jurisdictions).Methods(http.MethodGet)
	r.HandleFunc("/tax/history", h.History).Methods(http.MethodGet)
	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)

	return r
}
