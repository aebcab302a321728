package handler

import (
	"net/http"

	"github.com/otp-dashboard/internal/application/analytics"
)

// AnalyticsHandler serves the product dashboard and catalog.
type AnalyticsHandler struct {
	svc analytics.Service
}

func NewAnalyticsHandler(svc analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load analytics")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *AnalyticsHandler) Products(w http.ResponseWriter, r *http.Request) {
	cat, err := h.svc.Catalog(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to load products")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}
