package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tax-estimator/domain"
	"tax-estimator/service"
)

const maxBodyBytes = 1 << 20

// amountFields are the numeric bases; a value that does not decode into one
// is reported as InvalidAmount rather than a malformed request.
var amountFields = map[string]bool{
	"grossAnnualIncome": true,
	"itemizedAmount":    true,
	"purchaseAmount":    true,
	"assessedValue":     true,
}

type TaxHandler struct {
	service *service.TaxService
}

func NewTaxHandler(service *service.TaxService) *TaxHandler {
	return &TaxHandler{service: service}
}

// Estimate handles a mode-tagged request body.
func (h *TaxHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	h.estimate(w, r, "")
}

// EstimateMode returns a handler that forces the mode, for the per-mode routes.
func (h *TaxHandler) EstimateMode(mode domain.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.estimate(w, r, mode)
	}
}

func (h *TaxHandler) estimate(w http.ResponseWriter, r *http.Request, mode domain.Mode) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{
			Error:   "UnsupportedMediaType",
			Message: "Content-Type must be application/json",
		})
		return
	}

	var input domain.TaxInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		requestLogger(r.Context()).Debug("error decoding request body", zap.Error(err))
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && amountFields[typeErr.Field] {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "InvalidAmount", Field: typeErr.Field})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "InvalidRequest", Message: "invalid request body"})
		return
	}
	if mode != "" {
		input.Mode = mode
	}

	result, err := h.service.Estimate(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewEstimateResponse(result))
}

// Jurisdictions lists the active schedule's rate table.
func (h *TaxHandler) Jurisdictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, newJurisdictionsResponse(h.service.Schedule().Name, h.service.Jurisdictions()))
}

// History returns recent estimates, newest first; ?limit caps the count.
func (h *TaxHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "InvalidRequest", Field: "limit"})
			return
		}
		limit = n
	}

	entries, err := h.service.History(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResponse{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			Input:     e.Input,
			Result:    NewEstimateResponse(e.Result),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
