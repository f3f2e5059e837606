package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tax-estimator/domain"
	"tax-estimator/service"
)

// LineItemResponse is one line item on the wire.
type LineItemResponse struct {
	Label             string  `json:"label"`
	Amount            float64 `json:"amount"`
	RatePercentOfBase float64 `json:"ratePercentOfBase"`
	Kind              string  `json:"kind"`
}

// EstimateResponse is the JSON shape of a TaxResult.
type EstimateResponse struct {
	Mode                 string             `json:"mode"`
	TotalTax             float64            `json:"totalTax"`
	TotalContributions   float64            `json:"totalContributions"`
	EffectiveRatePercent float64            `json:"effectiveRatePercent"`
	LineItems            []LineItemResponse `json:"lineItems"`
	Insights             []string           `json:"insights,omitempty"`
}

type jurisdictionResponse struct {
	Code            string  `json:"code"`
	IncomePercent   float64 `json:"incomeTaxPercent"`
	SalesPercent    float64 `json:"salesTaxPercent"`
	PropertyPercent float64 `json:"propertyTaxPercent"`
}

type jurisdictionsResponse struct {
	Schedule      string                 `json:"schedule"`
	Jurisdictions []jurisdictionResponse `json:"jurisdictions"`
}

type historyEntryResponse struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Input     domain.TaxInput  `json:"input"`
	Result    EstimateResponse `json:"result"`
}

type errorResponse struct {
	Error        string `json:"error"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Field        string `json:"field,omitempty"`
	Message      string `json:"message,omitempty"`
}

// percent values are rounded for display; amounts are reported as computed.
func percent(v decimal.Decimal) float64 { return v.Round(2).InexactFloat64() }

// NewEstimateResponse converts res to its wire shape.
func NewEstimateResponse(res domain.TaxResult) EstimateResponse {
	items := make([]LineItemResponse, 0, len(res.LineItems))
	for _, li := range res.LineItems {
		items = append(items, LineItemResponse{
			Label:             li.Label,
			Amount:            li.Amount.InexactFloat64(),
			RatePercentOfBase: percent(li.RatePercentOfBase),
			Kind:              string(li.Kind),
		})
	}
	return EstimateResponse{
		Mode:                 string(res.Mode),
		TotalTax:             res.TotalTax.InexactFloat64(),
		TotalContributions:   res.TotalContributions.InexactFloat64(),
		EffectiveRatePercent: percent(res.EffectiveRatePercent),
		LineItems:            items,
		Insights:             res.Insights,
	}
}

func newJurisdictionsResponse(schedule string, rows []service.JurisdictionRates) jurisdictionsResponse {
	out := jurisdictionsResponse{Schedule: schedule, Jurisdictions: make([]jurisdictionResponse, 0, len(rows))}
	for _, r := range rows {
		out.Jurisdictions = append(out.Jurisdictions, jurisdictionResponse{
			Code:            string(r.Code),
			IncomePercent:   r.IncomePercent.InexactFloat64(),
			SalesPercent:    r.SalesPercent.InexactFloat64(),
			PropertyPercent: r.PropertyPercent.InexactFloat64(),
		})
	}
	return out
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// writeError maps domain errors onto the wire error shape.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		je *domain.JurisdictionError
		ae *domain.AmountError
		ie *domain.InputError
		me *domain.ModeError
	)
	switch {
	case errors.As(err, &je):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "UnsupportedJurisdiction", Jurisdiction: string(je.Code)})
	case errors.As(err, &ae):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "InvalidAmount", Field: ae.Field})
	case errors.As(err, &ie):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "InvalidInput", Field: ie.Field})
	case errors.As(err, &me):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "UnsupportedMode", Field: "mode"})
	default:
		requestLogger(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "InternalError"})
	}
}
