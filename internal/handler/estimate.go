package handler

import (
	"errors"
	"net/http"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/service"
)

// EstimateResponse is the body of a successful POST /api/estimate
type EstimateResponse struct {
	Estimate float64 `json:"estimate"`
}

// EstimateHandler prices units at a rate without storing anything
type EstimateHandler struct {
	estimator *service.Estimator
}

func NewEstimateHandler(estimator *service.Estimator) *EstimateHandler {
	return &EstimateHandler{estimator: estimator}
}

func (h *EstimateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req service.EstimateInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	estimate, err := h.estimator.Estimate(req)
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, "Amount out of range")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	writeJSON(w, http.StatusOK, EstimateResponse{Estimate: estimate})
}
