package service

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
)

// EstimateInput is the body of POST /api/estimate
type EstimateInput struct {
	Units float64 `json:"units" validate:"required"`
	Rate  float64 `json:"rate" validate:"required"`
}

// Estimator prices a consumption figure without touching the store
type Estimator struct {
	validate *validator.Validate
}

func NewEstimator() *Estimator {
	return &Estimator{validate: validator.New()}
}

// Estimate returns units * rate
func (e *Estimator) Estimate(in EstimateInput) (float64, error) {
	if err := e.validate.Struct(in); err != nil {
		return 0, domain.ErrMissingFields
	}
	amount, ok := price(in.Units, in.Rate)
	if !ok {
		return 0, domain.ErrOutOfRange
	}
	return amount, nil
}

// price returns units * rate. ok is false when the product does not fit in a
// float64, which JSON cannot carry.
func price(units, rate float64) (float64, bool) {
	amount := units * rate
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, false
	}
	return amount, true
}
