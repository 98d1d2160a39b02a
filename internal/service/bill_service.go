package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/observability/metrics"
)

// CreateBillInput is the body of POST /api/bills. Client-sent amount and
// status are not part of it and are ignored.
type CreateBillInput struct {
	CustomerName string  `json:"customerName" validate:"required"`
	Units        float64 `json:"units" validate:"required"`
	Rate         float64 `json:"rate" validate:"required"`
	DueDate      string  `json:"dueDate" validate:"required"`
}

// BillService validates and applies bill mutations
type BillService struct {
	bills    domain.BillRepository
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewBillService creates a new bill service
func NewBillService(bills domain.BillRepository, logger *slog.Logger) *BillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BillService{
		bills:    bills,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// List returns every bill. No pagination or filtering.
func (s *BillService) List(ctx context.Context) ([]*domain.Bill, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		s.logger.Error("failed to list bills", slog.String("error", err.Error()))
		return nil, fmt.Errorf("list bills: %w", err)
	}
	if bills == nil {
		bills = []*domain.Bill{}
	}
	return bills, nil
}

// Create stores a new unpaid bill with amount = units * rate
func (s *BillService) Create(ctx context.Context, in CreateBillInput) (*domain.Bill, error) {
	if err := s.validate.Struct(in); err != nil {
		metrics.ObserveBillMutation("create", "invalid")
		return nil, domain.ErrMissingFields
	}
	amount, ok := price(in.Units, in.Rate)
	if !ok {
		metrics.ObserveBillMutation("create", "invalid")
		return nil, domain.ErrOutOfRange
	}

	bill := &domain.Bill{
		CustomerName: in.CustomerName,
		Units:        in.Units,
		Rate:         in.Rate,
		Amount:       amount,
		DueDate:      in.DueDate,
		Status:       domain.StatusUnpaid,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		metrics.ObserveBillMutation("create", "error")
		s.logger.Error("failed to create bill", slog.String("error", err.Error()))
		return nil, fmt.Errorf("create bill: %w", err)
	}

	metrics.ObserveBillMutation("create", "success")
	s.logger.Info("bill created",
		slog.String("bill_id", bill.ID),
		slog.String("customer", bill.CustomerName),
		slog.Float64("amount", bill.Amount),
	)
	return bill, nil
}

// Update merges patch into the bill. amount is never recomputed here.
func (s *BillService) Update(ctx context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	if !s.bills.ValidID(id) {
		metrics.ObserveBillMutation("update", "invalid")
		return nil, domain.ErrInvalidID
	}
	if err := s.validate.Struct(patch); err != nil {
		metrics.ObserveBillMutation("update", "invalid")
		return nil, domain.ErrInvalidField
	}

	bill, err := s.bills.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveBillMutation("update", "not_found")
			return nil, domain.ErrNotFound
		}
		metrics.ObserveBillMutation("update", "error")
		s.logger.Error("failed to update bill",
			slog.String("bill_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("update bill: %w", err)
	}

	metrics.ObserveBillMutation("update", "success")
	return bill, nil
}

// Delete removes the bill. Unknown and malformed ids are a no-op.
func (s *BillService) Delete(ctx context.Context, id string) error {
	if !s.bills.ValidID(id) {
		metrics.ObserveBillMutation("delete", "noop")
		return nil
	}
	if err := s.bills.Delete(ctx, id); err != nil {
		metrics.ObserveBillMutation("delete", "error")
		s.logger.Error("failed to delete bill",
			slog.String("bill_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("delete bill: %w", err)
	}
	metrics.ObserveBillMutation("delete", "success")
	return nil
}
