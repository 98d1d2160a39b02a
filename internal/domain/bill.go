package domain

import (
	"context"
	"time"
)

// Bill statuses
const (
	StatusUnpaid = "unpaid"
	StatusPaid   = "paid"
)

// Bill represents an electricity bill for one customer
type Bill struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Units        float64   `json:"units"`
	Rate         float64   `json:"rate"`
	Amount       float64   `json:"amount"`  // units * rate at creation, not re-derived on update
	DueDate      string    `json:"dueDate"` // Opaque date-like string as entered
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"` // Zero for records created before it was tracked
}

// BillPatch carries the fields of a partial update. Nil fields are left untouched.
type BillPatch struct {
	CustomerName *string  `json:"customerName,omitempty"`
	Units        *float64 `json:"units,omitempty"`
	Rate         *float64 `json:"rate,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	DueDate      *string  `json:"dueDate,omitempty"`
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=paid unpaid"`
}

// Empty reports whether the patch changes nothing
func (p BillPatch) Empty() bool {
	return p.CustomerName == nil && p.Units == nil && p.Rate == nil &&
		p.Amount == nil && p.DueDate == nil && p.Status == nil
}

// Apply merges the patch into b
func (p BillPatch) Apply(b *Bill) {
	if p.CustomerName != nil {
		b.CustomerName = *p.CustomerName
	}
	if p.Units != nil {
		b.Units = *p.Units
	}
	if p.Rate != nil {
		b.Rate = *p.Rate
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

// BillRepository defines data access for bills
type BillRepository interface {
	// List returns every stored bill. Full collection scan.
	List(ctx context.Context) ([]*Bill, error)
	// Create persists the bill and fills in bill.ID.
	Create(ctx context.Context, bill *Bill) error
	// Update merges patch into the bill with the given id and returns the
	// stored result. Returns ErrNotFound when no bill matches.
	Update(ctx context.Context, id string, patch BillPatch) (*Bill, error)
	// Delete removes the bill. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// ValidID reports whether id is well-formed for this store.
	ValidID(id string) bool
}
