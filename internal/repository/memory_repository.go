package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
)

// MemoryUserRepository keeps users in process memory
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: make(map[string]*domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailExists
	}
	user.ID = uuid.NewString()
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// MemoryBillRepository keeps bills in process memory. List returns bills
// in insertion order.
type MemoryBillRepository struct {
	mu    sync.RWMutex
	bills map[string]*domain.Bill
	order map[string]int
	seq   int
}

func NewMemoryBillRepository() *MemoryBillRepository {
	return &MemoryBillRepository{
		bills: make(map[string]*domain.Bill),
		order: make(map[string]int),
	}
}

func (r *MemoryBillRepository) List(_ context.Context) ([]*domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Bill, 0, len(r.bills))
	for _, b := range r.bills {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.order[out[i].ID] < r.order[out[j].ID]
	})
	return out, nil
}

func (r *MemoryBillRepository) Create(_ context.Context, bill *domain.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bill.ID = uuid.NewString()
	stored := *bill
	r.bills[bill.ID] = &stored
	r.seq++
	r.order[bill.ID] = r.seq
	return nil
}

func (r *MemoryBillRepository) Update(_ context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bill, ok := r.bills[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(bill)
	cp := *bill
	return &cp, nil
}

func (r *MemoryBillRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bills, id)
	delete(r.order, id)
	return nil
}

// ValidID accepts UUIDs
func (r *MemoryBillRepository) ValidID(id string) bool {
	return validUUID(id)
}
