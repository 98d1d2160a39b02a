package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
)

type memUserRepo struct {
	byEmail map[string]*domain.User
	err     error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrEmailExists
	}
	u.ID = "u-" + u.Email
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// memBillRepo accepts ids of the form "b<n>" and counts store calls.
type memBillRepo struct {
	bills map[string]*domain.Bill
	next  int
	calls int
	err   error
}

func newMemBillRepo() *memBillRepo {
	return &memBillRepo{bills: map[string]*domain.Bill{}}
}

func (m *memBillRepo) List(_ context.Context) ([]*domain.Bill, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.bills))
	for id := range m.bills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.Bill, 0, len(ids))
	for _, id := range ids {
		cp := *m.bills[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memBillRepo) Create(_ context.Context, b *domain.Bill) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.next++
	b.ID = fmt.Sprintf("b%d", m.next)
	cp := *b
	m.bills[b.ID] = &cp
	return nil
}

func (m *memBillRepo) Update(_ context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.bills[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(b)
	cp := *b
	return &cp, nil
}

func (m *memBillRepo) Delete(_ context.Context, id string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	delete(m.bills, id)
	return nil
}

func (m *memBillRepo) ValidID(id string) bool {
	return strings.HasPrefix(id, "b")
}

var errStoreDown = errors.New("store down")
