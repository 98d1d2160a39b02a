package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
)

func TestBuildSnapshotEmpty(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	snap := BuildSnapshot(nil, now)

	if snap.TotalBills != 0 || snap.PaidBills != 0 || snap.UnpaidBills != 0 {
		t.Fatalf("expected zero counts: %+v", snap)
	}
	if snap.TotalPaidAmount != 0 || snap.TotalUnpaidAmount != 0 {
		t.Fatalf("expected zero sums: %+v", snap)
	}
	if snap.MonthlyExpense == nil || len(snap.MonthlyExpense) != 0 {
		t.Fatalf("expected empty monthly map, got %v", snap.MonthlyExpense)
	}
	if snap.RecentBills == nil || len(snap.RecentBills) != 0 {
		t.Fatalf("expected empty recent list, got %v", snap.RecentBills)
	}
	if !snap.LastUpdated.Equal(now) {
		t.Fatalf("expected lastUpdated %v, got %v", now, snap.LastUpdated)
	}
}

func TestBuildSnapshotExample(t *testing.T) {
	bills := []*domain.Bill{
		{ID: "1", Amount: 100, Status: "paid", DueDate: "2024-01-15"},
		{ID: "2", Amount: 50, Status: "unpaid", DueDate: "2024-01-20"},
		{ID: "3", Amount: 200, Status: "paid", DueDate: "2024-02-01"},
	}
	snap := BuildSnapshot(bills, time.Now())

	if snap.TotalBills != 3 || snap.PaidBills != 2 || snap.UnpaidBills != 1 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
	if snap.TotalPaidAmount != 300 || snap.TotalUnpaidAmount != 50 {
		t.Fatalf("unexpected sums: paid=%v unpaid=%v", snap.TotalPaidAmount, snap.TotalUnpaidAmount)
	}
	want := map[string]float64{"2024-01": 150, "2024-02": 200}
	if len(snap.MonthlyExpense) != len(want) {
		t.Fatalf("unexpected monthly map: %v", snap.MonthlyExpense)
	}
	for k, v := range want {
		if snap.MonthlyExpense[k] != v {
			t.Fatalf("monthly[%s] = %v, want %v", k, snap.MonthlyExpense[k], v)
		}
	}
}

func TestBuildSnapshotUnknownBucket(t *testing.T) {
	bills := []*domain.Bill{
		{ID: "1", Amount: 10, Status: "unpaid", DueDate: "not a date"},
		{ID: "2", Amount: 5, Status: "unpaid", DueDate: ""},
		{ID: "3", Amount: 7, Status: "overdue", DueDate: "03/15/2024"},
	}
	snap := BuildSnapshot(bills, time.Now())

	if snap.MonthlyExpense[UnknownMonth] != 15 {
		t.Fatalf("expected Unknown bucket of 15, got %v", snap.MonthlyExpense)
	}
	if snap.MonthlyExpense["2024-03"] != 7 {
		t.Fatalf("expected 2024-03 bucket of 7, got %v", snap.MonthlyExpense)
	}
	if snap.UnpaidBills != 3 || snap.TotalUnpaidAmount != 22 {
		t.Fatalf("non-paid statuses must count as unpaid: %+v", snap)
	}
}

func TestBuildSnapshotRecentBills(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var bills []*domain.Bill
	for i := 0; i < 7; i++ {
		bills = append(bills, &domain.Bill{
			ID:        string(rune('a' + i)),
			Amount:    float64(i),
			Status:    "unpaid",
			DueDate:   "2024-01-01",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	// no createdAt: falls back to a due date later than every createdAt above
	bills = append(bills, &domain.Bill{ID: "legacy", DueDate: "2024-06-01"})

	snap := BuildSnapshot(bills, time.Now())
	if len(snap.RecentBills) != 5 {
		t.Fatalf("expected 5 recent bills, got %d", len(snap.RecentBills))
	}
	wantIDs := []string{"legacy", "g", "f", "e", "d"}
	for i, id := range wantIDs {
		if snap.RecentBills[i].ID != id {
			t.Fatalf("recent[%d] = %q, want %q (all: %+v)", i, snap.RecentBills[i].ID, id, snap.RecentBills)
		}
	}
}

func TestComputeDashboardRescans(t *testing.T) {
	repo := newMemBillRepo()
	s := NewDashboardService(repo, nil)
	ctx := context.Background()

	first, err := s.ComputeDashboard(ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if first.TotalBills != 0 {
		t.Fatalf("expected empty dashboard, got %+v", first)
	}

	if err := repo.Create(ctx, &domain.Bill{Amount: 42, Status: "paid", DueDate: "2024-04-02"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := s.ComputeDashboard(ctx)
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if second.TotalBills != 1 || second.TotalPaidAmount != 42 {
		t.Fatalf("expected fresh scan, got %+v", second)
	}
}

func TestComputeDashboardStoreFailure(t *testing.T) {
	repo := newMemBillRepo()
	repo.err = errStoreDown
	if _, err := NewDashboardService(repo, nil).ComputeDashboard(context.Background()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestMonthKey(t *testing.T) {
	tests := map[string]string{
		"2024-01-15":                "2024-01",
		"2024-12-31T23:30:00Z":      "2024-12",
		"2024-12-31T23:30:00-05:00": "2025-01",
		"2024-02":                   "2024-02",
		"Mar 5, 2024":               "2024-03",
		"2024/01/15":                "2024-01",
		"2024-1-5":                  "2024-01",
		"2024/1/5":                  "2024-01",
		"":                          UnknownMonth,
		"tomorrow":                  UnknownMonth,
	}
	for in, want := range tests {
		if got := monthKey(in); got != want {
			t.Errorf("monthKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEstimate(t *testing.T) {
	e := NewEstimator()
	got, err := e.Estimate(EstimateInput{Units: 120, Rate: 6.5})
	if err != nil || got != 780 {
		t.Fatalf("Estimate = %v, %v; want 780", got, err)
	}
	if _, err := e.Estimate(EstimateInput{Units: 120}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := e.Estimate(EstimateInput{Units: 1e200, Rate: 1e200}); !errors.Is(err, domain.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
