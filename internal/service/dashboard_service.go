package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/observability/metrics"
)

const recentBillsLimit = 5

// RecentBill is the projection of a bill shown on the dashboard
type RecentBill struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customerName"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	DueDate      string  `json:"dueDate"`
}

// DashboardSnapshot is the aggregate view returned by GET /api/dashboard
type DashboardSnapshot struct {
	TotalBills        int                `json:"totalBills"`
	PaidBills         int                `json:"paidBills"`
	UnpaidBills       int                `json:"unpaidBills"`
	TotalPaidAmount   float64            `json:"totalPaidAmount"`
	TotalUnpaidAmount float64            `json:"totalUnpaidAmount"`
	MonthlyExpense    map[string]float64 `json:"monthlyExpense"`
	RecentBills       []RecentBill       `json:"recentBills"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

// DashboardService computes dashboard statistics. Every call rescans the
// bill store; nothing is cached.
type DashboardService struct {
	bills  domain.BillRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(bills domain.BillRepository, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{bills: bills, logger: logger, now: time.Now}
}

// ComputeDashboard scans all bills and aggregates them
func (s *DashboardService) ComputeDashboard(ctx context.Context) (*DashboardSnapshot, error) {
	start := time.Now()
	bills, err := s.bills.List(ctx)
	if err != nil {
		s.logger.Error("failed to scan bills for dashboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("list bills: %w", err)
	}
	snap := BuildSnapshot(bills, s.now())
	metrics.ObserveDashboard(time.Since(start), len(bills))
	return snap, nil
}

// BuildSnapshot aggregates bills as of now. Bills with status "paid" are
// paid; every other status counts as unpaid.
func BuildSnapshot(bills []*domain.Bill, now time.Time) *DashboardSnapshot {
	snap := &DashboardSnapshot{
		MonthlyExpense: map[string]float64{},
		RecentBills:    []RecentBill{},
		LastUpdated:    now.UTC(),
	}

	for _, b := range bills {
		if b == nil {
			continue
		}
		snap.TotalBills++
		if b.Status == domain.StatusPaid {
			snap.PaidBills++
			snap.TotalPaidAmount += b.Amount
		} else {
			snap.UnpaidBills++
			snap.TotalUnpaidAmount += b.Amount
		}
		snap.MonthlyExpense[monthKey(b.DueDate)] += b.Amount
	}

	for _, b := range mostRecent(bills, recentBillsLimit) {
		snap.RecentBills = append(snap.RecentBills, RecentBill{
			ID:           b.ID,
			CustomerName: b.CustomerName,
			Amount:       b.Amount,
			Status:       b.Status,
			DueDate:      b.DueDate,
		})
	}
	return snap
}

// recencyKey is createdAt, falling back to the parsed due date. Bills with
// neither sort last.
func recencyKey(b *domain.Bill) time.Time {
	if !b.CreatedAt.IsZero() {
		return b.CreatedAt
	}
	t, _ := parseDueDate(b.DueDate)
	return t
}

func mostRecent(bills []*domain.Bill, n int) []*domain.Bill {
	sorted := make([]*domain.Bill, 0, len(bills))
	for _, b := range bills {
		if b != nil {
			sorted = append(sorted, b)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return recencyKey(sorted[i]).After(recencyKey(sorted[j]))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
