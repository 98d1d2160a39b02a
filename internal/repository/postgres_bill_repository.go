package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
)

const billColumns = `id, customer_name, units, rate, amount, due_date, status, created_at`

// PostgresBillRepository implements domain.BillRepository using PostgreSQL
type PostgresBillRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBillRepository creates a new bill repository
func NewPostgresBillRepository(db *sql.DB, logger *slog.Logger) *PostgresBillRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBillRepository{db: db, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*domain.Bill, error) {
	bill := &domain.Bill{}
	var createdAt sql.NullTime
	if err := row.Scan(
		&bill.ID,
		&bill.CustomerName,
		&bill.Units,
		&bill.Rate,
		&bill.Amount,
		&bill.DueDate,
		&bill.Status,
		&createdAt,
	); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		bill.CreatedAt = createdAt.Time.UTC()
	}
	return bill, nil
}

// List returns every bill
func (r *PostgresBillRepository) List(ctx context.Context) ([]*domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+billColumns+` FROM bills`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := []*domain.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}

	return bills, rows.Err()
}

// Create inserts a bill and assigns its id
func (r *PostgresBillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	id := uuid.NewString()
	var createdAt sql.NullTime
	if !bill.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: bill.CreatedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		id,
		bill.CustomerName,
		bill.Units,
		bill.Rate,
		bill.Amount,
		bill.DueDate,
		bill.Status,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	bill.ID = id
	return nil
}

// Update applies the non-nil patch fields in one statement and returns the row
func (r *PostgresBillRepository) Update(ctx context.Context, id string, patch domain.BillPatch) (*domain.Bill, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.CustomerName != nil {
		add("customer_name", *patch.CustomerName)
	}
	if patch.Units != nil {
		add("units", *patch.Units)
	}
	if patch.Rate != nil {
		add("rate", *patch.Rate)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	var row *sql.Row
	if len(sets) == 0 {
		row = r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	} else {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE bills SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), billColumns)
		row = r.db.QueryRowContext(ctx, query, args...)
	}

	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to update bill",
			slog.String("bill_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return bill, nil
}

// Delete removes a bill. A missing row is not an error.
func (r *PostgresBillRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// ValidID accepts UUIDs
func (r *PostgresBillRepository) ValidID(id string) bool {
	return validUUID(id)
}

// validUUID accepts only the canonical hyphenated form
func validUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

