package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/infrastructure/mongodb"
)

// exerciseStores runs the behaviour every backend must share.
func exerciseStores(t *testing.T, users domain.UserRepository, bills domain.BillRepository, missingID string) {
	t.Helper()
	ctx := context.Background()
	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())

	user := &domain.User{Username: "it", Email: email, PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "dup", Email: email, PasswordHash: "x"}), domain.ErrEmailExists)

	got, err := users.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = users.GetByEmail(ctx, "nobody-"+email)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created := time.Now().UTC().Truncate(time.Millisecond)
	bill := &domain.Bill{
		CustomerName: "Integration",
		Units:        10,
		Rate:         2.5,
		Amount:       25,
		DueDate:      "2024-07-01",
		Status:       domain.StatusUnpaid,
		CreatedAt:    created,
	}
	require.NoError(t, bills.Create(ctx, bill))
	require.True(t, bills.ValidID(bill.ID))
	t.Cleanup(func() { _ = bills.Delete(context.Background(), bill.ID) })

	list, err := bills.List(ctx)
	require.NoError(t, err)
	var found *domain.Bill
	for _, b := range list {
		if b.ID == bill.ID {
			found = b
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 25.0, found.Amount)
	assert.True(t, found.CreatedAt.Equal(created))

	paid := domain.StatusPaid
	units := 40.0
	updated, err := bills.Update(ctx, bill.ID, domain.BillPatch{Status: &paid, Units: &units})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.Equal(t, 40.0, updated.Units)
	assert.Equal(t, 25.0, updated.Amount)

	same, err := bills.Update(ctx, bill.ID, domain.BillPatch{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, same.Status)

	_, err = bills.Update(ctx, missingID, domain.BillPatch{Status: &paid})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, bills.Delete(ctx, bill.ID))
	require.NoError(t, bills.Delete(ctx, bill.ID))
}

func TestMemoryStoresBehaviour(t *testing.T) {
	exerciseStores(t, NewMemoryUserRepository(), NewMemoryBillRepository(), "00000000-0000-0000-0000-000000000000")
}

func TestMongoStores(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()

	client, err := mongodb.NewClient(ctx, uri, "wattbill_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	users := NewMongoUserRepository(client.Database(), nil)
	require.NoError(t, users.EnsureIndexes(ctx))
	bills := NewMongoBillRepository(client.Database(), nil)

	assert.False(t, bills.ValidID("not-an-object-id"))
	exerciseStores(t, users, bills, "000000000000000000000000")
}

func TestPostgresStores(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	require.NoError(t, RunPostgresMigrations(dsn))
	require.NoError(t, RunPostgresMigrations(dsn))

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bills := NewPostgresBillRepository(db, nil)
	assert.False(t, bills.ValidID("65a1b2c3d4e5f6a7b8c9d0e1"))
	exerciseStores(t, NewPostgresUserRepository(db, nil), bills, "00000000-0000-0000-0000-000000000000")
}
