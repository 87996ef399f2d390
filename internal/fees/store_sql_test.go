package fees

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpoint/classpoint-backend/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { dbh.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), dbh, db.DriverSQLite))
	return dbh
}

func TestInvoiceLifecycle(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	inv, err := s.CreateInvoice(ctx, Invoice{StudentID: "s1", Title: "Term 1 fees", AmountCents: 50_000, DueDate: "2026-09-15"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, inv.Status)
	require.NotEmpty(t, inv.ID)

	inv, err = s.RecordPayment(ctx, Payment{InvoiceID: inv.ID, AmountCents: 20_000, Method: "upi"})
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, inv.Status)
	assert.Equal(t, int64(20_000), inv.PaidCents)

	inv, err = s.RecordPayment(ctx, Payment{InvoiceID: inv.ID, AmountCents: 30_000, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, inv.Status)

	// fully paid: any further payment exceeds the open balance
	_, err = s.RecordPayment(ctx, Payment{InvoiceID: inv.ID, AmountCents: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds open balance")
}

func TestCreateInvoiceValidation(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	_, err := s.CreateInvoice(ctx, Invoice{StudentID: "s1", Title: "x", AmountCents: 0})
	assert.Error(t, err)
	_, err = s.CreateInvoice(ctx, Invoice{Title: "x", AmountCents: 100})
	assert.Error(t, err)
	_, err = s.RecordPayment(ctx, Payment{InvoiceID: "missing", AmountCents: 100})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOutstandingTotal(t *testing.T) {
	dbh := testDB(t)
	s := NewSQLStore(dbh)
	ctx := context.Background()

	_, err := dbh.Exec(`INSERT INTO users (id,username,password_hash,role,class_id) VALUES ('s1','s1','x','student','7a')`)
	require.NoError(t, err)
	_, err = dbh.Exec(`INSERT INTO users (id,username,password_hash,role,class_id) VALUES ('s2','s2','x','student','8b')`)
	require.NoError(t, err)

	a, err := s.CreateInvoice(ctx, Invoice{StudentID: "s1", Title: "Term 1", AmountCents: 10_000})
	require.NoError(t, err)
	_, err = s.CreateInvoice(ctx, Invoice{StudentID: "s2", Title: "Term 1", AmountCents: 7_000})
	require.NoError(t, err)
	_, err = s.RecordPayment(ctx, Payment{InvoiceID: a.ID, AmountCents: 4_000})
	require.NoError(t, err)

	all, err := s.OutstandingTotal(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(13_000), all)

	cls, err := s.OutstandingTotal(ctx, "7a")
	require.NoError(t, err)
	assert.Equal(t, int64(6_000), cls)

	list, err := s.StudentInvoices(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusPartial, list[0].Status)
}
