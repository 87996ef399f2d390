// Package fees handles fee invoices and payments. Amounts are integer
// cents; status moves pending -> partial -> paid as payments land.
package fees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

var ErrNotFound = errors.New("invoice not found")

type Invoice struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	Title       string `json:"title"`
	AmountCents int64  `json:"amount_cents"`
	PaidCents   int64  `json:"paid_cents"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date,omitempty"` // YYYY-MM-DD
	CreatedAt   int64  `json:"created_at"`
}

type Payment struct {
	ID          string `json:"id"`
	InvoiceID   string `json:"invoice_id"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method,omitempty"`
	PaidAt      int64  `json:"paid_at"`
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	if inv.StudentID == "" || inv.Title == "" {
		return Invoice{}, errors.New("invoice needs student_id and title")
	}
	if inv.AmountCents <= 0 {
		return Invoice{}, errors.New("invoice amount must be positive")
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	inv.Status = StatusPending
	inv.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `INSERT INTO invoices (id,student_id,title,amount_cents,paid_cents,status,due_date,created_at)
		VALUES ($1,$2,$3,$4,0,$5,$6,$7)`,
		inv.ID, inv.StudentID, inv.Title, inv.AmountCents, inv.Status, inv.DueDate, inv.CreatedAt)
	if err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *SQLStore) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,student_id,title,amount_cents,paid_cents,status,due_date,created_at FROM invoices WHERE id=$1`, id)
	var inv Invoice
	if err := row.Scan(&inv.ID, &inv.StudentID, &inv.Title, &inv.AmountCents, &inv.PaidCents, &inv.Status, &inv.DueDate, &inv.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	return inv, nil
}

// RecordPayment applies a payment, recomputes the paid total and flips
// the invoice status. Paying more than the open balance is rejected.
func (s *SQLStore) RecordPayment(ctx context.Context, p Payment) (Invoice, error) {
	if p.AmountCents <= 0 {
		return Invoice{}, errors.New("payment amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Invoice{}, err
	}
	defer tx.Rollback()

	var inv Invoice
	row := tx.QueryRowContext(ctx,
		`SELECT id,student_id,title,amount_cents,paid_cents,status,due_date,created_at FROM invoices WHERE id=$1`, p.InvoiceID)
	if err := row.Scan(&inv.ID, &inv.StudentID, &inv.Title, &inv.AmountCents, &inv.PaidCents, &inv.Status, &inv.DueDate, &inv.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	balance := inv.AmountCents - inv.PaidCents
	if p.AmountCents > balance {
		return Invoice{}, fmt.Errorf("payment of %d exceeds open balance %d", p.AmountCents, balance)
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.PaidAt = time.Now().Unix()
	if _, err := tx.ExecContext(ctx, `INSERT INTO payments (id,invoice_id,amount_cents,method,paid_at)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.InvoiceID, p.AmountCents, p.Method, p.PaidAt); err != nil {
		return Invoice{}, err
	}

	inv.PaidCents += p.AmountCents
	switch {
	case inv.PaidCents >= inv.AmountCents:
		inv.Status = StatusPaid
	case inv.PaidCents > 0:
		inv.Status = StatusPartial
	}
	if _, err := tx.ExecContext(ctx, `UPDATE invoices SET paid_cents=$1, status=$2 WHERE id=$3`,
		inv.PaidCents, inv.Status, inv.ID); err != nil {
		return Invoice{}, err
	}
	if err := tx.Commit(); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *SQLStore) StudentInvoices(ctx context.Context, studentID string) ([]Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,student_id,title,amount_cents,paid_cents,status,due_date,created_at
		 FROM invoices WHERE student_id=$1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Invoice{}
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.StudentID, &inv.Title, &inv.AmountCents, &inv.PaidCents, &inv.Status, &inv.DueDate, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// OutstandingTotal sums open balances, optionally restricted to a class.
func (s *SQLStore) OutstandingTotal(ctx context.Context, classID string) (int64, error) {
	q := `SELECT COALESCE(SUM(amount_cents - paid_cents), 0) FROM invoices WHERE status != $1`
	args := []interface{}{StatusPaid}
	if classID != "" {
		q = `SELECT COALESCE(SUM(i.amount_cents - i.paid_cents), 0)
		     FROM invoices i JOIN users u ON u.id = i.student_id
		     WHERE i.status != $1 AND u.class_id = $2`
		args = append(args, classID)
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
