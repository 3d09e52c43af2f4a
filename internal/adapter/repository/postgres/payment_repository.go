package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/srgjo27/house_rental/internal/core/domain"
)

const paymentColumns = `id, booking_id, customer_id, amount, method, status, paid_at`

// PaymentRepository is append-only; payments are never updated or deleted.
type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
	INSERT INTO payments (` + paymentColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.BookingID, payment.CustomerID, payment.Amount, payment.Method, payment.Status, payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	var c conditions
	if filter.BookingID != nil {
		c.add("booking_id = $%d", *filter.BookingID)
	}
	if filter.BookingIDs != nil {
		c.add("booking_id = ANY($%d::uuid[])", uuidArray(filter.BookingIDs))
	}
	if filter.CustomerID != nil {
		c.add("customer_id = $%d", *filter.CustomerID)
	}
	if filter.Status != "" {
		c.add("status = $%d", filter.Status)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments` + c.where() + ` ORDER BY paid_at DESC`

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.CustomerID,
			&p.Amount,
			&p.Method,
			&p.Status,
			&p.PaidAt,
		); err != nil {
			return nil, err
		}

		payments = append(payments, p)
	}

	return payments, rows.Err()
}
