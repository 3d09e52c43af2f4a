package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

const bookingColumns = `id, customer_id, property_id, booked_at, start_date, end_date, status`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (` + bookingColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID, booking.CustomerID, booking.PropertyID, booking.BookedAt, booking.StartDate, booking.EndDate, booking.Status)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
		}
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var c conditions
	if filter.CustomerID != nil {
		c.add("customer_id = $%d", *filter.CustomerID)
	}
	if filter.PropertyID != nil {
		c.add("property_id = $%d", *filter.PropertyID)
	}
	if filter.Status != "" {
		c.add("status = $%d", filter.Status)
	}
	if filter.PropertyIDs != nil {
		c.add("property_id = ANY($%d::uuid[])", uuidArray(filter.PropertyIDs))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings` + c.where() + ` ORDER BY booked_at DESC`

	rows, err := r.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

// TransitionStatus is a compare-and-set on the booking status. endDate, when
// given, is written in the same statement. idx_bookings_one_approved rejects
// a second approved booking on the same property.
func (r *BookingRepository) TransitionStatus(ctx context.Context, bookingID uuid.UUID, expect, next domain.BookingStatus, endDate *time.Time) (*domain.Booking, error) {
	query := `
	UPDATE bookings
	SET status = $3,
		end_date = COALESCE($4, end_date)
	WHERE id = $1 AND status = $2
	RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID, expect, next, endDate))
	if err == nil {
		return booking, nil
	}

	if isUniqueViolation(err) {
		return nil, fmt.Errorf("booking %s: property already has an approved booking: %w", bookingID, domain.ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	found, err := exists(ctx, r.db, "bookings", bookingID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}

	return nil, fmt.Errorf("booking %s is no longer %s: %w", bookingID, expect, domain.ErrConflict)
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var endDate sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.PropertyID,
		&booking.BookedAt,
		&booking.StartDate,
		&endDate,
		&booking.Status,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		booking.EndDate = &endDate.Time
	}

	return &booking, nil
}
