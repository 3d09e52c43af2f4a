package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
)

// Repositories return errors wrapping domain.ErrNotFound for absent records
// and domain.ErrConflict when a conditional update's predicate no longer
// holds. Every other error is a store failure.

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error)
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	// Count ignores the filter's Limit and Offset.
	Count(ctx context.Context, filter domain.PropertyFilter) (int64, error)
	// Update rewrites the descriptive fields. Status is never touched.
	Update(ctx context.Context, property *domain.Property) error
	// TransitionStatus moves the property to next only if it is currently in expect.
	TransitionStatus(ctx context.Context, propertyID uuid.UUID, expect, next domain.PropertyStatus) error
	Delete(ctx context.Context, propertyID uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	// TransitionStatus moves the booking to next only if it is currently in
	// expect, stamping endDate when given, and returns the updated booking.
	// A property holds at most one approved booking; an approval that would
	// break that fails with domain.ErrConflict.
	TransitionStatus(ctx context.Context, bookingID uuid.UUID, expect, next domain.BookingStatus, endDate *time.Time) (*domain.Booking, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error)
}

type CustomerRepository interface {
	// Create fails with domain.ErrConflict when the id or email is taken.
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error)
	// ToggleFavorite flips propertyID's membership in one atomic store
	// operation and returns the resulting set and whether the id was added.
	ToggleFavorite(ctx context.Context, customerID, propertyID uuid.UUID) (*domain.FavoriteSet, bool, error)
}
