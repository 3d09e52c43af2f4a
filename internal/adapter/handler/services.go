package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/services"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, req services.CreateBookingRequest) (*domain.Booking, error)
	SetStatus(ctx context.Context, bookingID string, status string, caller domain.Principal) (*domain.Booking, error)
	EndBooking(ctx context.Context, bookingID string, customerID uuid.UUID) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string, caller domain.Principal) (*domain.Booking, error)
	ListBookings(ctx context.Context, caller domain.Principal, q services.BookingQuery) ([]domain.Booking, error)
}

type PaymentService interface {
	SettlePayment(ctx context.Context, customerID uuid.UUID, req services.SettlePaymentRequest) (*domain.Payment, error)
	RecordManualPayment(ctx context.Context, bookingID string, landlordID uuid.UUID, req services.ManualPaymentRequest) (*domain.Payment, error)
	ListPayments(ctx context.Context, caller domain.Principal) ([]domain.Payment, error)
	ListTenants(ctx context.Context, caller domain.Principal) ([]domain.Tenancy, error)
}

type FavoriteService interface {
	ToggleFavorite(ctx context.Context, customerID uuid.UUID, propertyID string) (*domain.FavoriteSet, bool, error)
	ListFavorites(ctx context.Context, customerID uuid.UUID) ([]domain.Property, error)
}

type CustomerService interface {
	RegisterCustomer(ctx context.Context, caller domain.Principal, req services.RegisterCustomerRequest) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error)
}

type PropertyService interface {
	CreateProperty(ctx context.Context, caller domain.Principal, req services.CreatePropertyRequest) (*domain.Property, error)
	GetProperty(ctx context.Context, propertyID string) (*domain.Property, error)
	ListProperties(ctx context.Context, q services.PropertyQuery) (*domain.PropertyPage, error)
	UpdateProperty(ctx context.Context, propertyID string, caller domain.Principal, req services.UpdatePropertyRequest) (*domain.Property, error)
	SetMaintenance(ctx context.Context, propertyID string, on bool, caller domain.Principal) (*domain.Property, error)
	DeleteProperty(ctx context.Context, propertyID string, caller domain.Principal) error
}

type ReconciliationService interface {
	Scan(ctx context.Context) (*services.ReconciliationReport, error)
}

func committed[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return v
}
