package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Payment is append-only. A retry is a new Payment, never an update.
type Payment struct {
	ID         uuid.UUID     `json:"id"`
	BookingID  uuid.UUID     `json:"booking_id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	Amount     float64       `json:"amount"`
	Method     PaymentMethod `json:"payment_method"`
	Status     PaymentStatus `json:"payment_status"`
	PaidAt     time.Time     `json:"payment_date"`
}

type PaymentFilter struct {
	BookingID  *uuid.UUID
	BookingIDs []uuid.UUID
	CustomerID *uuid.UUID
	Status     PaymentStatus
}

// Tenancy is a booking on a landlord's house with its payments, newest first.
type Tenancy struct {
	Booking
	Payments            []Payment     `json:"payments"`
	LatestPaymentStatus PaymentStatus `json:"latest_payment_status"`
}
