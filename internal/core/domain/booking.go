package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCancelled BookingStatus = "cancelled"
	BookingEnded     BookingStatus = "ended"
)

// bookingTransitions is the whole booking state machine. Terminal states map
// to an empty slice; a status missing from the table is not a status.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingApproved, BookingCancelled},
	BookingApproved:  {BookingCancelled, BookingEnded},
	BookingCancelled: {},
	BookingEnded:     {},
}

func BookingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingApproved, BookingCancelled, BookingEnded}
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", Validation("invalid booking status: %q", s)
	}
	return status, nil
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// CanBeSetTo reports whether a staff status change may move s to target.
// Ended is reachable only through the customer's own termination.
func (s BookingStatus) CanBeSetTo(target BookingStatus) bool {
	return target != BookingEnded && s.CanTransitionTo(target)
}

// PropertyEffect is the availability change a booking transition implies for
// its property: the status the property must be in and the status it moves to.
// ok is false when the transition leaves the property alone.
func PropertyEffect(from, to BookingStatus) (expect, next PropertyStatus, ok bool) {
	switch {
	case from == BookingPending && to == BookingApproved:
		return PropertyAvailable, PropertyBooked, true
	case from == BookingApproved && (to == BookingCancelled || to == BookingEnded):
		return PropertyBooked, PropertyAvailable, true
	}
	return "", "", false
}

type Booking struct {
	ID         uuid.UUID     `json:"id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	PropertyID uuid.UUID     `json:"property_id"`
	BookedAt   time.Time     `json:"booking_date"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    *time.Time    `json:"end_date,omitempty"`
	Status     BookingStatus `json:"booking_status"`
}

func (b *Booking) IsOwnedBy(customerID uuid.UUID) bool {
	return b.CustomerID == customerID
}

type BookingFilter struct {
	CustomerID  *uuid.UUID
	PropertyID  *uuid.UUID
	PropertyIDs []uuid.UUID
	Status      BookingStatus
}
