package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type CreateBookingRequest struct {
	PropertyID string `json:"house_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
}

type BookingQuery struct {
	Status     string `form:"status"`
	PropertyID string `form:"house_id"`
}

type BookingService struct {
	propertyRepo ports.PropertyRepository
	bookingRepo  ports.BookingRepository
	sync         *PropertySync
	log          logger.Logger
	now          func() time.Time
}

func NewBookingService(propertyRepo ports.PropertyRepository, bookingRepo ports.BookingRepository, sync *PropertySync, log logger.Logger) *BookingService {
	return &BookingService{
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		sync:         sync,
		log:          log,
		now:          time.Now,
	}
}

// CreateBooking files a pending booking against an available property. The
// property keeps its status; only approval books it.
func (s *BookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	propertyID, err := parseID("house id", req.PropertyID)
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("house %s not found", propertyID)
		}
		return nil, fmt.Errorf("failed to load house %s: %w", propertyID, err)
	}

	if !property.IsAvailable() {
		return nil, domain.Conflict("house %s is not available (%s)", propertyID, property.Status)
	}

	booking := &domain.Booking{
		ID:         uuid.New(),
		CustomerID: customerID,
		PropertyID: propertyID,
		BookedAt:   s.now().UTC(),
		StartDate:  startDate,
		Status:     domain.BookingPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.Info("booking %s created for house %s by customer %s (pending payment)", booking.ID, propertyID, customerID)

	return booking, nil
}

// SetStatus is the staff-facing transition: pending -> approved,
// pending -> cancelled and approved -> cancelled. On a recoverable
// inconsistency the committed booking is returned together with the error.
func (s *BookingService) SetStatus(ctx context.Context, bookingID string, status string, caller domain.Principal) (*domain.Booking, error) {
	if !caller.IsStaff() {
		return nil, domain.Unauthorized("role %q may not change booking status", caller.Role)
	}

	id, err := parseID("booking id", bookingID)
	if err != nil {
		return nil, err
	}

	next, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == next {
		return nil, domain.Conflict("booking %s is already %s", id, next)
	}

	if !booking.Status.CanBeSetTo(next) {
		return nil, domain.InvalidTransition(booking.Status, next)
	}

	if next == domain.BookingApproved {
		if err := s.ensurePropertyAvailable(ctx, booking.PropertyID); err != nil {
			return nil, err
		}
	}

	return s.transition(ctx, "set booking status", booking, next, nil)
}

// EndBooking lets a customer stop renting. It is the only way to reach ended.
func (s *BookingService) EndBooking(ctx context.Context, bookingID string, customerID uuid.UUID) (*domain.Booking, error) {
	id, err := parseID("booking id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(customerID) {
		return nil, domain.Unauthorized("not authorized to end booking %s", id)
	}

	if booking.Status != domain.BookingApproved {
		return nil, domain.InvalidState("only approved bookings can be ended, booking %s is %s", id, booking.Status)
	}

	endDate := s.now().UTC()
	return s.transition(ctx, "end booking", booking, domain.BookingEnded, &endDate)
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string, caller domain.Principal) (*domain.Booking, error) {
	id, err := parseID("booking id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case caller.IsStaff():
	case caller.Role == domain.RoleCustomer && booking.IsOwnedBy(caller.ID):
	case caller.Role == domain.RoleLandlord:
		if err := s.ensureOwner(ctx, booking.PropertyID, caller.ID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.Unauthorized("not authorized to view booking %s", id)
	}

	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, caller domain.Principal, q BookingQuery) ([]domain.Booking, error) {
	var filter domain.BookingFilter

	if q.Status != "" {
		status, err := domain.ParseBookingStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	if q.PropertyID != "" {
		propertyID, err := parseID("house id", q.PropertyID)
		if err != nil {
			return nil, err
		}
		filter.PropertyID = &propertyID
	}

	switch {
	case caller.IsStaff():
	case caller.Role == domain.RoleCustomer:
		filter.CustomerID = &caller.ID
	case caller.Role == domain.RoleLandlord && filter.PropertyID != nil:
		if err := s.ensureOwner(ctx, *filter.PropertyID, caller.ID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.Unauthorized("role %q must filter bookings by an owned house", caller.Role)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// transition writes the booking first and only then its property. A lost
// compare-and-set means another writer advanced the booking, or, for an
// approval, that another booking on the same property won it.
func (s *BookingService) transition(ctx context.Context, op string, booking *domain.Booking, next domain.BookingStatus, endDate *time.Time) (*domain.Booking, error) {
	from := booking.Status

	updated, err := s.bookingRepo.TransitionStatus(ctx, booking.ID, from, next, endDate)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, s.lostTransition(ctx, booking, from, next)
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound("booking %s not found", booking.ID)
		}
		return nil, fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}

	s.log.Info("booking %s moved %s -> %s", updated.ID, from, next)

	if err := s.sync.ApplyBookingEffect(ctx, op, updated, from); err != nil {
		return updated, err
	}

	return updated, nil
}

func (s *BookingService) lostTransition(ctx context.Context, booking *domain.Booking, from, next domain.BookingStatus) error {
	if next == domain.BookingApproved {
		if current, err := s.bookingRepo.GetByID(ctx, booking.ID); err == nil && current.Status == from {
			return domain.Conflict("house %s already has an approved booking", booking.PropertyID)
		}
	}
	return domain.Conflict("booking %s was changed concurrently, it is no longer %s", booking.ID, from)
}

func (s *BookingService) getBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("booking %s not found", id)
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	return booking, nil
}

// ensurePropertyAvailable refuses an approval that would give a property a
// second approved booking.
func (s *BookingService) ensurePropertyAvailable(ctx context.Context, propertyID uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("house %s not found", propertyID)
		}
		return fmt.Errorf("failed to load house %s: %w", propertyID, err)
	}

	if !property.IsAvailable() {
		return domain.Conflict("house %s is %s", propertyID, property.Status)
	}
	return nil
}

func (s *BookingService) ensureOwner(ctx context.Context, propertyID, ownerID uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("house %s not found", propertyID)
		}
		return fmt.Errorf("failed to load house %s: %w", propertyID, err)
	}

	if !property.IsOwnedBy(ownerID) {
		return domain.Unauthorized("house %s is not owned by %s", propertyID, ownerID)
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Validation("invalid start date: %q", raw)
}
