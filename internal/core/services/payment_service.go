package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type SettlePaymentRequest struct {
	BookingID string  `json:"booking_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"payment_method" validate:"required,oneof=card cash transfer"`
}

type ManualPaymentRequest struct {
	Amount float64 `json:"amount" validate:"omitempty,gt=0"`
	Method string  `json:"payment_method" validate:"omitempty,oneof=card cash transfer"`
}

// BookingTransitioner is the slice of the booking lifecycle settlement needs.
type BookingTransitioner interface {
	SetStatus(ctx context.Context, bookingID string, status string, caller domain.Principal) (*domain.Booking, error)
}

type PaymentService struct {
	propertyRepo ports.PropertyRepository
	bookingRepo  ports.BookingRepository
	paymentRepo  ports.PaymentRepository
	lifecycle    BookingTransitioner
	sync         *PropertySync
	log          logger.Logger
	now          func() time.Time
}

func NewPaymentService(
	propertyRepo ports.PropertyRepository,
	bookingRepo ports.BookingRepository,
	paymentRepo ports.PaymentRepository,
	lifecycle BookingTransitioner,
	sync *PropertySync,
	log logger.Logger,
) *PaymentService {
	return &PaymentService{
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		lifecycle:    lifecycle,
		sync:         sync,
		log:          log,
		now:          time.Now,
	}
}

// SettlePayment records a customer's payment and approves the booking.
//
// The store has no multi-document transaction, so the steps run in a fixed
// order: every check first, the payment second, the booking transition third.
// If the transition fails after the payment committed, the payment is returned
// together with a recoverable inconsistency. A crash between the two writes
// leaves a paid payment on a pending booking, which reconciliation reports.
func (s *PaymentService) SettlePayment(ctx context.Context, customerID uuid.UUID, req SettlePaymentRequest) (*domain.Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	bookingID, err := parseID("booking id", req.BookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("booking %s not found", bookingID)
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	if !booking.IsOwnedBy(customerID) {
		return nil, domain.Unauthorized("not authorized to pay for booking %s", bookingID)
	}

	if booking.Status != domain.BookingPending {
		return nil, domain.InvalidState("booking %s is %s, only pending bookings can be settled", bookingID, booking.Status)
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("house %s not found", booking.PropertyID)
		}
		return nil, fmt.Errorf("failed to load house %s: %w", booking.PropertyID, err)
	}

	if !property.IsAvailable() {
		return nil, domain.Conflict("house %s is %s", property.ID, property.Status)
	}

	payment := &domain.Payment{
		ID:         uuid.New(),
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		Amount:     req.Amount,
		Method:     domain.PaymentMethod(req.Method),
		Status:     domain.PaymentPaid,
		PaidAt:     s.now().UTC(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.log.Info("payment %s of %.2f (%s) recorded for booking %s", payment.ID, payment.Amount, payment.Method, booking.ID)

	_, err = s.lifecycle.SetStatus(ctx, booking.ID.String(), string(domain.BookingApproved), domain.SystemPrincipal)
	if err == nil {
		return payment, nil
	}

	var incErr *domain.InconsistencyError
	if errors.As(err, &incErr) {
		// booking approved, property did not follow; already reported
		incErr.PaymentID = &payment.ID
		return payment, incErr
	}

	incErr = &domain.InconsistencyError{
		Operation:      "settle payment",
		BookingID:      booking.ID,
		PropertyID:     booking.PropertyID,
		PaymentID:      &payment.ID,
		BookingStatus:  s.observeBooking(ctx, booking.ID),
		PropertyStatus: s.sync.observe(ctx, booking.PropertyID),
		Cause:          fmt.Errorf("approve booking after payment: %w", err),
	}
	s.sync.Report(ctx, incErr)

	return payment, incErr
}

// RecordManualPayment logs rent a landlord collected out of band. Unlike
// SettlePayment it does not look at the booking status and has no booking
// side effect; it usually runs against an already approved booking.
func (s *PaymentService) RecordManualPayment(ctx context.Context, bookingID string, landlordID uuid.UUID, req ManualPaymentRequest) (*domain.Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	id, err := parseID("booking id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("booking %s not found", id)
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", id, err)
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("house %s not found", booking.PropertyID)
		}
		return nil, fmt.Errorf("failed to load house %s: %w", booking.PropertyID, err)
	}

	if !property.IsOwnedBy(landlordID) {
		return nil, domain.Unauthorized("not authorized to record payments for house %s", property.ID)
	}

	amount := req.Amount
	if amount == 0 {
		amount = property.Price
	}

	method := domain.PaymentMethod(req.Method)
	if method == "" {
		method = domain.PaymentCash
	}

	payment := &domain.Payment{
		ID:         uuid.New(),
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		Amount:     amount,
		Method:     method,
		Status:     domain.PaymentPaid,
		PaidAt:     s.now().UTC(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.log.Info("manual payment %s of %.2f recorded by landlord %s for booking %s (%s)", payment.ID, amount, landlordID, booking.ID, booking.Status)

	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, caller domain.Principal) ([]domain.Payment, error) {
	var filter domain.PaymentFilter

	switch {
	case caller.IsStaff():
	case caller.Role == domain.RoleCustomer:
		filter.CustomerID = &caller.ID
	default:
		return nil, domain.Unauthorized("role %q may not list payments", caller.Role)
	}

	payments, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

// ListTenants returns every booking on the landlord's houses with the
// payments made against it. A booking without payments reads as unpaid.
func (s *PaymentService) ListTenants(ctx context.Context, caller domain.Principal) ([]domain.Tenancy, error) {
	if caller.Role != domain.RoleLandlord {
		return nil, domain.Unauthorized("role %q may not list tenants", caller.Role)
	}

	owned, err := s.propertyRepo.List(ctx, domain.PropertyFilter{OwnerID: &caller.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list houses of landlord %s: %w", caller.ID, err)
	}
	if len(owned) == 0 {
		return []domain.Tenancy{}, nil
	}

	propertyIDs := make([]uuid.UUID, 0, len(owned))
	for _, p := range owned {
		propertyIDs = append(propertyIDs, p.ID)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingFilter{PropertyIDs: propertyIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings of landlord %s: %w", caller.ID, err)
	}
	if len(bookings) == 0 {
		return []domain.Tenancy{}, nil
	}

	bookingIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}

	payments, err := s.paymentRepo.List(ctx, domain.PaymentFilter{BookingIDs: bookingIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of landlord %s: %w", caller.ID, err)
	}

	byBooking := make(map[uuid.UUID][]domain.Payment, len(bookings))
	for _, p := range payments {
		byBooking[p.BookingID] = append(byBooking[p.BookingID], p)
	}

	tenants := make([]domain.Tenancy, 0, len(bookings))
	for _, b := range bookings {
		paid := byBooking[b.ID]
		if paid == nil {
			paid = []domain.Payment{}
		}
		sort.SliceStable(paid, func(i, j int) bool { return paid[i].PaidAt.After(paid[j].PaidAt) })

		latest := domain.PaymentUnpaid
		if len(paid) > 0 {
			latest = paid[0].Status
		}

		tenants = append(tenants, domain.Tenancy{Booking: b, Payments: paid, LatestPaymentStatus: latest})
	}

	return tenants, nil
}

func (s *PaymentService) observeBooking(ctx context.Context, bookingID uuid.UUID) domain.BookingStatus {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return ""
	}
	return b.Status
}
