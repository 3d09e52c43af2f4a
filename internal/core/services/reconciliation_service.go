package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type DriftKind string

const (
	DriftOrphanedPayment        DriftKind = "orphaned_payment"
	DriftApprovedWithoutBooking DriftKind = "approved_without_booked_property"
	DriftBookedWithoutApproval  DriftKind = "booked_without_single_approval"
)

type Drift struct {
	Kind             DriftKind             `json:"kind"`
	BookingID        *uuid.UUID            `json:"booking_id,omitempty"`
	PropertyID       *uuid.UUID            `json:"property_id,omitempty"`
	PaymentID        *uuid.UUID            `json:"payment_id,omitempty"`
	BookingStatus    domain.BookingStatus  `json:"booking_status,omitempty"`
	PropertyStatus   domain.PropertyStatus `json:"property_status,omitempty"`
	ApprovedBookings *int                  `json:"approved_bookings,omitempty"`
}

// ReconciliationReport carries the newest signals; PendingSignals counts the
// whole unacknowledged backlog.
type ReconciliationReport struct {
	ScannedAt      time.Time              `json:"scanned_at"`
	Drifts         []Drift                `json:"drifts"`
	Signals        []domain.Inconsistency `json:"signals"`
	PendingSignals int64                  `json:"pending_signals"`
}

// ReconciliationService finds drift between bookings, properties and
// payments. It only reports; nothing here writes to the store. Run
// acknowledges the signals it has logged.
type ReconciliationService struct {
	propertyRepo ports.PropertyRepository
	bookingRepo  ports.BookingRepository
	paymentRepo  ports.PaymentRepository
	reporter     ports.InconsistencyReporter
	log          logger.Logger
	signalLimit  int64
}

func NewReconciliationService(
	propertyRepo ports.PropertyRepository,
	bookingRepo ports.BookingRepository,
	paymentRepo ports.PaymentRepository,
	reporter ports.InconsistencyReporter,
	log logger.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		reporter:     reporter,
		log:          log,
		signalLimit:  100,
	}
}

func (s *ReconciliationService) Scan(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		ScannedAt: time.Now().UTC(),
		Drifts:    []Drift{},
		Signals:   []domain.Inconsistency{},
	}

	approved, err := s.bookingRepo.List(ctx, domain.BookingFilter{Status: domain.BookingApproved})
	if err != nil {
		return nil, fmt.Errorf("failed to list approved bookings: %w", err)
	}

	approvedDrifts, err := s.scanApproved(ctx, approved)
	if err != nil {
		return nil, err
	}
	report.Drifts = append(report.Drifts, approvedDrifts...)

	bookedDrifts, err := s.scanBooked(ctx, approved)
	if err != nil {
		return nil, err
	}
	report.Drifts = append(report.Drifts, bookedDrifts...)

	orphans, err := s.scanPayments(ctx)
	if err != nil {
		return nil, err
	}
	report.Drifts = append(report.Drifts, orphans...)

	signals, pending, err := s.reporter.Pending(ctx, s.signalLimit)
	if err != nil {
		s.log.Error("failed to read inconsistency signals: %v", err)
	} else {
		report.Signals = append(report.Signals, signals...)
		report.PendingSignals = pending
	}

	return report, nil
}

// Run scans once and logs every finding. It is what the scheduler calls.
func (s *ReconciliationService) Run(ctx context.Context) {
	report, err := s.Scan(ctx)
	if err != nil {
		s.log.Error("reconciliation scan failed: %v", err)
		return
	}

	for _, d := range report.Drifts {
		s.log.Error("reconciliation drift %s: booking=%s property=%s payment=%s booking_status=%s property_status=%s",
			d.Kind, idOrDash(d.BookingID), idOrDash(d.PropertyID), idOrDash(d.PaymentID), d.BookingStatus, d.PropertyStatus)
	}
	handled := make([]string, 0, len(report.Signals))
	for _, sig := range report.Signals {
		s.log.Error("reconciliation signal %s: %s booking=%s (%s) property=%s (%s): %s",
			sig.ID, sig.Operation, sig.BookingID, sig.BookingStatus, sig.PropertyID, sig.PropertyStatus, sig.Cause)
		if sig.ID != "" {
			handled = append(handled, sig.ID)
		}
	}

	remaining := report.PendingSignals
	if err := s.reporter.Ack(ctx, handled...); err != nil {
		s.log.Error("failed to acknowledge %d inconsistency signals: %v", len(handled), err)
	} else {
		remaining -= int64(len(handled))
	}

	s.log.Info("reconciliation scan finished: %d drifts, %d signals handled, %d still pending",
		len(report.Drifts), len(handled), remaining)
}

// scanApproved flags approved bookings whose house is missing or not booked.
func (s *ReconciliationService) scanApproved(ctx context.Context, approved []domain.Booking) ([]Drift, error) {
	if len(approved) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(approved))
	for _, b := range approved {
		ids = append(ids, b.PropertyID)
	}

	properties, err := s.propertyRepo.List(ctx, domain.PropertyFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to load houses of approved bookings: %w", err)
	}

	status := make(map[uuid.UUID]domain.PropertyStatus, len(properties))
	for _, p := range properties {
		status[p.ID] = p.Status
	}

	var drifts []Drift
	for _, b := range approved {
		ps, ok := status[b.PropertyID]
		if ok && ps == domain.PropertyBooked {
			continue
		}
		drifts = append(drifts, Drift{
			Kind:           DriftApprovedWithoutBooking,
			BookingID:      ptr(b.ID),
			PropertyID:     ptr(b.PropertyID),
			BookingStatus:  b.Status,
			PropertyStatus: ps,
		})
	}
	return drifts, nil
}

// scanBooked flags booked houses that do not have exactly one approved booking.
func (s *ReconciliationService) scanBooked(ctx context.Context, approved []domain.Booking) ([]Drift, error) {
	booked, err := s.propertyRepo.List(ctx, domain.PropertyFilter{Status: domain.PropertyBooked})
	if err != nil {
		return nil, fmt.Errorf("failed to list booked houses: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(approved))
	for _, b := range approved {
		counts[b.PropertyID]++
	}

	var drifts []Drift
	for _, p := range booked {
		n := counts[p.ID]
		if n == 1 {
			continue
		}
		drifts = append(drifts, Drift{
			Kind:             DriftBookedWithoutApproval,
			PropertyID:       ptr(p.ID),
			PropertyStatus:   p.Status,
			ApprovedBookings: ptr(n),
		})
	}
	return drifts, nil
}

// scanPayments flags paid payments whose booking never left pending.
func (s *ReconciliationService) scanPayments(ctx context.Context) ([]Drift, error) {
	paid, err := s.paymentRepo.List(ctx, domain.PaymentFilter{Status: domain.PaymentPaid})
	if err != nil {
		return nil, fmt.Errorf("failed to list paid payments: %w", err)
	}
	if len(paid) == 0 {
		return nil, nil
	}

	pending, err := s.bookingRepo.List(ctx, domain.BookingFilter{Status: domain.BookingPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}

	pendingByID := make(map[uuid.UUID]domain.Booking, len(pending))
	for _, b := range pending {
		pendingByID[b.ID] = b
	}

	var drifts []Drift
	for _, pay := range paid {
		b, ok := pendingByID[pay.BookingID]
		if !ok {
			continue
		}
		drifts = append(drifts, Drift{
			Kind:          DriftOrphanedPayment,
			BookingID:     ptr(b.ID),
			PropertyID:    ptr(b.PropertyID),
			PaymentID:     ptr(pay.ID),
			BookingStatus: b.Status,
		})
	}
	return drifts, nil
}

func ptr[T any](v T) *T {
	return &v
}

func idOrDash(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
