package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

var validate = validator.New()

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
			}
			return domain.Validation("invalid request: %s", strings.Join(msgs, "; "))
		}
		return domain.Validation("invalid request: %v", err)
	}
	return nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domain.Validation("invalid %s: %q", field, raw)
	}
	return id, nil
}

// PropertySync applies the availability side effect of a committed booking
// transition and reports any failure to reconciliation. It never writes the
// property before the booking: callers invoke it only after their own write.
type PropertySync struct {
	properties ports.PropertyRepository
	cache      ports.PropertyCache
	events     ports.PropertyEventPublisher
	reporter   ports.InconsistencyReporter
	log        logger.Logger
}

func NewPropertySync(
	properties ports.PropertyRepository,
	cache ports.PropertyCache,
	events ports.PropertyEventPublisher,
	reporter ports.InconsistencyReporter,
	log logger.Logger,
) *PropertySync {
	return &PropertySync{
		properties: properties,
		cache:      cache,
		events:     events,
		reporter:   reporter,
		log:        log,
	}
}

// ApplyBookingEffect moves booking's property in step with the transition
// from -> booking.Status. It returns an *domain.InconsistencyError when the
// property could not follow.
func (s *PropertySync) ApplyBookingEffect(ctx context.Context, op string, booking *domain.Booking, from domain.BookingStatus) error {
	expect, next, ok := domain.PropertyEffect(from, booking.Status)
	if !ok {
		return nil
	}

	err := s.properties.TransitionStatus(ctx, booking.PropertyID, expect, next)
	if err == nil {
		s.Changed(ctx, booking.PropertyID)
		return nil
	}

	observed := s.observe(ctx, booking.PropertyID)

	if next == domain.PropertyAvailable {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// deleted by an administrator; nothing left to release
			return nil
		case errors.Is(err, domain.ErrConflict) && observed == domain.PropertyMaintenance:
			s.log.Info("property %s left in maintenance after booking %s became %s", booking.PropertyID, booking.ID, booking.Status)
			return nil
		case errors.Is(err, domain.ErrConflict) && observed == domain.PropertyAvailable:
			return nil
		}
	}

	incErr := &domain.InconsistencyError{
		Operation:      op,
		BookingID:      booking.ID,
		PropertyID:     booking.PropertyID,
		BookingStatus:  booking.Status,
		PropertyStatus: observed,
		Cause:          fmt.Errorf("set property %s -> %s: %w", expect, next, err),
	}
	s.Report(ctx, incErr)
	return incErr
}

// Report logs the inconsistency with every id and status involved and pushes
// it to the reconciliation stream.
func (s *PropertySync) Report(ctx context.Context, incErr *domain.InconsistencyError) {
	s.log.Error("recoverable inconsistency: %v", incErr)
	if err := s.reporter.Report(ctx, incErr.Signal()); err != nil {
		s.log.Error("failed to signal reconciliation for booking %s: %v", incErr.BookingID, err)
	}
}

// Changed invalidates cached copies of the property and notifies consumers.
func (s *PropertySync) Changed(ctx context.Context, propertyID uuid.UUID) {
	s.publish(ctx, ports.PropertyUpdated, propertyID)
}

func (s *PropertySync) publish(ctx context.Context, action ports.PropertyAction, propertyID uuid.UUID) {
	s.cache.Invalidate(ctx, propertyID)
	if err := s.events.PublishPropertyEvent(ctx, action, propertyID); err != nil {
		s.log.Error("failed to publish %s event for property %s: %v", action, propertyID, err)
	}
}

// observe returns the property's current status, or "" when it cannot be read.
func (s *PropertySync) observe(ctx context.Context, propertyID uuid.UUID) domain.PropertyStatus {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return ""
	}
	return p.Status
}
