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

// RegisterCustomerRequest creates the customer record behind a token. The
// id is the token subject; staff registering on someone's behalf must send it.
type RegisterCustomerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type CustomerService struct {
	customerRepo ports.CustomerRepository
	log          logger.Logger
	now          func() time.Time
}

func NewCustomerService(customerRepo ports.CustomerRepository, log logger.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		log:          log,
		now:          time.Now,
	}
}

// RegisterCustomer creates a customer with an empty favorite set. A customer
// registers itself; staff register others by id. Ids and emails are unique.
func (s *CustomerService) RegisterCustomer(ctx context.Context, caller domain.Principal, req RegisterCustomerRequest) (*domain.Customer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var id uuid.UUID
	switch {
	case caller.Role == domain.RoleCustomer:
		if req.ID != "" && req.ID != caller.ID.String() {
			return nil, domain.Unauthorized("customers may only register themselves")
		}
		id = caller.ID
	case caller.IsStaff():
		parsed, err := parseID("customer id", req.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	default:
		return nil, domain.Unauthorized("role %q may not register customers", caller.Role)
	}

	customer := &domain.Customer{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Favorites: []uuid.UUID{},
		CreatedAt: s.now().UTC(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("customer already exists")
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.log.Info("customer %s registered by %s (%s)", customer.ID, caller.ID, caller.Role)

	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("customer %s not found", customerID)
		}
		return nil, fmt.Errorf("failed to load customer %s: %w", customerID, err)
	}
	return customer, nil
}
