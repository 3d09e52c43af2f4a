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

type CreatePropertyRequest struct {
	Address     string  `json:"address" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	Rooms       int     `json:"number_of_rooms" validate:"gt=0"`
	Type        string  `json:"house_type" validate:"required,oneof=apartment villa 'single house' other"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	OwnerID     string  `json:"owner_id"`
}

// UpdatePropertyRequest changes only the fields it carries. Status is not
// part of it; availability moves through bookings and maintenance.
type UpdatePropertyRequest struct {
	Address     *string  `json:"address" validate:"omitnil,min=1"`
	Price       *float64 `json:"price" validate:"omitnil,gt=0"`
	Rooms       *int     `json:"number_of_rooms" validate:"omitnil,gt=0"`
	Type        *string  `json:"house_type" validate:"omitnil,oneof=apartment villa 'single house' other"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
	anyValue        = "all"
)

// PropertyQuery is the public house search. Status defaults to available;
// "all" lifts the status or type filter.
type PropertyQuery struct {
	Status    string   `form:"status"`
	OwnerID   string   `form:"owner_id"`
	Address   string   `form:"address"`
	MinPrice  *float64 `form:"min_price" validate:"omitnil,gte=0"`
	MaxPrice  *float64 `form:"max_price" validate:"omitnil,gte=0"`
	Rooms     int      `form:"rooms" validate:"gte=0"`
	HouseType string   `form:"house_type"`
	Page      int      `form:"page" validate:"gte=0"`
	Limit     int      `form:"limit" validate:"gte=0,lte=100"`
}

type PropertyService struct {
	propertyRepo ports.PropertyRepository
	cache        ports.PropertyCache
	sync         *PropertySync
	log          logger.Logger
}

func NewPropertyService(propertyRepo ports.PropertyRepository, cache ports.PropertyCache, sync *PropertySync, log logger.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		cache:        cache,
		sync:         sync,
		log:          log,
	}
}

// CreateProperty lists a new house. Landlords always own what they create;
// staff must name the owner.
func (s *PropertyService) CreateProperty(ctx context.Context, caller domain.Principal, req CreatePropertyRequest) (*domain.Property, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var ownerID uuid.UUID
	switch {
	case caller.Role == domain.RoleLandlord:
		ownerID = caller.ID
	case caller.IsStaff():
		id, err := parseID("owner id", req.OwnerID)
		if err != nil {
			return nil, err
		}
		ownerID = id
	default:
		return nil, domain.Unauthorized("role %q may not list houses", caller.Role)
	}

	property := &domain.Property{
		ID:          uuid.New(),
		Address:     req.Address,
		Price:       req.Price,
		Rooms:       req.Rooms,
		Type:        domain.PropertyType(req.Type),
		Description: req.Description,
		OwnerID:     ownerID,
		Status:      domain.PropertyAvailable,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create house: %w", err)
	}

	s.sync.publish(ctx, ports.PropertyCreated, property.ID)

	return property, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	id, err := parseID("house id", propertyID)
	if err != nil {
		return nil, err
	}

	cached, generation, ok := s.cache.Get(ctx, id)
	if ok {
		return cached, nil
	}

	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, generation, property)
	return property, nil
}

// ListProperties searches houses newest first. Only the unfiltered first
// page of available houses is cached.
func (s *PropertyService) ListProperties(ctx context.Context, q PropertyQuery) (*domain.PropertyPage, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}

	cacheable := frontPage(filter)
	generation := int64(-1)
	if cacheable {
		cached, observed, ok := s.cache.GetAvailable(ctx)
		if ok {
			return cached, nil
		}
		generation = observed
	}

	houses, err := s.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}

	total, err := s.propertyRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count houses: %w", err)
	}

	page := &domain.PropertyPage{
		Houses: houses,
		Page:   filter.Offset/filter.Limit + 1,
		Pages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Total:  total,
	}

	if cacheable {
		s.cache.SetAvailable(ctx, generation, page)
	}

	return page, nil
}

// frontPage reports whether filter is the default available listing.
func frontPage(f domain.PropertyFilter) bool {
	return f.Status == domain.PropertyAvailable && f.OwnerID == nil && f.IDs == nil &&
		f.Address == "" && f.MinPrice == nil && f.MaxPrice == nil && f.Rooms == 0 && f.Type == "" &&
		f.Limit == defaultPageSize && f.Offset == 0
}

func (q PropertyQuery) filter() (domain.PropertyFilter, error) {
	if err := validateRequest(q); err != nil {
		return domain.PropertyFilter{}, err
	}

	filter := domain.PropertyFilter{
		Status:   domain.PropertyAvailable,
		Address:  strings.TrimSpace(q.Address),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Rooms:    q.Rooms,
		Limit:    defaultPageSize,
	}

	switch q.Status {
	case "":
	case anyValue:
		filter.Status = ""
	default:
		status := domain.PropertyStatus(q.Status)
		if !status.IsValid() {
			return filter, domain.Validation("invalid house status: %q", q.Status)
		}
		filter.Status = status
	}

	if q.HouseType != "" && q.HouseType != anyValue {
		houseType := domain.PropertyType(q.HouseType)
		if !houseType.IsValid() {
			return filter, domain.Validation("invalid house type: %q", q.HouseType)
		}
		filter.Type = houseType
	}

	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return filter, domain.Validation("min price %.2f is above max price %.2f", *q.MinPrice, *q.MaxPrice)
	}

	if q.OwnerID != "" {
		ownerID, err := parseID("owner id", q.OwnerID)
		if err != nil {
			return filter, err
		}
		filter.OwnerID = &ownerID
	}

	if q.Limit > 0 {
		filter.Limit = min(q.Limit, maxPageSize)
	}
	if q.Page > 1 {
		filter.Offset = (q.Page - 1) * filter.Limit
	}

	return filter, nil
}

// UpdateProperty rewrites a house's listing details. Landlords may only edit
// their own houses.
func (s *PropertyService) UpdateProperty(ctx context.Context, propertyID string, caller domain.Principal, req UpdatePropertyRequest) (*domain.Property, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	id, err := parseID("house id", propertyID)
	if err != nil {
		return nil, err
	}

	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsStaff() && !(caller.Role == domain.RoleLandlord && property.IsOwnedBy(caller.ID)) {
		return nil, domain.Unauthorized("not authorized to edit house %s", id)
	}

	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.Rooms != nil {
		property.Rooms = *req.Rooms
	}
	if req.Type != nil {
		property.Type = domain.PropertyType(*req.Type)
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.ImageURL != nil {
		property.ImageURL = *req.ImageURL
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("house %s not found", id)
		}
		return nil, fmt.Errorf("failed to update house %s: %w", id, err)
	}

	s.sync.Changed(ctx, id)
	s.log.Info("house %s updated by %s", id, caller.ID)

	return property, nil
}

// SetMaintenance takes an available house off the market or puts a house in
// maintenance back on it. A booked house cannot enter maintenance.
func (s *PropertyService) SetMaintenance(ctx context.Context, propertyID string, on bool, caller domain.Principal) (*domain.Property, error) {
	id, err := parseID("house id", propertyID)
	if err != nil {
		return nil, err
	}

	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsStaff() && !(caller.Role == domain.RoleLandlord && property.IsOwnedBy(caller.ID)) {
		return nil, domain.Unauthorized("not authorized to manage house %s", id)
	}

	expect, next := domain.PropertyAvailable, domain.PropertyMaintenance
	if !on {
		expect, next = domain.PropertyMaintenance, domain.PropertyAvailable
	}

	if err := s.propertyRepo.TransitionStatus(ctx, id, expect, next); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, domain.Conflict("house %s is not %s", id, expect)
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound("house %s not found", id)
		}
		return nil, fmt.Errorf("failed to update house %s: %w", id, err)
	}

	s.sync.Changed(ctx, id)
	s.log.Info("house %s moved %s -> %s by %s", id, expect, next, caller.ID)

	property.Status = next
	return property, nil
}

// DeleteProperty removes a house regardless of its booking history. Bookings
// keep their reference; favorites drop it at read time.
func (s *PropertyService) DeleteProperty(ctx context.Context, propertyID string, caller domain.Principal) error {
	if caller.Role != domain.RoleAdmin {
		return domain.Unauthorized("only admins may delete houses")
	}

	id, err := parseID("house id", propertyID)
	if err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("house %s not found", id)
		}
		return fmt.Errorf("failed to delete house %s: %w", id, err)
	}

	s.sync.publish(ctx, ports.PropertyDeleted, id)
	s.log.Info("house %s deleted by %s", id, caller.ID)

	return nil
}

func (s *PropertyService) load(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("house %s not found", id)
		}
		return nil, fmt.Errorf("failed to load house %s: %w", id, err)
	}
	return property, nil
}
