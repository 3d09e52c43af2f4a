package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type FavoriteService struct {
	customerRepo ports.CustomerRepository
	propertyRepo ports.PropertyRepository
	log          logger.Logger
}

func NewFavoriteService(customerRepo ports.CustomerRepository, propertyRepo ports.PropertyRepository, log logger.Logger) *FavoriteService {
	return &FavoriteService{
		customerRepo: customerRepo,
		propertyRepo: propertyRepo,
		log:          log,
	}
}

// ToggleFavorite adds the house to the customer's favorites if absent and
// removes it if present. The membership test happens inside the store's
// single atomic update, so concurrent toggles never both see "absent".
func (s *FavoriteService) ToggleFavorite(ctx context.Context, customerID uuid.UUID, propertyID string) (*domain.FavoriteSet, bool, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, false, domain.NotFound("house %q not found", propertyID)
	}

	set, added, err := s.customerRepo.ToggleFavorite(ctx, customerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.NotFound("customer %s not found", customerID)
		}
		return nil, false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	s.log.Debug("favorite %s for customer %s: added=%t, count=%d", id, customerID, added, len(set.PropertyIDs))

	return set, added, nil
}

// ListFavorites resolves the customer's favorite houses. Ids whose house
// has been deleted are skipped rather than pruned.
func (s *FavoriteService) ListFavorites(ctx context.Context, customerID uuid.UUID) ([]domain.Property, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("customer %s not found", customerID)
		}
		return nil, fmt.Errorf("failed to load customer %s: %w", customerID, err)
	}

	if len(customer.Favorites) == 0 {
		return []domain.Property{}, nil
	}

	found, err := s.propertyRepo.List(ctx, domain.PropertyFilter{IDs: customer.Favorites})
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite houses: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	favorites := make([]domain.Property, 0, len(found))
	for _, id := range customer.Favorites {
		if p, ok := byID[id]; ok {
			favorites = append(favorites, p)
		}
	}

	return favorites, nil
}
