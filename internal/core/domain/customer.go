package domain

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Favorites []uuid.UUID `json:"favorites"`
	CreatedAt time.Time   `json:"created_at"`
}

type FavoriteSet struct {
	CustomerID  uuid.UUID   `json:"customer_id"`
	PropertyIDs []uuid.UUID `json:"favorites"`
}

func (f FavoriteSet) Contains(propertyID uuid.UUID) bool {
	for _, id := range f.PropertyIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}
