package domain

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyBooked      PropertyStatus = "booked"
	PropertyMaintenance PropertyStatus = "maintenance"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyAvailable, PropertyBooked, PropertyMaintenance:
		return true
	}
	return false
}

type PropertyType string

const (
	PropertyApartment   PropertyType = "apartment"
	PropertyVilla       PropertyType = "villa"
	PropertySingleHouse PropertyType = "single house"
	PropertyOther       PropertyType = "other"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyApartment, PropertyVilla, PropertySingleHouse, PropertyOther:
		return true
	}
	return false
}

type Property struct {
	ID          uuid.UUID      `json:"id"`
	Address     string         `json:"address"`
	Price       float64        `json:"price"`
	Rooms       int            `json:"number_of_rooms"`
	Type        PropertyType   `json:"house_type"`
	Description string         `json:"description,omitempty"`
	OwnerID     uuid.UUID      `json:"owner_id"`
	Status      PropertyStatus `json:"status"`
	ImageURL    string         `json:"image_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (p *Property) IsAvailable() bool {
	return p.Status == PropertyAvailable
}

func (p *Property) IsOwnedBy(ownerID uuid.UUID) bool {
	return p.OwnerID == ownerID
}

// PropertyFilter narrows a property query. Zero fields do not filter; a
// zero Limit means no limit.
type PropertyFilter struct {
	Status   PropertyStatus
	OwnerID  *uuid.UUID
	IDs      []uuid.UUID
	Address  string
	MinPrice *float64
	MaxPrice *float64
	Rooms    int
	Type     PropertyType
	Limit    int
	Offset   int
}

// PropertyPage is one page of a property search.
type PropertyPage struct {
	Houses []Property `json:"houses"`
	Page   int        `json:"page"`
	Pages  int        `json:"pages"`
	Total  int64      `json:"total"`
}
