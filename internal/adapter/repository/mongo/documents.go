package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	propertiesCollection = "properties"
	bookingsCollection   = "bookings"
	paymentsCollection   = "payments"
	customersCollection  = "customers"
)

// Documents keep uuids as strings so ids read the same in the shell as on the API.

type propertyDocument struct {
	ID          string    `bson:"_id"`
	Address     string    `bson:"address"`
	Price       float64   `bson:"price"`
	Rooms       int       `bson:"numberOfRooms"`
	Type        string    `bson:"houseType"`
	Description string    `bson:"description,omitempty"`
	OwnerID     string    `bson:"ownerId"`
	Status      string    `bson:"status"`
	ImageURL    string    `bson:"imageUrl,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type bookingDocument struct {
	ID         string     `bson:"_id"`
	CustomerID string     `bson:"customerId"`
	PropertyID string     `bson:"propertyId"`
	BookedAt   time.Time  `bson:"bookingDate"`
	StartDate  time.Time  `bson:"startDate"`
	EndDate    *time.Time `bson:"endDate,omitempty"`
	Status     string     `bson:"status"`
}

type paymentDocument struct {
	ID         string    `bson:"_id"`
	BookingID  string    `bson:"bookingId"`
	CustomerID string    `bson:"customerId"`
	Amount     float64   `bson:"amount"`
	Method     string    `bson:"paymentMethod"`
	Status     string    `bson:"paymentStatus"`
	PaidAt     time.Time `bson:"paymentDate"`
}

type customerDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Favorites []string  `bson:"favorites"`
	CreatedAt time.Time `bson:"createdAt"`
}

func fromProperty(p *domain.Property) propertyDocument {
	return propertyDocument{
		ID:          p.ID.String(),
		Address:     p.Address,
		Price:       p.Price,
		Rooms:       p.Rooms,
		Type:        string(p.Type),
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		Status:      string(p.Status),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

func (d propertyDocument) toDomain() (domain.Property, error) {
	ids, err := parseIDs(d.ID, d.OwnerID)
	if err != nil {
		return domain.Property{}, fmt.Errorf("property document %s: %w", d.ID, err)
	}
	return domain.Property{
		ID:          ids[0],
		Address:     d.Address,
		Price:       d.Price,
		Rooms:       d.Rooms,
		Type:        domain.PropertyType(d.Type),
		Description: d.Description,
		OwnerID:     ids[1],
		Status:      domain.PropertyStatus(d.Status),
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func fromBooking(b *domain.Booking) bookingDocument {
	return bookingDocument{
		ID:         b.ID.String(),
		CustomerID: b.CustomerID.String(),
		PropertyID: b.PropertyID.String(),
		BookedAt:   b.BookedAt,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Status:     string(b.Status),
	}
}

func (d bookingDocument) toDomain() (domain.Booking, error) {
	ids, err := parseIDs(d.ID, d.CustomerID, d.PropertyID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("booking document %s: %w", d.ID, err)
	}
	return domain.Booking{
		ID:         ids[0],
		CustomerID: ids[1],
		PropertyID: ids[2],
		BookedAt:   d.BookedAt,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Status:     domain.BookingStatus(d.Status),
	}, nil
}

func fromPayment(p *domain.Payment) paymentDocument {
	return paymentDocument{
		ID:         p.ID.String(),
		BookingID:  p.BookingID.String(),
		CustomerID: p.CustomerID.String(),
		Amount:     p.Amount,
		Method:     string(p.Method),
		Status:     string(p.Status),
		PaidAt:     p.PaidAt,
	}
}

func (d paymentDocument) toDomain() (domain.Payment, error) {
	ids, err := parseIDs(d.ID, d.BookingID, d.CustomerID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payment document %s: %w", d.ID, err)
	}
	return domain.Payment{
		ID:         ids[0],
		BookingID:  ids[1],
		CustomerID: ids[2],
		Amount:     d.Amount,
		Method:     domain.PaymentMethod(d.Method),
		Status:     domain.PaymentStatus(d.Status),
		PaidAt:     d.PaidAt,
	}, nil
}

func (d customerDocument) toDomain() (domain.Customer, error) {
	ids, err := parseIDs(append([]string{d.ID}, d.Favorites...)...)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("customer document %s: %w", d.ID, err)
	}
	return domain.Customer{
		ID:        ids[0],
		Name:      d.Name,
		Email:     d.Email,
		Favorites: ids[1:],
		CreatedAt: d.CreatedAt,
	}, nil
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// idMatch combines an exact id and an id set into one field predicate.
func idMatch(id *uuid.UUID, ids []uuid.UUID) interface{} {
	switch {
	case id != nil && ids != nil:
		return bson.M{"$eq": id.String(), "$in": idStrings(ids)}
	case id != nil:
		return id.String()
	case ids != nil:
		return bson.M{"$in": idStrings(ids)}
	}
	return nil
}
