package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if _, err := r.coll.InsertOne(ctx, fromBooking(booking)); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	var doc bookingDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": bookingID.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
		}
		return nil, err
	}

	booking, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	query := bson.M{}
	if filter.CustomerID != nil {
		query["customerId"] = filter.CustomerID.String()
	}
	if property := idMatch(filter.PropertyID, filter.PropertyIDs); property != nil {
		query["propertyId"] = property
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

// TransitionStatus is a compare-and-set on the booking status. The
// one_approved_per_property index rejects a second approved booking on the
// same property.
func (r *BookingRepository) TransitionStatus(ctx context.Context, bookingID uuid.UUID, expect, next domain.BookingStatus, endDate *time.Time) (*domain.Booking, error) {
	set := bson.M{"status": string(next)}
	if endDate != nil {
		set["endDate"] = *endDate
	}

	var doc bookingDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": bookingID.String(), "status": string(expect)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, missingOrConflict(ctx, r.coll, "booking", bookingID, string(expect))
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("booking %s: property already has an approved booking: %w", bookingID, domain.ErrConflict)
		}
		return nil, err
	}

	booking, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
