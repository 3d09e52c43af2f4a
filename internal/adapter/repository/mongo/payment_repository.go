package mongo

import (
	"context"
	"fmt"

	"github.com/srgjo27/house_rental/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentsCollection)}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if _, err := r.coll.InsertOne(ctx, fromPayment(payment)); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.Payment, error) {
	query := bson.M{}
	if booking := idMatch(filter.BookingID, filter.BookingIDs); booking != nil {
		query["bookingId"] = booking
	}
	if filter.CustomerID != nil {
		query["customerId"] = filter.CustomerID.String()
	}
	if filter.Status != "" {
		query["paymentStatus"] = string(filter.Status)
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "paymentDate", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var docs []paymentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, nil
}
