package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomerRepository struct {
	coll *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{coll: db.Collection(customersCollection)}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	doc := customerDocument{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		Email:     customer.Email,
		Favorites: idStrings(customer.Favorites),
		CreatedAt: customer.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("customer %s <%s>: %w", customer.ID, customer.Email, domain.ErrConflict)
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID uuid.UUID) (*domain.Customer, error) {
	var doc customerDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": customerID.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
		}
		return nil, err
	}

	c, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ToggleFavorite evaluates membership and rewrites the array in one
// pipeline update on the customer document.
func (r *CustomerRepository) ToggleFavorite(ctx context.Context, customerID, propertyID uuid.UUID) (*domain.FavoriteSet, bool, error) {
	var doc customerDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": customerID.String()},
		togglePipeline(propertyID.String()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, fmt.Errorf("customer %s: %w", customerID, domain.ErrNotFound)
		}
		return nil, false, err
	}

	c, err := doc.toDomain()
	if err != nil {
		return nil, false, err
	}

	set := &domain.FavoriteSet{CustomerID: c.ID, PropertyIDs: c.Favorites}
	return set, set.Contains(propertyID), nil
}

func togglePipeline(propertyID string) mongo.Pipeline {
	current := bson.D{{Key: "$ifNull", Value: bson.A{"$favorites", bson.A{}}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "favorites", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$in", Value: bson.A{propertyID, current}}},
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: current},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", propertyID}}}},
			}}},
			bson.D{{Key: "$concatArrays", Value: bson.A{current, bson.A{propertyID}}}},
		}}}}}}},
	}
}
