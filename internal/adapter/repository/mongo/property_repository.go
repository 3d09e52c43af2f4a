package mongo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyRepository struct {
	coll *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{coll: db.Collection(propertiesCollection)}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	if _, err := r.coll.InsertOne(ctx, fromProperty(p)); err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, propertyID uuid.UUID) (*domain.Property, error) {
	var doc propertyDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": propertyID.String()}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
		}
		return nil, err
	}

	p, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func propertyQuery(filter domain.PropertyFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.OwnerID != nil {
		query["ownerId"] = filter.OwnerID.String()
	}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": idStrings(filter.IDs)}
	}
	if filter.Address != "" {
		query["address"] = bson.M{"$regex": regexp.QuoteMeta(filter.Address), "$options": "i"}
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if filter.Rooms > 0 {
		query["numberOfRooms"] = filter.Rooms
	}
	if filter.Type != "" {
		query["houseType"] = string(filter.Type)
	}
	return query
}

func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit)).SetSkip(int64(filter.Offset))
	}

	cursor, err := r.coll.Find(ctx, propertyQuery(filter), opts)
	if err != nil {
		return nil, err
	}

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	properties := make([]domain.Property, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}

	return properties, nil
}

func (r *PropertyRepository) Count(ctx context.Context, filter domain.PropertyFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, propertyQuery(filter))
}

func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": p.ID.String()},
		bson.M{"$set": bson.M{
			"address":       p.Address,
			"price":         p.Price,
			"numberOfRooms": p.Rooms,
			"houseType":     string(p.Type),
			"description":   p.Description,
			"imageUrl":      p.ImageURL,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("property %s: %w", p.ID, domain.ErrNotFound)
	}

	return nil
}

// TransitionStatus matches on both id and current status, so the update only
// lands when the property is still in expect.
func (r *PropertyRepository) TransitionStatus(ctx context.Context, propertyID uuid.UUID, expect, next domain.PropertyStatus) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": propertyID.String(), "status": string(expect)},
		bson.M{"$set": bson.M{"status": string(next)}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return missingOrConflict(ctx, r.coll, "property", propertyID, string(expect))
	}

	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, propertyID uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": propertyID.String()})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
	}

	return nil
}

// missingOrConflict tells a compare-and-set that matched nothing apart: the
// document is either gone or no longer in the expected status.
func missingOrConflict(ctx context.Context, coll *mongo.Collection, kind string, id uuid.UUID, expect string) error {
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id.String()}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s %s is no longer %s: %w", kind, id, expect, domain.ErrConflict)
}
