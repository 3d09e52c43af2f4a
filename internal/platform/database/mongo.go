package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func NewMongoDB(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	log.Printf("Connecting to MongoDB database %s...", name)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(name)
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Println("MongoDB connected successfully!")
	return client, db, nil
}

// mongoIndexes lists the indexes per collection. one_approved_per_property
// lets a property hold at most one approved booking.
func mongoIndexes() map[string][]mongo.IndexModel {
	oneApproved := options.Index().
		SetName("one_approved_per_property").
		SetUnique(true).
		SetPartialFilterExpression(bson.D{{Key: "status", Value: "approved"}})

	return map[string][]mongo.IndexModel{
		"properties": {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		},
		"bookings": {
			{Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "customerId", Value: 1}}},
			{Keys: bson.D{{Key: "propertyId", Value: 1}}, Options: oneApproved},
		},
		"payments": {
			{Keys: bson.D{{Key: "bookingId", Value: 1}}},
			{Keys: bson.D{{Key: "customerId", Value: 1}}},
		},
		"customers": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range mongoIndexes() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	return nil
}
