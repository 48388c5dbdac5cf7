package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const indexTimeout = 30 * time.Second

// mongoIndexes lists the indexes per collection. The unique ones are the store-level
// backstop against concurrent duplicate registrations and contacts.
var mongoIndexes = []struct {
	collection string
	models     []mongo.IndexModel
}{
	{"users", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}},
	{"properties", []mongo.IndexModel{
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "isFlagged", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "address.city", Value: 1}}},
	}},
	{"contacts", []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "property", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
	}},
}

// EnsureMongoIndexes creates every collection index. It fails if any index cannot be built,
// for example when existing documents already violate a unique key.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for _, idx := range mongoIndexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("create %s indexes: %w", idx.collection, err)
		}
	}
	return nil
}
