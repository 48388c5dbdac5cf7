package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propertyhub/internal/model"
)

type mongoContactRepository struct {
	col *mongo.Collection
}

// NewMongoContactRepository builds a MongoDB-backed contact repository. The unique
// (buyer, property) index from EnsureMongoIndexes rejects duplicates that slip past the existence check.
func NewMongoContactRepository(db *mongo.Database) ContactRepository {
	return &mongoContactRepository{col: db.Collection("contacts")}
}

func (r *mongoContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	_, err := r.col.InsertOne(ctx, newContactDocument(contact))
	return mongoError(err)
}

func (r *mongoContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var doc contactDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func (r *mongoContactRepository) Exists(ctx context.Context, buyerID, propertyID uuid.UUID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"buyer": buyerID.String(), "property": propertyID.String()},
		options.Count().SetLimit(1))
	return n > 0, err
}

func (r *mongoContactRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]*model.Contact, error) {
	id := userID.String()
	return r.list(ctx, bson.M{"$or": bson.A{bson.M{"buyer": id}, bson.M{"owner": id}}})
}

func (r *mongoContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoContactRepository) list(ctx context.Context, filter bson.M) ([]*model.Contact, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	contacts := []*model.Contact{}
	for cur.Next(ctx) {
		var doc contactDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		contacts = append(contacts, doc.toModel())
	}
	return contacts, cur.Err()
}

func (r *mongoContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
