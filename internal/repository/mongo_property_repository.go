package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propertyhub/internal/model"
)

type mongoPropertyRepository struct {
	col *mongo.Collection
}

// NewMongoPropertyRepository builds a MongoDB-backed listing repository.
func NewMongoPropertyRepository(db *mongo.Database) PropertyRepository {
	return &mongoPropertyRepository{col: db.Collection("properties")}
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	now := time.Now().UTC()
	property.CreatedAt, property.UpdatedAt = now, now
	doc, err := newPropertyDocument(property)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, doc)
	return mongoError(err)
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func (r *mongoPropertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Property, error) {
	if len(ids) == 0 {
		return []*model.Property{}, nil
	}
	rows, err := r.find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}}, options.Find())
	if err != nil {
		return nil, err
	}
	return orderByIDs(rows, ids), nil
}

func (r *mongoPropertyRepository) Search(ctx context.Context, q model.ListingQuery) ([]*model.Property, int64, error) {
	filter, err := listingFilter(q)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	order := q.Order()
	dir := 1
	if order.Desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: order.Field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
	rows, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func listingFilter(q model.ListingQuery) (bson.M, error) {
	filter := bson.M{}
	if !q.IncludeHidden {
		filter["isActive"] = true
		filter["isFlagged"] = false
	}
	if q.OwnerID != uuid.Nil {
		filter["owner"] = q.OwnerID.String()
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"address.locality": re},
		}
	}
	if q.City != "" {
		filter["address.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.City), Options: "i"}
	}
	if q.Purpose != "" {
		filter["purpose"] = string(q.Purpose)
	}
	if q.PropertyType != "" {
		filter["propertyType"] = string(q.PropertyType)
	}
	if q.Furnishing != "" {
		filter["furnishing"] = string(q.Furnishing)
	}
	if q.Bedrooms != nil {
		filter["bedrooms"] = *q.Bedrooms
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			v, err := toDecimal128(*q.MinPrice)
			if err != nil {
				return nil, err
			}
			price["$gte"] = v
		}
		if q.MaxPrice != nil {
			v, err := toDecimal128(*q.MaxPrice)
			if err != nil {
				return nil, err
			}
			price["$lte"] = v
		}
		filter["price"] = price
	}
	return filter, nil
}

func (r *mongoPropertyRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Property, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []*model.Property{}
	for cur.Next(ctx) {
		var doc propertyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rows = append(rows, doc.toModel())
	}
	return rows, cur.Err()
}

func (r *mongoPropertyRepository) UpdateContent(ctx context.Context, property *model.Property) error {
	doc, err := newPropertyDocument(property)
	if err != nil {
		return err
	}
	property.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"price":       doc.Price,
		"area":        doc.Area,
		"bedrooms":    doc.Bedrooms,
		"bathrooms":   doc.Bathrooms,
		"furnishing":  doc.Furnishing,
		"images":      doc.Images,
		"address":     doc.Address,
		"updatedAt":   property.UpdatedAt,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": property.ID.String(), "isActive": true}, bson.M{"$set": set})
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrInactive
	}
	return nil
}

func (r *mongoPropertyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}})
}

func (r *mongoPropertyRepository) SetFlag(ctx context.Context, id uuid.UUID, flagged bool, reason string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"isFlagged":  flagged,
		"flagReason": reason,
		"updatedAt":  time.Now().UTC(),
	}})
}

func (r *mongoPropertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.updateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
}

func (r *mongoPropertyRepository) updateByID(ctx context.Context, id uuid.UUID, update bson.M) error {
	res, err := r.col.UpdateByID(ctx, id.String(), update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
