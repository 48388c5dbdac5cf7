package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propertyhub/internal/model"
)

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed user repository.
// Email uniqueness relies on the index from EnsureMongoIndexes.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{col: db.Collection("users")}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, newUserDocument(user))
	return mongoError(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return doc.toModel(), nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []model.User{}
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, *doc.toModel())
	}
	return users, cur.Err()
}

func (r *mongoUserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"role":      string(user.Role),
		"avatar":    user.Avatar,
		"isBlocked": user.IsBlocked,
		"updatedAt": user.UpdatedAt,
	}
	return r.updateByID(ctx, user.ID, bson.M{"$set": set})
}

func (r *mongoUserRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"isBlocked": blocked, "updatedAt": time.Now().UTC()}})
}

func (r *mongoUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"lastLogin": at}})
}

func (r *mongoUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) SaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error {
	return r.updateByID(ctx, userID, bson.M{"$addToSet": bson.M{"savedProperties": propertyID.String()}})
}

func (r *mongoUserRepository) UnsaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error {
	return r.updateByID(ctx, userID, bson.M{"$pull": bson.M{"savedProperties": propertyID.String()}})
}

func (r *mongoUserRepository) SavedPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var doc userDocument
	opts := options.FindOne().SetProjection(bson.M{"savedProperties": 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": userID.String()}, opts).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	return parseIDs(doc.SavedProperties), nil
}

func (r *mongoUserRepository) updateByID(ctx context.Context, id uuid.UUID, update bson.M) error {
	res, err := r.col.UpdateByID(ctx, id.String(), update)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
