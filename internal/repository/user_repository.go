package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propertyhub/internal/model"
)

// UserRepository defines persistence operations for the account directory.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	SaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error
	UnsaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error
	SavedPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return gormError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, gormError(err)
	}
	saved, err := r.SavedPropertyIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	user.SavedProperties = saved
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, gormError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("name", "email", "phone", "role", "avatar", "is_blocked").
		Updates(user)
	return gormError(res.Error)
}

func (r *userRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_blocked", blocked)
	return gormError(res.Error)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&model.SavedProperty{}, "user_id = ?", id).Error
	})
}

func (r *userRepository) SaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SavedProperty{UserID: userID, PropertyID: propertyID}).Error
}

func (r *userRepository) UnsaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&model.SavedProperty{}, "user_id = ? AND property_id = ?", userID, propertyID).Error
}

func (r *userRepository) SavedPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.SavedProperty{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
