package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"propertyhub/internal/model"
)

// ContactRepository defines persistence operations for contact requests.
type ContactRepository interface {
	// Create returns ErrDuplicate when the buyer already contacted the listing.
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	Exists(ctx context.Context, buyerID, propertyID uuid.UUID) (bool, error)
	// ListByParty returns contacts where the user is buyer or owner, newest first.
	ListByParty(ctx context.Context, userID uuid.UUID) ([]*model.Contact, error)
	ListAll(ctx context.Context) ([]*model.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository builds a GORM-backed repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return gormError(r.db.WithContext(ctx).Create(contact).Error)
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, gormError(err)
	}
	return &contact, nil
}

func (r *contactRepository) Exists(ctx context.Context, buyerID, propertyID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Contact{}).
		Where("buyer_id = ? AND property_id = ?", buyerID, propertyID).
		Count(&n).Error
	return n > 0, err
}

func (r *contactRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]*model.Contact, error) {
	var contacts []*model.Contact
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR owner_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	var contacts []*model.Contact
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Contact{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
