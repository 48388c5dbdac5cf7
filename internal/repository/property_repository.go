package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propertyhub/internal/model"
)

// PropertyRepository defines persistence operations for the listing store.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Property, error)
	Search(ctx context.Context, q model.ListingQuery) ([]*model.Property, int64, error)
	// UpdateContent writes only the owner-editable columns.
	UpdateContent(ctx context.Context, property *model.Property) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetFlag(ctx context.Context, id uuid.UUID, flagged bool, reason string) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// contentColumns are the storage columns behind model.PropertyPatch.
var contentColumns = []string{
	"title", "description", "price",
	"area_size", "area_unit",
	"bedrooms", "bathrooms", "furnishing", "images",
	"address_city", "address_state", "address_locality", "address_pincode",
}

// updateColumns include updated_at so a matched row always counts as affected.
var updateColumns = append([]string{"updated_at"}, contentColumns...)

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository builds a GORM-backed repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return gormError(r.db.WithContext(ctx).Create(property).Error)
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		return nil, gormError(err)
	}
	return &property, nil
}

// FindByIDs returns the listings that still exist, in the order of ids.
func (r *propertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Property, error) {
	if len(ids) == 0 {
		return []*model.Property{}, nil
	}
	var rows []*model.Property
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return orderByIDs(rows, ids), nil
}

func (r *propertyRepository) Search(ctx context.Context, q model.ListingQuery) ([]*model.Property, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Property{})
	if !q.IncludeHidden {
		tx = tx.Where("is_active = ? AND is_flagged = ?", true, false)
	}
	if q.OwnerID != uuid.Nil {
		tx = tx.Where("owner_id = ?", q.OwnerID)
	}
	if q.Search != "" {
		like := likePattern(q.Search)
		tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(address_locality) LIKE ? ESCAPE '!')",
			like, like, like)
	}
	if q.City != "" {
		tx = tx.Where("LOWER(address_city) LIKE ? ESCAPE '!'", likePattern(q.City))
	}
	if q.Purpose != "" {
		tx = tx.Where("purpose = ?", q.Purpose)
	}
	if q.PropertyType != "" {
		tx = tx.Where("property_type = ?", q.PropertyType)
	}
	if q.Furnishing != "" {
		tx = tx.Where("furnishing = ?", q.Furnishing)
	}
	if q.Bedrooms != nil {
		tx = tx.Where("bedrooms = ?", *q.Bedrooms)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	base := tx.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := q.Order()
	var rows []*model.Property
	err := base.
		Order(clause.OrderByColumn{Column: clause.Column{Name: order.Column()}, Desc: order.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: order.Desc}).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *propertyRepository) UpdateContent(ctx context.Context, property *model.Property) error {
	res := r.db.WithContext(ctx).Model(property).Where("is_active = ?", true).
		Select(updateColumns).Updates(property)
	if res.Error != nil {
		return gormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInactive
	}
	return nil
}

func (r *propertyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.Property{}).Where("id = ?", id).Update("is_active", active)
	return gormError(res.Error)
}

func (r *propertyRepository) SetFlag(ctx context.Context, id uuid.UUID, flagged bool, reason string) error {
	res := r.db.WithContext(ctx).Model(&model.Property{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_flagged": flagged, "flag_reason": reason})
	return gormError(res.Error)
}

// IncrementViews bumps the counter in the store so concurrent reads do not lose increments.
func (r *propertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Property{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func orderByIDs(rows []*model.Property, ids []uuid.UUID) []*model.Property {
	byID := make(map[uuid.UUID]*model.Property, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]*model.Property, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
