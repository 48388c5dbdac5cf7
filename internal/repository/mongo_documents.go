package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"propertyhub/internal/model"
)

// Document shapes stored in MongoDB. Ids are uuid strings so both backends hand out the same ids.

type userDocument struct {
	ID              string     `bson:"_id"`
	Name            string     `bson:"name"`
	Email           string     `bson:"email"`
	Phone           string     `bson:"phone"`
	PasswordHash    string     `bson:"passwordHash"`
	Role            string     `bson:"role"`
	Avatar          string     `bson:"avatar,omitempty"`
	IsBlocked       bool       `bson:"isBlocked"`
	SavedProperties []string   `bson:"savedProperties"`
	LastLogin       *time.Time `bson:"lastLogin,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
}

func newUserDocument(u *model.User) userDocument {
	saved := make([]string, 0, len(u.SavedProperties))
	for _, id := range u.SavedProperties {
		saved = append(saved, id.String())
	}
	return userDocument{
		ID:              u.ID.String(),
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		Avatar:          u.Avatar,
		IsBlocked:       u.IsBlocked,
		SavedProperties: saved,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d userDocument) toModel() *model.User {
	return &model.User{
		ID:              parseID(d.ID),
		Name:            d.Name,
		Email:           d.Email,
		Phone:           d.Phone,
		PasswordHash:    d.PasswordHash,
		Role:            model.Role(d.Role),
		Avatar:          d.Avatar,
		IsBlocked:       d.IsBlocked,
		SavedProperties: parseIDs(d.SavedProperties),
		LastLogin:       d.LastLogin,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type propertyDocument struct {
	ID           string               `bson:"_id"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	Purpose      string               `bson:"purpose"`
	PropertyType string               `bson:"propertyType"`
	Price        primitive.Decimal128 `bson:"price"`
	Area         model.Area           `bson:"area"`
	Bedrooms     int                  `bson:"bedrooms"`
	Bathrooms    int                  `bson:"bathrooms"`
	Furnishing   string               `bson:"furnishing,omitempty"`
	Address      model.Address        `bson:"address"`
	Images       []string             `bson:"images"`
	OwnerID      string               `bson:"owner"`
	Views        int64                `bson:"views"`
	IsActive     bool                 `bson:"isActive"`
	IsFlagged    bool                 `bson:"isFlagged"`
	FlagReason   string               `bson:"flagReason"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func newPropertyDocument(p *model.Property) (propertyDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return propertyDocument{}, err
	}
	return propertyDocument{
		ID:           p.ID.String(),
		Title:        p.Title,
		Description:  p.Description,
		Purpose:      string(p.Purpose),
		PropertyType: string(p.PropertyType),
		Price:        price,
		Area:         p.Area,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Furnishing:   string(p.Furnishing),
		Address:      p.Address,
		Images:       append([]string{}, p.Images...),
		OwnerID:      p.OwnerID.String(),
		Views:        p.Views,
		IsActive:     p.IsActive,
		IsFlagged:    p.IsFlagged,
		FlagReason:   p.FlagReason,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

func (d propertyDocument) toModel() *model.Property {
	price, _ := decimal.NewFromString(d.Price.String())
	return &model.Property{
		ID:           parseID(d.ID),
		Title:        d.Title,
		Description:  d.Description,
		Purpose:      model.Purpose(d.Purpose),
		PropertyType: model.PropertyType(d.PropertyType),
		Price:        price,
		Area:         d.Area,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Furnishing:   model.Furnishing(d.Furnishing),
		Address:      d.Address,
		Images:       d.Images,
		OwnerID:      parseID(d.OwnerID),
		Views:        d.Views,
		IsActive:     d.IsActive,
		IsFlagged:    d.IsFlagged,
		FlagReason:   d.FlagReason,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type contactDocument struct {
	ID         string    `bson:"_id"`
	PropertyID string    `bson:"property"`
	BuyerID    string    `bson:"buyer"`
	OwnerID    string    `bson:"owner"`
	Message    string    `bson:"message"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func newContactDocument(c *model.Contact) contactDocument {
	return contactDocument{
		ID:         c.ID.String(),
		PropertyID: c.PropertyID.String(),
		BuyerID:    c.BuyerID.String(),
		OwnerID:    c.OwnerID.String(),
		Message:    c.Message,
		CreatedAt:  c.CreatedAt,
	}
}

func (d contactDocument) toModel() *model.Contact {
	return &model.Contact{
		ID:         parseID(d.ID),
		PropertyID: parseID(d.PropertyID),
		BuyerID:    parseID(d.BuyerID),
		OwnerID:    parseID(d.OwnerID),
		Message:    d.Message,
		CreatedAt:  d.CreatedAt,
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func parseIDs(ss []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
