package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "propertyhub/internal/errors"
)

// Purpose is why a property is listed.
type Purpose string

const (
	PurposeSell Purpose = "sell"
	PurposeRent Purpose = "rent"
)

// PropertyType is the kind of real estate.
type PropertyType string

const (
	PropertyTypeFlat   PropertyType = "flat"
	PropertyTypeHouse  PropertyType = "house"
	PropertyTypePlot   PropertyType = "plot"
	PropertyTypeShop   PropertyType = "shop"
	PropertyTypeOffice PropertyType = "office"
)

// Furnishing describes how furnished a property is.
type Furnishing string

const (
	FurnishingFurnished     Furnishing = "furnished"
	FurnishingSemiFurnished Furnishing = "semi-furnished"
	FurnishingUnfurnished   Furnishing = "unfurnished"
)

const defaultAreaUnit = "sqft"

// Area is the size of a property with its unit.
type Area struct {
	Size float64 `json:"size" gorm:"column:size" validate:"gte=0"`
	Unit string  `json:"unit" gorm:"column:unit;size:16"`
}

// Address is the structured location of a property.
type Address struct {
	City     string `json:"city" gorm:"column:city;size:128;index"`
	State    string `json:"state" gorm:"column:state;size:128"`
	Locality string `json:"locality" gorm:"column:locality;size:255"`
	Pincode  string `json:"pincode" gorm:"column:pincode;size:16"`
}

// Property represents a listing in the store.
type Property struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string          `json:"title" gorm:"size:255;not null;index" validate:"required,max=255"`
	Description  string          `json:"description" gorm:"type:text" validate:"max=10000"`
	Purpose      Purpose         `json:"purpose" gorm:"size:8;not null;index" validate:"required,oneof=sell rent"`
	PropertyType PropertyType    `json:"propertyType" gorm:"size:16;not null;index" validate:"required,oneof=flat house plot shop office"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;index"`
	Area         Area            `json:"area" gorm:"embedded;embeddedPrefix:area_"`
	Bedrooms     int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int             `json:"bathrooms" validate:"gte=0"`
	Furnishing   Furnishing      `json:"furnishing,omitempty" gorm:"size:16" validate:"omitempty,oneof=furnished semi-furnished unfurnished"`
	Address      Address         `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Images       []string        `json:"images" gorm:"serializer:json;type:text" validate:"max=15,dive,required"`
	OwnerID      uuid.UUID       `json:"owner" gorm:"type:char(36);not null;index"`
	Views        int64           `json:"views" gorm:"not null"`
	IsActive     bool            `json:"isActive" gorm:"not null;index"`
	IsFlagged    bool            `json:"isFlagged" gorm:"not null;index"`
	FlagReason   string          `json:"flagReason,omitempty" gorm:"size:512"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsPublic reports whether the listing is visible to everyone.
func (p *Property) IsPublic() bool {
	return p.IsActive && !p.IsFlagged
}

// Validate runs construction-time checks on the record.
func (p *Property) Validate() error {
	if err := Validate(p); err != nil {
		return err
	}
	if p.Price.IsNegative() {
		return apperrors.InvalidInput("price must be at least 0")
	}
	if p.OwnerID == uuid.Nil {
		return apperrors.InvalidInput("owner is required")
	}
	return nil
}

// PropertyDraft is the caller-supplied content of a new listing.
type PropertyDraft struct {
	Title        string           `json:"title" validate:"required"`
	Description  string           `json:"description"`
	Purpose      Purpose          `json:"purpose" validate:"required"`
	PropertyType PropertyType     `json:"propertyType" validate:"required"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Area         Area             `json:"area"`
	Bedrooms     int              `json:"bedrooms"`
	Bathrooms    int              `json:"bathrooms"`
	Furnishing   Furnishing       `json:"furnishing"`
	Address      Address          `json:"address"`
	Images       []string         `json:"images"`
}

// NewProperty builds an active, unflagged listing owned by ownerID.
func NewProperty(ownerID uuid.UUID, d PropertyDraft) (*Property, error) {
	if d.Price == nil {
		return nil, apperrors.InvalidInput("price is required")
	}
	p := &Property{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(d.Title),
		Description:  strings.TrimSpace(d.Description),
		Purpose:      d.Purpose,
		PropertyType: d.PropertyType,
		Price:        *d.Price,
		Area:         normalizeArea(d.Area),
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Furnishing:   d.Furnishing,
		Address:      normalizeAddress(d.Address),
		Images:       append([]string{}, d.Images...),
		OwnerID:      ownerID,
		IsActive:     true,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// PropertyPatch lists the only fields an owner may change. Anything else a caller sends is
// never decoded into it.
type PropertyPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Area        *Area            `json:"area"`
	Bedrooms    *int             `json:"bedrooms"`
	Bathrooms   *int             `json:"bathrooms"`
	Furnishing  *Furnishing      `json:"furnishing"`
	Images      *[]string        `json:"images"`
	Address     *Address         `json:"address"`
}

// Merge returns a new validated record with the patch applied to p.
func (p Property) Merge(patch PropertyPatch) (*Property, error) {
	next := p
	next.Images = append([]string{}, p.Images...)
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.Area != nil {
		next.Area = normalizeArea(*patch.Area)
	}
	if patch.Bedrooms != nil {
		next.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		next.Bathrooms = *patch.Bathrooms
	}
	if patch.Furnishing != nil {
		next.Furnishing = *patch.Furnishing
	}
	if patch.Images != nil {
		next.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.Address != nil {
		next.Address = normalizeAddress(*patch.Address)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func normalizeArea(a Area) Area {
	a.Unit = strings.TrimSpace(a.Unit)
	if a.Unit == "" {
		a.Unit = defaultAreaUnit
	}
	return a
}

func normalizeAddress(a Address) Address {
	return Address{
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Locality: strings.TrimSpace(a.Locality),
		Pincode:  strings.TrimSpace(a.Pincode),
	}
}
