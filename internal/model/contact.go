package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a buyer's request to reach the owner of a listing.
// The (buyer, property) pair is unique; the index is the backstop for concurrent creates.
type Contact struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	PropertyID uuid.UUID `json:"property" gorm:"type:char(36);not null;uniqueIndex:idx_contact_buyer_property,priority:2"`
	BuyerID    uuid.UUID `json:"buyer" gorm:"type:char(36);not null;uniqueIndex:idx_contact_buyer_property,priority:1"`
	OwnerID    uuid.UUID `json:"owner" gorm:"type:char(36);not null;index"`
	Message    string    `json:"message" gorm:"type:text" validate:"max=2000"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewContact snapshots the listing's current owner into a new contact.
func NewContact(buyerID uuid.UUID, property *Property, message string) (*Contact, error) {
	c := &Contact{
		ID:         uuid.New(),
		PropertyID: property.ID,
		BuyerID:    buyerID,
		OwnerID:    property.OwnerID,
		Message:    strings.TrimSpace(message),
		CreatedAt:  time.Now().UTC(),
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// IsParty reports whether the user is the buyer or the addressed owner.
func (c *Contact) IsParty(userID uuid.UUID) bool {
	return c.BuyerID == userID || c.OwnerID == userID
}

// OwnerDetails is the owner contact data revealed to a buyer after contacting.
type OwnerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactReceipt is the result of a successful contact request.
type ContactReceipt struct {
	Contact      *Contact     `json:"contact"`
	OwnerDetails OwnerDetails `json:"ownerDetails"`
}
