package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account in the directory.
type User struct {
	ID              uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Name            string      `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Email           string      `json:"email" gorm:"uniqueIndex;size:255;not null" validate:"required,email"`
	Phone           string      `json:"phone" gorm:"size:32;not null" validate:"required,max=32"`
	PasswordHash    string      `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role            Role        `json:"role" gorm:"size:16;not null;index" validate:"required,oneof=user admin"`
	Avatar          string      `json:"avatar,omitempty" gorm:"size:512" validate:"omitempty,max=512"`
	IsBlocked       bool        `json:"isBlocked" gorm:"not null"`
	SavedProperties []uuid.UUID `json:"savedProperties" gorm:"-"`
	LastLogin       *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail lowercases and trims an email so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser builds a validated regular account.
func NewUser(name, email, phone, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		Phone:        strings.TrimSpace(phone),
		PasswordHash: passwordHash,
		Role:         RoleUser,
	}
	if err := Validate(u); err != nil {
		return nil, err
	}
	return u, nil
}

// HasSaved reports whether the property is in the user's saved set.
func (u *User) HasSaved(propertyID uuid.UUID) bool {
	for _, id := range u.SavedProperties {
		if id == propertyID {
			return true
		}
	}
	return false
}

// ProfilePatch holds the fields a user may change on their own account.
type ProfilePatch struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// UserPatch holds the fields an administrator may change on any account.
type UserPatch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      *Role   `json:"role"`
	IsBlocked *bool   `json:"isBlocked"`
	Avatar    *string `json:"avatar"`
}

// ApplyProfile returns a copy of u with the profile patch merged and validated.
func (u User) ApplyProfile(p ProfilePatch) (*User, error) {
	return u.Apply(UserPatch{Name: p.Name, Phone: p.Phone, Avatar: p.Avatar})
}

// Apply returns a copy of u with the admin patch merged and validated.
func (u User) Apply(p UserPatch) (*User, error) {
	next := u
	next.SavedProperties = append([]uuid.UUID(nil), u.SavedProperties...)
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		next.Email = NormalizeEmail(*p.Email)
	}
	if p.Phone != nil {
		next.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if p.IsBlocked != nil {
		next.IsBlocked = *p.IsBlocked
	}
	if p.Avatar != nil {
		next.Avatar = strings.TrimSpace(*p.Avatar)
	}
	if err := Validate(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// SavedProperty is the weak reference from a user to a listing they saved.
// No foreign key: removing the listing must not cascade into saved sets.
type SavedProperty struct {
	UserID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	PropertyID uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt  time.Time
}

// Actor is the identity performing an operation. The zero value is the anonymous actor.
type Actor struct {
	ID      uuid.UUID
	Role    Role
	Blocked bool
}

// Anonymous returns the public, unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

// ActorFromUser derives an actor from a stored account.
func ActorFromUser(u *User) Actor {
	return Actor{ID: u.ID, Role: u.Role, Blocked: u.IsBlocked}
}

// Authenticated reports whether the actor resolved to an account.
func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
