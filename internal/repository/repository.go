package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInactive is returned when a write requires an active record.
	ErrInactive = errors.New("record is inactive")
)

// Repositories groups the stores a running service needs.
type Repositories struct {
	Users      UserRepository
	Properties PropertyRepository
	Contacts   ContactRepository
}

// NewGormRepositories builds the relational repositories.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Properties: NewPropertyRepository(db),
		Contacts:   NewContactRepository(db),
	}
}

// NewMongoRepositories builds the document-store repositories.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:      NewMongoUserRepository(db),
		Properties: NewMongoPropertyRepository(db),
		Contacts:   NewMongoContactRepository(db),
	}
}

// gormError normalises driver errors to the package sentinels.
func gormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	// Connections opened without TranslateError still surface the raw driver message.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry") {
		return ErrDuplicate
	}
	return err
}

func mongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

// likePattern builds a case-insensitive substring pattern escaped for "LIKE ? ESCAPE '!'".
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
