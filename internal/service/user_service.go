package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"propertyhub/internal/access"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

// Profile is a user with their saved listings dereferenced.
type Profile struct {
	*model.User
	Saved []*model.Property `json:"saved"`
}

// UserService exposes the account directory: self-service profile and saved listings,
// plus admin user management.
type UserService interface {
	Profile(ctx context.Context, actor model.Actor) (*Profile, error)
	UpdateProfile(ctx context.Context, actor model.Actor, patch model.ProfilePatch) (*model.User, error)
	// ToggleSaved saves a visible listing, or removes it when already saved. It returns the new state.
	ToggleSaved(ctx context.Context, actor model.Actor, propertyID uuid.UUID) (bool, error)
	SavedProperties(ctx context.Context, actor model.Actor) ([]*model.Property, error)

	ListUsers(ctx context.Context, actor model.Actor) ([]model.User, error)
	GetUser(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type userService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
}

// NewUserService builds a UserService with repositories.
func NewUserService(userRepo repository.UserRepository, propertyRepo repository.PropertyRepository) UserService {
	return &userService{userRepo: userRepo, propertyRepo: propertyRepo}
}

func (s *userService) load(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) Profile(ctx context.Context, actor model.Actor) (*Profile, error) {
	if err := access.Authorize(actor, access.ActionManageProfile, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	saved, err := s.visibleSaved(ctx, actor, user.SavedProperties)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Saved: saved}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor model.Actor, patch model.ProfilePatch) (*model.User, error) {
	if err := access.Authorize(actor, access.ActionManageProfile, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	next, err := user.ApplyProfile(patch)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *userService) ToggleSaved(ctx context.Context, actor model.Actor, propertyID uuid.UUID) (bool, error) {
	if err := access.Authorize(actor, access.ActionManageProfile, access.Resource{}).Err(); err != nil {
		return false, err
	}
	user, err := s.load(ctx, actor.ID)
	if err != nil {
		return false, err
	}

	// Unsaving never needs the listing, so dangling references can always be removed.
	if user.HasSaved(propertyID) {
		if err := s.userRepo.UnsaveProperty(ctx, actor.ID, propertyID); err != nil {
			return false, apperrors.Internal(fmt.Errorf("unsave property: %w", err))
		}
		return false, nil
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return false, storeErr(err, apperrors.ErrPropertyNotFound)
	}
	if err := access.Authorize(actor, access.ActionSaveListing, access.ListingResource(property)).Err(); err != nil {
		return false, err
	}
	if err := s.userRepo.SaveProperty(ctx, actor.ID, propertyID); err != nil {
		return false, apperrors.Internal(fmt.Errorf("save property: %w", err))
	}
	return true, nil
}

func (s *userService) SavedProperties(ctx context.Context, actor model.Actor) ([]*model.Property, error) {
	if err := access.Authorize(actor, access.ActionManageProfile, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	ids, err := s.userRepo.SavedPropertyIDs(ctx, actor.ID)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrUserNotFound)
	}
	return s.visibleSaved(ctx, actor, ids)
}

// visibleSaved dereferences saved ids, skipping listings that no longer exist or that the
// actor may not see.
func (s *userService) visibleSaved(ctx context.Context, actor model.Actor, ids []uuid.UUID) ([]*model.Property, error) {
	rows, err := s.propertyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("load saved properties: %w", err))
	}
	out := make([]*model.Property, 0, len(rows))
	for _, p := range rows {
		if access.Authorize(actor, access.ActionViewListing, access.ListingResource(p)).Allowed {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *userService) ListUsers(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list users: %w", err))
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	if err := access.Authorize(actor, access.ActionManageUsers, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := user.Apply(patch)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if err := access.Authorize(actor, access.ActionManageUsers, access.Resource{}).Err(); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return storeErr(err, apperrors.ErrUserNotFound)
	}
	return nil
}

func (s *userService) save(ctx context.Context, user *model.User) error {
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.ErrEmailTaken
		}
		return storeErr(err, apperrors.ErrUserNotFound)
	}
	return nil
}
