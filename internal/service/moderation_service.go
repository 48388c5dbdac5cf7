package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"propertyhub/internal/access"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/events"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

// ModerationService holds the admin-only toggles.
type ModerationService interface {
	// ToggleBlockUser flips the block flag. A blocked user fails authentication on the next request.
	ToggleBlockUser(ctx context.Context, actor model.Actor, userID uuid.UUID) (*model.User, error)
	// ToggleFlag flips the flagged bit. reason is required when flagging and cleared when unflagging.
	ToggleFlag(ctx context.Context, actor model.Actor, propertyID uuid.UUID, reason string) (*model.Property, error)
}

type moderationService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	publisher    events.Publisher
	log          *zap.Logger
}

// NewModerationService creates the moderation workflow.
func NewModerationService(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	publisher events.Publisher,
	log *zap.Logger,
) ModerationService {
	return &moderationService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *moderationService) ToggleBlockUser(ctx context.Context, actor model.Actor, userID uuid.UUID) (*model.User, error) {
	if err := access.Authorize(actor, access.ActionBlockUser, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrUserNotFound)
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.userRepo.SetBlocked(ctx, userID, user.IsBlocked); err != nil {
		return nil, storeErr(err, apperrors.ErrUserNotFound)
	}

	eventType := events.UserUnblocked
	if user.IsBlocked {
		eventType = events.UserBlocked
	}
	events.Emit(ctx, s.publisher, s.log, events.New(eventType, userID, actor.ID, nil))
	return user, nil
}

func (s *moderationService) ToggleFlag(ctx context.Context, actor model.Actor, propertyID uuid.UUID, reason string) (*model.Property, error) {
	if err := access.Authorize(actor, access.ActionFlagListing, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrPropertyNotFound)
	}

	reason = strings.TrimSpace(reason)
	if property.IsFlagged {
		property.IsFlagged, property.FlagReason = false, ""
	} else {
		if reason == "" {
			return nil, apperrors.ErrFlagReasonRequired
		}
		property.IsFlagged, property.FlagReason = true, reason
	}
	if err := s.propertyRepo.SetFlag(ctx, propertyID, property.IsFlagged, property.FlagReason); err != nil {
		return nil, storeErr(err, apperrors.ErrPropertyNotFound)
	}

	eventType := events.PropertyUnflagged
	payload := map[string]interface{}{"owner": property.OwnerID.String()}
	if property.IsFlagged {
		eventType = events.PropertyFlagged
		payload["reason"] = property.FlagReason
	}
	events.Emit(ctx, s.publisher, s.log, events.New(eventType, propertyID, actor.ID, payload))
	return property, nil
}
