package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"propertyhub/internal/access"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/events"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

// PropertyService implements the listing store transitions.
type PropertyService interface {
	Create(ctx context.Context, actor model.Actor, draft model.PropertyDraft) (*model.Property, error)
	// Get returns a listing and counts the view when it is publicly visible.
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Property, error)
	Search(ctx context.Context, actor model.Actor, q model.ListingQuery) (*model.PropertyPage, error)
	Mine(ctx context.Context, actor model.Actor, q model.ListingQuery) (*model.PropertyPage, error)
	ListAll(ctx context.Context, actor model.Actor, q model.ListingQuery) (*model.PropertyPage, error)
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, patch model.PropertyPatch) (*model.Property, error)
	// Delete deactivates the listing. Deleting an inactive listing is a no-op.
	Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	publisher    events.Publisher
	log          *zap.Logger
}

// NewPropertyService creates a new listing service.
func NewPropertyService(propertyRepo repository.PropertyRepository, publisher events.Publisher, log *zap.Logger) PropertyService {
	return &propertyService{propertyRepo: propertyRepo, publisher: publisher, log: log}
}

func (s *propertyService) Create(ctx context.Context, actor model.Actor, draft model.PropertyDraft) (*model.Property, error) {
	if err := access.Authorize(actor, access.ActionCreateListing, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	property, err := model.NewProperty(actor.ID, draft)
	if err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create property: %w", err))
	}
	return property, nil
}

func (s *propertyService) load(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrPropertyNotFound)
	}
	return property, nil
}

func (s *propertyService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Property, error) {
	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionViewListing, access.ListingResource(property)).Err(); err != nil {
		return nil, err
	}
	if property.IsPublic() {
		if err := s.propertyRepo.IncrementViews(ctx, property.ID); err != nil {
			// The counter is best-effort; the read still succeeds.
			s.log.Warn("increment views failed", zap.String("property_id", id.String()), zap.Error(err))
		} else {
			property.Views++
		}
	}
	return property, nil
}

func (s *propertyService) Search(ctx context.Context, actor model.Actor, q model.ListingQuery) (*model.PropertyPage, error) {
	if err := access.Authorize(actor, access.ActionSearchListing, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	q.OwnerID = uuid.Nil
	q.IncludeHidden = false
	return s.page(ctx, q)
}

func (s *propertyService) Mine(ctx context.Context, actor model.Actor, q model.ListingQuery) (*model.PropertyPage, error) {
	if err := access.Authorize(actor, access.ActionListOwn, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	q.OwnerID = actor.ID
	q.IncludeHidden = true
	return s.page(ctx, q)
}

func (s *propertyService) ListAll(ctx context.Context, actor model.Actor, q model.ListingQuery) (*model.PropertyPage, error) {
	if err := access.Authorize(actor, access.ActionListAllListings, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	q.OwnerID = uuid.Nil
	q.IncludeHidden = true
	return s.page(ctx, q)
}

func (s *propertyService) page(ctx context.Context, q model.ListingQuery) (*model.PropertyPage, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	rows, total, err := s.propertyRepo.Search(ctx, q)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("search properties: %w", err))
	}
	if rows == nil {
		rows = []*model.Property{}
	}
	return &model.PropertyPage{
		Properties: rows,
		Pagination: model.NewPagination(total, q.Page, q.Limit),
	}, nil
}

func (s *propertyService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, patch model.PropertyPatch) (*model.Property, error) {
	property, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionUpdateListing, access.ListingResource(property)).Err(); err != nil {
		return nil, err
	}
	if !property.IsActive {
		return nil, apperrors.ErrListingInactive
	}

	next, err := property.Merge(patch)
	if err != nil {
		return nil, err
	}
	if err := s.propertyRepo.UpdateContent(ctx, next); err != nil {
		// A soft delete may land between the load and the write.
		if errors.Is(err, repository.ErrInactive) {
			return nil, apperrors.ErrListingInactive
		}
		return nil, storeErr(err, apperrors.ErrPropertyNotFound)
	}
	return next, nil
}

func (s *propertyService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	property, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionDeleteListing, access.ListingResource(property)).Err(); err != nil {
		return err
	}
	if !property.IsActive {
		return nil
	}
	if err := s.propertyRepo.SetActive(ctx, id, false); err != nil {
		return storeErr(err, apperrors.ErrPropertyNotFound)
	}
	events.Emit(ctx, s.publisher, s.log, events.New(events.PropertyDeleted, id, actor.ID, map[string]interface{}{
		"owner": property.OwnerID.String(),
	}))
	return nil
}
