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

// ContactService mediates buyer-to-owner contact requests.
type ContactService interface {
	// Create records a contact and reveals the owner's contact details to the buyer.
	Create(ctx context.Context, actor model.Actor, propertyID uuid.UUID, message string) (*model.ContactReceipt, error)
	ListMine(ctx context.Context, actor model.Actor) ([]*model.Contact, error)
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Contact, error)
	Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type contactService struct {
	contactRepo  repository.ContactRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	publisher    events.Publisher
	log          *zap.Logger
}

// NewContactService creates a new contact mediator.
func NewContactService(
	contactRepo repository.ContactRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	log *zap.Logger,
) ContactService {
	return &contactService{
		contactRepo:  contactRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *contactService) Create(ctx context.Context, actor model.Actor, propertyID uuid.UUID, message string) (*model.ContactReceipt, error) {
	if !actor.Authenticated() || actor.Blocked {
		return nil, access.Authorize(actor, access.ActionCreateContact, access.Resource{}).Err()
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrPropertyNotFound)
	}
	// Hidden listings cannot be contacted by anyone, admins included.
	if !property.IsPublic() {
		return nil, apperrors.ErrPropertyNotFound
	}
	if property.OwnerID == actor.ID {
		return nil, apperrors.ErrOwnListing
	}
	if err := access.Authorize(actor, access.ActionCreateContact, access.ListingResource(property)).Err(); err != nil {
		return nil, err
	}

	exists, err := s.contactRepo.Exists(ctx, actor.ID, property.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("check contact: %w", err))
	}
	if exists {
		return nil, apperrors.ErrAlreadyContacted
	}

	owner, err := s.userRepo.FindByID(ctx, property.OwnerID)
	if err != nil {
		// A listing whose owner account was removed is not contactable.
		return nil, storeErr(err, apperrors.ErrPropertyNotFound)
	}

	contact, err := model.NewContact(actor.ID, property, message)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrAlreadyContacted
		}
		return nil, apperrors.Internal(fmt.Errorf("create contact: %w", err))
	}

	events.Emit(ctx, s.publisher, s.log, events.New(events.ContactCreated, contact.ID, actor.ID, map[string]interface{}{
		"property": contact.PropertyID.String(),
		"buyer":    contact.BuyerID.String(),
		"owner":    contact.OwnerID.String(),
	}))

	return &model.ContactReceipt{
		Contact: contact,
		OwnerDetails: model.OwnerDetails{
			Name:  owner.Name,
			Email: owner.Email,
			Phone: owner.Phone,
		},
	}, nil
}

func (s *contactService) ListMine(ctx context.Context, actor model.Actor) ([]*model.Contact, error) {
	if err := access.Authorize(actor, access.ActionListContacts, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	var (
		contacts []*model.Contact
		err      error
	)
	if actor.IsAdmin() {
		contacts, err = s.contactRepo.ListAll(ctx)
	} else {
		contacts, err = s.contactRepo.ListByParty(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list contacts: %w", err))
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return contacts, nil
}

func (s *contactService) load(ctx context.Context, actor model.Actor, id uuid.UUID, action access.Action) (*model.Contact, error) {
	// Anonymous and blocked actors are rejected before the lookup so they learn nothing.
	if !actor.Authenticated() || actor.Blocked {
		return nil, access.Authorize(actor, action, access.Resource{}).Err()
	}
	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, apperrors.ErrContactNotFound)
	}
	if err := access.Authorize(actor, action, access.ContactResource(contact)).Err(); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Contact, error) {
	return s.load(ctx, actor, id, access.ActionReadContact)
}

func (s *contactService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	contact, err := s.load(ctx, actor, id, access.ActionDeleteContact)
	if err != nil {
		return err
	}
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return storeErr(err, apperrors.ErrContactNotFound)
	}
	events.Emit(ctx, s.publisher, s.log, events.New(events.ContactDeleted, id, actor.ID, map[string]interface{}{
		"property": contact.PropertyID.String(),
	}))
	return nil
}
