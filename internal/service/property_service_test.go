package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/events"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

func TestPropertyService_CreateAndUpdate(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	owner := storeUser(t, repos, "owner@x.com", model.RoleUser)
	other := storeUser(t, repos, "other@x.com", model.RoleUser)
	admin := storeUser(t, repos, "admin@x.com", model.RoleAdmin)
	svc := NewPropertyService(repos.Properties, events.NopPublisher{}, zap.NewNop())

	_, err := svc.Create(ctx, model.Anonymous(), testDraft("Flat", 100))
	assert.Equal(t, apperrors.ErrInvalidToken, err)

	created, err := svc.Create(ctx, owner, testDraft("Flat", 100))
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsFlagged)
	assert.Zero(t, created.Views)

	title := "Renovated flat"
	price := decimal.NewFromInt(250000)
	updated, err := svc.Update(ctx, owner, created.ID, model.PropertyPatch{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.True(t, got.Price.Equal(price))
	assert.Equal(t, owner.ID, got.OwnerID)

	_, err = svc.Update(ctx, other, created.ID, model.PropertyPatch{Title: &title})
	assert.Equal(t, apperrors.ErrNotAuthorized, err)
	_, err = svc.Update(ctx, admin, created.ID, model.PropertyPatch{Title: &title})
	assert.Equal(t, apperrors.ErrNotAuthorized, err)

	negative := decimal.NewFromInt(-1)
	_, err = svc.Update(ctx, owner, created.ID, model.PropertyPatch{Price: &negative})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestPropertyService_UpdateRacingSoftDelete(t *testing.T) {
	owner := model.Actor{ID: uuid.New(), Role: model.RoleUser}
	p, err := model.NewProperty(owner.ID, testDraft("Flat", 100))
	require.NoError(t, err)

	repo := new(MockPropertyRepository)
	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	// The listing was deactivated after it was loaded.
	repo.On("UpdateContent", mock.Anything, mock.AnythingOfType("*model.Property")).Return(repository.ErrInactive)
	svc := NewPropertyService(repo, events.NopPublisher{}, zap.NewNop())

	title := "Renamed"
	_, err = svc.Update(context.Background(), owner, p.ID, model.PropertyPatch{Title: &title})
	assert.Equal(t, apperrors.ErrListingInactive, err)
	repo.AssertExpectations(t)
}

func TestPropertyService_GetCountsPublicViews(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	owner := storeUser(t, repos, "owner@x.com", model.RoleUser)
	svc := NewPropertyService(repos.Properties, events.NopPublisher{}, zap.NewNop())

	p, err := svc.Create(ctx, owner, testDraft("Flat", 100))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Get(ctx, model.Anonymous(), p.ID)
		require.NoError(t, err)
	}
	got, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Views)

	require.NoError(t, repos.Properties.SetFlag(ctx, p.ID, true, "spam"))
	_, err = svc.Get(ctx, model.Anonymous(), p.ID)
	assert.Equal(t, apperrors.ErrPropertyNotFound, err)

	hidden, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), hidden.Views, "hidden reads are not counted")

	_, err = svc.Get(ctx, model.Anonymous(), uuid.New())
	assert.Equal(t, apperrors.ErrPropertyNotFound, err)
}

func TestPropertyService_ViewCounterFailureIsLogged(t *testing.T) {
	id := uuid.New()
	repo := new(MockPropertyRepository)
	repo.On("FindByID", mock.Anything, id).Return(&model.Property{ID: id, IsActive: true}, nil)
	repo.On("IncrementViews", mock.Anything, id).Return(errors.New("db down"))
	core, logs := observer.New(zap.WarnLevel)
	svc := NewPropertyService(repo, events.NopPublisher{}, zap.New(core))

	got, err := svc.Get(context.Background(), model.Anonymous(), id)
	require.NoError(t, err)
	assert.Zero(t, got.Views)
	assert.Equal(t, 1, logs.FilterMessage("increment views failed").Len())
}

func TestPropertyService_Delete(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	owner := storeUser(t, repos, "owner@x.com", model.RoleUser)
	other := storeUser(t, repos, "other@x.com", model.RoleUser)
	admin := storeUser(t, repos, "admin@x.com", model.RoleAdmin)
	pub := &recordingPublisher{}
	svc := NewPropertyService(repos.Properties, pub, zap.NewNop())

	p, err := svc.Create(ctx, owner, testDraft("Flat", 100))
	require.NoError(t, err)

	assert.Equal(t, apperrors.ErrNotAuthorized, svc.Delete(ctx, other, p.ID))
	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	require.NoError(t, svc.Delete(ctx, owner, p.ID), "deleting an inactive listing is a no-op")
	assert.Equal(t, []string{events.PropertyDeleted}, pub.types())

	// A non-owner cannot learn that the hidden listing exists.
	assert.Equal(t, apperrors.ErrPropertyNotFound, svc.Delete(ctx, other, p.ID))

	_, err = svc.Get(ctx, model.Anonymous(), p.ID)
	assert.Equal(t, apperrors.ErrPropertyNotFound, err)
	_, err = svc.Get(ctx, admin, p.ID)
	require.NoError(t, err)

	title := "Back again"
	_, err = svc.Update(ctx, owner, p.ID, model.PropertyPatch{Title: &title})
	assert.Equal(t, apperrors.ErrListingInactive, err)

	page, err := svc.Search(ctx, model.Anonymous(), model.ListingQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Properties)

	mine, err := svc.Mine(ctx, owner, model.ListingQuery{})
	require.NoError(t, err)
	assert.Len(t, mine.Properties, 1)
}

func TestPropertyService_Listings(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	owner := storeUser(t, repos, "owner@x.com", model.RoleUser)
	admin := storeUser(t, repos, "admin@x.com", model.RoleAdmin)
	svc := NewPropertyService(repos.Properties, events.NopPublisher{}, zap.NewNop())

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := svc.Create(ctx, owner, testDraft(title, 100))
		require.NoError(t, err)
	}
	flagged, err := svc.Create(ctx, owner, testDraft("Four", 100))
	require.NoError(t, err)
	require.NoError(t, repos.Properties.SetFlag(ctx, flagged.ID, true, "spam"))

	tests := []struct {
		name      string
		run       func() (*model.PropertyPage, error)
		wantTotal int64
		wantErr   error
	}{
		{"public search hides flagged", func() (*model.PropertyPage, error) {
			return svc.Search(ctx, model.Anonymous(), model.ListingQuery{Limit: 2})
		}, 3, nil},
		{"search ignores a smuggled owner filter", func() (*model.PropertyPage, error) {
			return svc.Search(ctx, model.Anonymous(), model.ListingQuery{IncludeHidden: true, OwnerID: uuid.New()})
		}, 3, nil},
		{"owner sees all of theirs", func() (*model.PropertyPage, error) {
			return svc.Mine(ctx, owner, model.ListingQuery{})
		}, 4, nil},
		{"admin lists everything", func() (*model.PropertyPage, error) {
			return svc.ListAll(ctx, admin, model.ListingQuery{})
		}, 4, nil},
		{"user cannot list everything", func() (*model.PropertyPage, error) {
			return svc.ListAll(ctx, owner, model.ListingQuery{})
		}, 0, apperrors.ErrNotAuthorized},
		{"anonymous has no listings of their own", func() (*model.PropertyPage, error) {
			return svc.Mine(ctx, model.Anonymous(), model.ListingQuery{})
		}, 0, apperrors.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := tt.run()
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Pagination.Total)
		})
	}

	_, err = svc.Search(ctx, model.Anonymous(), model.ListingQuery{Sort: "-password"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}
