package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propertyhub/internal/db"
	"propertyhub/internal/events"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return m.Called(ctx, id, blocked).Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) SaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error {
	return m.Called(ctx, userID, propertyID).Error(0)
}

func (m *MockUserRepository) UnsaveProperty(ctx context.Context, userID, propertyID uuid.UUID) error {
	return m.Called(ctx, userID, propertyID).Error(0)
}

func (m *MockUserRepository) SavedPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockPropertyRepository is a mock implementation of PropertyRepository.
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	return m.Called(ctx, property).Error(0)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Property, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) Search(ctx context.Context, q model.ListingQuery) ([]*model.Property, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyRepository) UpdateContent(ctx context.Context, property *model.Property) error {
	return m.Called(ctx, property).Error(0)
}

func (m *MockPropertyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockPropertyRepository) SetFlag(ctx context.Context, id uuid.UUID, flagged bool, reason string) error {
	return m.Called(ctx, id, flagged, reason).Error(0)
}

func (m *MockPropertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockContactRepository is a mock implementation of ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) Exists(ctx context.Context, buyerID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, buyerID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]*model.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contact), args.Error(1)
}

func (m *MockContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contact), args.Error(1)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, userID, email, ttl).Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return m.Called(ctx, tokenID).Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "hashed:"+password }

// recordingPublisher captures emitted events.
type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// newStoreRepos returns repositories over a fresh in-memory sqlite database.
func newStoreRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewGormRepositories(gormDB)
}

func storeUser(t *testing.T, repos *repository.Repositories, email string, role model.Role) model.Actor {
	t.Helper()
	u, err := model.NewUser("User "+email, email, "5550000", "hash")
	require.NoError(t, err)
	u.Role = role
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return model.ActorFromUser(u)
}

func testDraft(title string, price int64) model.PropertyDraft {
	p := decimal.NewFromInt(price)
	return model.PropertyDraft{
		Title:        title,
		Purpose:      model.PurposeSell,
		PropertyType: model.PropertyTypeFlat,
		Price:        &p,
		Bedrooms:     2,
		Address:      model.Address{City: "Pune", Locality: "Baner"},
	}
}
