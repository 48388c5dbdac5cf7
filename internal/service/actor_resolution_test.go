package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"propertyhub/internal/auth"
	"propertyhub/internal/cache"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

// pausingUsers holds the first FindByID after its store read until release is closed.
type pausingUsers struct {
	repository.UserRepository
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (p *pausingUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := p.UserRepository.FindByID(ctx, id)
	p.once.Do(func() {
		close(p.reached)
		<-p.release
	})
	return user, err
}

func newRedisTokenStore(t *testing.T) (*auth.TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewTokenStore(client), mr
}

func TestResolveActor_BlockDuringInFlightResolve(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	admin := storeUser(t, repos, "admin@x.com", model.RoleAdmin)
	target := storeUser(t, repos, "target@x.com", model.RoleUser)

	tokens, _ := newRedisTokenStore(t)
	users := &pausingUsers{UserRepository: repos.Users, reached: make(chan struct{}), release: make(chan struct{})}
	jwtService := auth.NewJWTService("test-secret")
	authSvc := NewAuthService(users, jwtService, tokens, plainHasher{})
	moderation := NewModerationService(repos.Users, repos.Properties, &recordingPublisher{}, zap.NewNop())

	token, err := jwtService.GenerateAccessToken(target.ID, "target@x.com")
	require.NoError(t, err)
	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)

	inFlight := make(chan error, 1)
	go func() {
		_, err := authSvc.ResolveActor(ctx, claims)
		inFlight <- err
	}()

	select {
	case <-users.reached:
	case <-time.After(5 * time.Second):
		t.Fatal("resolve never reached the store")
	}
	blocked, err := moderation.ToggleBlockUser(ctx, admin, target.ID)
	require.NoError(t, err)
	require.True(t, blocked.IsBlocked)
	close(users.release)

	// The in-flight request read the store before the block landed.
	require.NoError(t, <-inFlight)

	_, err = authSvc.ResolveActor(ctx, claims)
	assert.Equal(t, apperrors.ErrAccountBlocked, err)
}

func TestAuthService_TokensWithRedis(t *testing.T) {
	repos := newStoreRepos(t)
	ctx := context.Background()
	user, err := model.NewUser("Buyer", "buyer@x.com", "555", "hashed:secret1")
	require.NoError(t, err)
	require.NoError(t, repos.Users.Create(ctx, user))

	tokens, mr := newRedisTokenStore(t)
	jwtService := auth.NewJWTService("test-secret")
	svc := NewAuthService(repos.Users, jwtService, tokens, plainHasher{})

	res, err := svc.Login(ctx, "buyer@x.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	access, err := svc.RefreshToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	claims, err := jwtService.ValidateToken(access)
	require.NoError(t, err)
	_, err = svc.ResolveActor(ctx, claims)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims, res.RefreshToken))
	_, err = svc.ResolveActor(ctx, claims)
	assert.Equal(t, apperrors.ErrInvalidToken, err)
	_, err = svc.RefreshToken(ctx, res.RefreshToken)
	assert.Equal(t, apperrors.ErrInvalidToken, err)
}
