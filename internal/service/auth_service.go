package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"propertyhub/internal/auth"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
	"propertyhub/internal/repository"
)

const minPasswordLength = 6

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResult carries the issued tokens and the authenticated account.
type LoginResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, access *auth.Claims, refreshToken string) error
	// ResolveActor turns verified access-token claims into the acting identity.
	ResolveActor(ctx context.Context, claims *auth.Claims) (model.Actor, error)
	// EnsureAdmin creates the admin account if the email is unused. It reports whether it created one.
	EnsureAdmin(ctx context.Context, in RegisterInput) (*model.User, bool, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	hasher     auth.PasswordHasher
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	hasher auth.PasswordHasher,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		hasher:     hasher,
	}
}

// Register creates a new account with hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	return s.create(ctx, in, model.RoleUser)
}

func (s *authService) create(ctx context.Context, in RegisterInput, role model.Role) (*model.User, error) {
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("check user existence: %w", err))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user, err := model.NewUser(in.Name, in.Email, in.Phone, hash)
	if err != nil {
		return nil, err
	}
	user.Role = role

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.Internal(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Internal(err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, apperrors.ErrAccountBlocked
	}

	now := time.Now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("update last login: %w", err))
	}
	user.LastLogin = &now

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate access token: %w", err))
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate refresh token: %w", err))
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("store refresh token: %w", err))
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrInvalidToken
	}

	if _, err := s.loadActor(ctx, claims.UserID); err != nil {
		return "", err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("generate access token: %w", err))
	}
	return accessToken, nil
}

// Logout blacklists the presented access token and revokes the refresh token, if given.
func (s *authService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if access != nil && access.ID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, access.RemainingTTL()); err != nil {
			return apperrors.Internal(fmt.Errorf("blacklist access token: %w", err))
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if access != nil && claims.UserID != access.UserID {
		return apperrors.ErrInvalidToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return apperrors.Internal(fmt.Errorf("delete refresh token: %w", err))
	}
	return nil
}

func (s *authService) ResolveActor(ctx context.Context, claims *auth.Claims) (model.Actor, error) {
	if claims == nil || claims.Kind != auth.KindAccess || claims.UserID == uuid.Nil {
		return model.Actor{}, apperrors.ErrInvalidToken
	}
	if claims.ID != "" {
		blacklisted, _ := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID)
		if blacklisted {
			return model.Actor{}, apperrors.ErrInvalidToken
		}
	}
	return s.loadActor(ctx, claims.UserID)
}

// loadActor resolves an account and rejects blocked or deleted users.
// The store is read on every call so a block applies to the very next request.
func (s *authService) loadActor(ctx context.Context, id uuid.UUID) (model.Actor, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return model.Actor{}, storeErr(err, apperrors.ErrInvalidToken)
	}
	actor := model.ActorFromUser(user)
	if actor.Blocked {
		return model.Actor{}, apperrors.ErrAccountBlocked
	}
	return actor, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, in RegisterInput) (*model.User, bool, error) {
	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, apperrors.Internal(err)
	}
	user, err := s.create(ctx, in, model.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
