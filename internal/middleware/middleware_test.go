package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"propertyhub/internal/auth"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
)

type stubResolver struct {
	actor model.Actor
	err   error
}

func (s stubResolver) ResolveActor(_ context.Context, claims *auth.Claims) (model.Actor, error) {
	if s.err != nil {
		return model.Actor{}, s.err
	}
	a := s.actor
	a.ID = claims.UserID
	return a, nil
}

func serve(t *testing.T, mw []echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, model.Actor, error) {
	t.Helper()
	e := echo.New()
	var seen model.Actor
	h := func(c echo.Context) error {
		seen = ActorFrom(c)
		return c.NoContent(http.StatusNoContent)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	err := h(e.NewContext(req, rec))
	return rec, seen, err
}

func TestAuthenticate(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "a@x.com")
	require.NoError(t, err)
	other, err := auth.NewJWTService("other-secret").GenerateAccessToken(userID, "a@x.com")
	require.NoError(t, err)
	resolver := stubResolver{actor: model.Actor{Role: model.RoleUser}}

	tests := []struct {
		name      string
		optional  bool
		header    string
		wantErr   error
		wantActor uuid.UUID
	}{
		{"valid token", false, "Bearer " + token, nil, userID},
		{"missing token", false, "", apperrors.ErrInvalidToken, uuid.Nil},
		{"foreign signature", false, "Bearer " + other, apperrors.ErrInvalidToken, uuid.Nil},
		{"optional without token is anonymous", true, "", nil, uuid.Nil},
		{"optional with token resolves", true, "Bearer " + token, nil, userID},
		{"optional with garbage is rejected", true, "Bearer nope", apperrors.ErrInvalidToken, uuid.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, actor, err := serve(t, []echo.MiddlewareFunc{Authenticate(jwtService, tt.optional), ResolveActor(resolver)}, tt.header)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActor, actor.ID)
		})
	}
}

func TestResolveActor_PropagatesBlock(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	token, err := jwtService.GenerateAccessToken(uuid.New(), "a@x.com")
	require.NoError(t, err)

	_, _, err = serve(t, []echo.MiddlewareFunc{
		Authenticate(jwtService, false),
		ResolveActor(stubResolver{err: apperrors.ErrAccountBlocked}),
	}, "Bearer "+token)
	assert.True(t, errors.Is(err, apperrors.ErrAccountBlocked))
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(2, zap.NewNop())
	defer limiter.Stop()
	mw := []echo.MiddlewareFunc{limiter.Middleware()}

	for i := 0; i < 2; i++ {
		rec, _, err := serve(t, mw, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	_, _, err := serve(t, mw, "")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)

	limiter.Stop()
}
