package middleware

import (
	"context"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"propertyhub/internal/auth"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
)

const (
	claimsKey = "claims"
	actorKey  = "actor"
)

// ActorResolver turns verified claims into the acting identity.
type ActorResolver interface {
	ResolveActor(ctx context.Context, claims *auth.Claims) (model.Actor, error)
}

// Authenticate verifies the bearer token and stores its claims. With optional set, requests
// without an Authorization header pass through as anonymous; a bad token is still rejected.
func Authenticate(jwtService *auth.JWTService, optional bool) echo.MiddlewareFunc {
	cfg := echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrInvalidToken
		},
	}
	if optional {
		cfg.Skipper = func(c echo.Context) bool {
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		}
	}
	return echojwt.WithConfig(cfg)
}

// ResolveActor loads the actor for the verified claims. Requests without claims run as
// the anonymous actor; blocked or deleted accounts fail here before any handler runs.
func ResolveActor(resolver ActorResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := model.Anonymous()
			if claims := ClaimsFrom(c); claims != nil {
				resolved, err := resolver.ResolveActor(c.Request().Context(), claims)
				if err != nil {
					return err
				}
				actor = resolved
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified token claims, or nil for anonymous requests.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// ActorFrom returns the actor resolved for the request.
func ActorFrom(c echo.Context) model.Actor {
	actor, _ := c.Get(actorKey).(model.Actor)
	return actor
}
