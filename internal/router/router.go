package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"propertyhub/internal/auth"
	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/handler"
	"propertyhub/internal/middleware"
	"propertyhub/internal/model"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth     *handler.AuthHandler
	Property *handler.PropertyHandler
	Contact  *handler.ContactHandler
	User     *handler.UserHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log *zap.Logger,
	jwtService *auth.JWTService,
	resolver middleware.ActorResolver,
	limiter *middleware.IPRateLimiter,
	h Handlers,
) {
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: model.Validator()}
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(echomw.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	resolve := middleware.ResolveActor(resolver)
	public := e.Group("/api", middleware.Authenticate(jwtService, true), resolve)
	secured := e.Group("/api", middleware.Authenticate(jwtService, false), resolve)

	// Auth
	var throttle []echo.MiddlewareFunc
	if limiter != nil {
		throttle = append(throttle, limiter.Middleware())
	}
	e.POST("/api/auth/register", h.Auth.Register, throttle...)
	e.POST("/api/auth/login", h.Auth.Login, throttle...)
	e.POST("/api/auth/refresh", h.Auth.Refresh, throttle...)
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/profile", h.Auth.Profile)
	secured.PUT("/auth/profile", h.Auth.UpdateProfile)

	// Properties
	public.GET("/properties", h.Property.List)
	public.GET("/properties/:id", h.Property.Get)
	secured.POST("/properties", h.Property.Create)
	secured.GET("/properties/my/properties", h.Property.Mine)
	secured.GET("/properties/my/saved", h.Property.Saved)
	secured.PUT("/properties/:id", h.Property.Update)
	secured.DELETE("/properties/:id", h.Property.Delete)
	secured.POST("/properties/:id/save", h.Property.ToggleSave)
	secured.GET("/properties/admin/all", h.Property.AdminList)
	secured.PATCH("/properties/:id/flag", h.Property.ToggleFlag)

	// Contacts
	secured.POST("/contacts", h.Contact.Create)
	secured.GET("/contacts", h.Contact.List)
	secured.GET("/contacts/:id", h.Contact.Get)
	secured.DELETE("/contacts/:id", h.Contact.Delete)

	// Users (admin)
	secured.GET("/users", h.User.ListUsers)
	secured.GET("/users/:id", h.User.GetUser)
	secured.PUT("/users/:id", h.User.UpdateUser)
	secured.DELETE("/users/:id", h.User.DeleteUser)
	secured.PATCH("/users/:id/block", h.User.ToggleBlock)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders every failure as the response envelope. Internal faults are logged
// with their cause and reported with a generic message.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && apperrors.KindOf(err) == apperrors.KindInternal {
			httpErr = apperrors.NewHTTPError(echoErr.Code, fmt.Sprint(echoErr.Message), apperrors.KindForStatus(echoErr.Code))
		} else {
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		if httpErr.Kind == apperrors.KindInternal {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, httpErr.ToResponse())
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
