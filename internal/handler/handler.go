package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/middleware"
	"propertyhub/internal/model"
)

var errInvalidBody = apperrors.InvalidInput("invalid request body")

// bind decodes the request body into req and runs struct validation.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		return model.ValidationError(err)
	}
	return nil
}

// bindBody decodes optional fields without validation. Used for patch payloads.
func bindBody(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput("invalid " + name)
	}
	return id, nil
}

func ok(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, apperrors.OK(message, data))
}

func created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, apperrors.OK(message, data))
}

func actor(c echo.Context) model.Actor {
	return middleware.ActorFrom(c)
}

// listingQuery reads search filters and paging from the query string.
func listingQuery(c echo.Context) (model.ListingQuery, error) {
	q := model.ListingQuery{
		Search:       c.QueryParam("search"),
		City:         c.QueryParam("city"),
		Purpose:      model.Purpose(c.QueryParam("purpose")),
		PropertyType: model.PropertyType(c.QueryParam("propertyType")),
		Furnishing:   model.Furnishing(c.QueryParam("furnishing")),
		Sort:         c.QueryParam("sort"),
	}
	var err error
	if q.Page, err = intParam(c, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(c, "limit"); err != nil {
		return q, err
	}
	if raw := c.QueryParam("bedrooms"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, apperrors.InvalidInput("bedrooms must be a number")
		}
		q.Bedrooms = &n
	}
	if q.MinPrice, err = decimalParam(c, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = decimalParam(c, "maxPrice"); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(name + " must be a number")
	}
	return n, nil
}

func decimalParam(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.InvalidInput(name + " must be a number")
	}
	return &d, nil
}
