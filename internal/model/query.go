package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "propertyhub/internal/errors"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	DefaultSort      = "-createdAt"
)

// sortColumns maps the public sort keys to storage field names.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"price":     "price",
	"views":     "views",
	"title":     "title",
}

// SortSpec is a parsed sort key.
type SortSpec struct {
	Field string // public name, e.g. "createdAt"
	Desc  bool
}

// Column returns the storage column for the sort field.
func (s SortSpec) Column() string {
	return sortColumns[s.Field]
}

// ParseSort parses "field" or "-field". An empty key yields the default ordering.
func ParseSort(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultSort
	}
	spec := SortSpec{Field: raw}
	if strings.HasPrefix(raw, "-") {
		spec = SortSpec{Field: raw[1:], Desc: true}
	}
	if _, ok := sortColumns[spec.Field]; !ok {
		return SortSpec{}, apperrors.InvalidInput("unsupported sort field: " + spec.Field)
	}
	return spec, nil
}

// ListingQuery carries search filters and paging for listing queries.
type ListingQuery struct {
	Search       string           `json:"search"`
	City         string           `json:"city"`
	Purpose      Purpose          `json:"purpose" validate:"omitempty,oneof=sell rent"`
	PropertyType PropertyType     `json:"propertyType" validate:"omitempty,oneof=flat house plot shop office"`
	Furnishing   Furnishing       `json:"furnishing" validate:"omitempty,oneof=furnished semi-furnished unfurnished"`
	Bedrooms     *int             `json:"bedrooms" validate:"omitempty,gte=0"`
	MinPrice     *decimal.Decimal `json:"minPrice"`
	MaxPrice     *decimal.Decimal `json:"maxPrice"`
	Page         int              `json:"page"`
	Limit        int              `json:"limit"`
	Sort         string           `json:"sort"`

	// Set by the service, never bound from a request.
	OwnerID       uuid.UUID `json:"-"`
	IncludeHidden bool      `json:"-"`
	parsedOrder   SortSpec
}

// Normalize trims filters, clamps paging and parses the sort key.
func (q *ListingQuery) Normalize() error {
	q.Search = strings.TrimSpace(q.Search)
	q.City = strings.TrimSpace(q.City)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if err := Validate(q); err != nil {
		return err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return apperrors.InvalidInput("minPrice must not exceed maxPrice")
	}
	spec, err := ParseSort(q.Sort)
	if err != nil {
		return err
	}
	q.parsedOrder = spec
	return nil
}

// Order returns the parsed sort key. Call Normalize first.
func (q *ListingQuery) Order() SortSpec {
	if q.parsedOrder.Field == "" {
		spec, _ := ParseSort(q.Sort)
		if spec.Field == "" {
			spec, _ = ParseSort(DefaultSort)
		}
		return spec
	}
	return q.parsedOrder
}

// Offset returns the number of rows to skip for the current page.
func (q *ListingQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination describes the position of a page within the filtered set.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// NewPagination computes the page count for total rows at the given page size.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Pages: pages, Limit: limit}
}

// PropertyPage is one page of listings.
type PropertyPage struct {
	Properties []*Property `json:"properties"`
	Pagination Pagination  `json:"pagination"`
}
