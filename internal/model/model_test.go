package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "propertyhub/internal/errors"
)

func draft() PropertyDraft {
	price := decimal.NewFromInt(250000)
	return PropertyDraft{
		Title:        "  Two bed flat ",
		Purpose:      PurposeSell,
		PropertyType: PropertyTypeFlat,
		Price:        &price,
		Area:         Area{Size: 900},
		Bedrooms:     2,
		Bathrooms:    1,
		Address:      Address{City: "Pune", Locality: "Baner"},
	}
}

func TestNewProperty(t *testing.T) {
	owner := uuid.New()
	p, err := NewProperty(owner, draft())
	require.NoError(t, err)

	assert.Equal(t, "Two bed flat", p.Title)
	assert.Equal(t, owner, p.OwnerID)
	assert.True(t, p.IsActive)
	assert.False(t, p.IsFlagged)
	assert.True(t, p.IsPublic())
	assert.Equal(t, "sqft", p.Area.Unit)
	assert.Zero(t, p.Views)
}

func TestNewPropertyInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *PropertyDraft)
		msg    string
	}{
		{"missing title", func(d *PropertyDraft) { d.Title = " " }, "title is required"},
		{"bad purpose", func(d *PropertyDraft) { d.Purpose = "lease" }, "purpose must be one of [sell rent]"},
		{"bad type", func(d *PropertyDraft) { d.PropertyType = "castle" }, "propertyType must be one of [flat house plot shop office]"},
		{"bad furnishing", func(d *PropertyDraft) { d.Furnishing = "bare" }, "furnishing must be one of [furnished semi-furnished unfurnished]"},
		{"negative price", func(d *PropertyDraft) { p := decimal.NewFromInt(-1); d.Price = &p }, "price must be at least 0"},
		{"missing price", func(d *PropertyDraft) { d.Price = nil }, "price is required"},
		{"negative bedrooms", func(d *PropertyDraft) { d.Bedrooms = -2 }, "bedrooms must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft()
			tt.mutate(&d)
			_, err := NewProperty(uuid.New(), d)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestPropertyMerge(t *testing.T) {
	p, err := NewProperty(uuid.New(), draft())
	require.NoError(t, err)
	p.Views = 7
	p.Images = []string{"a.jpg"}

	price := decimal.NewFromInt(500000)
	images := []string{"b.jpg", "c.jpg"}
	next, err := p.Merge(PropertyPatch{Price: &price, Images: &images})
	require.NoError(t, err)

	assert.True(t, next.Price.Equal(price))
	assert.Equal(t, images, next.Images)
	assert.Equal(t, p.OwnerID, next.OwnerID)
	assert.Equal(t, int64(7), next.Views)
	assert.True(t, next.IsActive)

	// original untouched
	assert.True(t, p.Price.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, []string{"a.jpg"}, p.Images)

	empty := ""
	_, err = p.Merge(PropertyPatch{Title: &empty})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestUserApply(t *testing.T) {
	u, err := NewUser("Ann", " Ann@Example.COM ", "555", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)

	name := "Annie"
	next, err := u.ApplyProfile(ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Annie", next.Name)
	assert.Equal(t, "Ann", u.Name)

	role := Role("root")
	_, err = u.Apply(UserPatch{Role: &role})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = NewUser("Bob", "not-an-email", "555", "hash")
	assert.EqualError(t, err, "email must be a valid email")
}

func TestListingQueryNormalize(t *testing.T) {
	q := ListingQuery{Page: 0, Limit: 1000}
	require.NoError(t, q.Normalize())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageLimit, q.Limit)
	assert.Equal(t, SortSpec{Field: "createdAt", Desc: true}, q.Order())

	q = ListingQuery{Page: 3, Sort: "price"}
	require.NoError(t, q.Normalize())
	assert.Equal(t, DefaultPageLimit, q.Limit)
	assert.Equal(t, 20, q.Offset())
	assert.Equal(t, "price", q.Order().Column())
	assert.False(t, q.Order().Desc)

	q = ListingQuery{Sort: "-owner"}
	assert.Error(t, q.Normalize())

	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(5)
	q = ListingQuery{MinPrice: &lo, MaxPrice: &hi}
	assert.Error(t, q.Normalize())

	q = ListingQuery{Purpose: "lease"}
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(q.Normalize()))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 25, Page: 1, Pages: 3, Limit: 10}, NewPagination(25, 1, 10))
	assert.Equal(t, 2, NewPagination(20, 1, 10).Pages)
	assert.Equal(t, 0, NewPagination(0, 1, 10).Pages)
}
