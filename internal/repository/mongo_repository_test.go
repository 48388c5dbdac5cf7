package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"propertyhub/internal/db"
	"propertyhub/internal/model"
)

// Runs against a live server only: MONGO_TEST_URI=mongodb://localhost:27017 go test ./...
func newMongoTestRepos(t *testing.T) *Repositories {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	database, client, err := db.NewMongo(ctx, uri, "propertyhub_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	require.NoError(t, EnsureMongoIndexes(ctx, database))
	return NewMongoRepositories(database)
}

func TestMongoRepositories(t *testing.T) {
	repos := newMongoTestRepos(t)
	ctx := context.Background()

	owner, err := model.NewUser("Owner", "a@x.com", "1", "hash")
	require.NoError(t, err)
	require.NoError(t, repos.Users.Create(ctx, owner))
	dup, err := model.NewUser("Dup", "a@x.com", "1", "hash")
	require.NoError(t, err)
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), ErrDuplicate)

	price := decimal.NewFromInt(750000)
	p, err := model.NewProperty(owner.ID, model.PropertyDraft{
		Title:        "Sea View",
		Purpose:      model.PurposeRent,
		PropertyType: model.PropertyTypeHouse,
		Price:        &price,
		Address:      model.Address{City: "Goa", Locality: "Calangute"},
	})
	require.NoError(t, err)
	require.NoError(t, repos.Properties.Create(ctx, p))
	require.NoError(t, repos.Properties.IncrementViews(ctx, p.ID))

	q := model.ListingQuery{Search: "CALANG", MinPrice: &price}
	require.NoError(t, q.Normalize())
	rows, total, err := repos.Properties.Search(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Price.Equal(price))
	assert.Equal(t, int64(1), rows[0].Views)

	require.NoError(t, repos.Users.SaveProperty(ctx, owner.ID, p.ID))
	ids, err := repos.Users.SavedPropertyIDs(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p.ID}, ids)

	buyer := uuid.New()
	c, err := model.NewContact(buyer, p, "hi")
	require.NoError(t, err)
	require.NoError(t, repos.Contacts.Create(ctx, c))
	again, err := model.NewContact(buyer, p, "hi")
	require.NoError(t, err)
	assert.ErrorIs(t, repos.Contacts.Create(ctx, again), ErrDuplicate)

	require.NoError(t, repos.Contacts.Delete(ctx, c.ID))
	assert.ErrorIs(t, repos.Contacts.Delete(ctx, c.ID), ErrNotFound)
}

func TestEnsureMongoIndexes_ReportsFailure(t *testing.T) {
	ctx := context.Background()
	// Connect is lazy; every operation fails server selection.
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	err = EnsureMongoIndexes(ctx, client.Database("propertyhub_unreachable"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create users indexes")
}
