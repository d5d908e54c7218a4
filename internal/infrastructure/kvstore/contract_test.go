package kvstore_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/bookstore-backend/internal/infrastructure/kvstore"
	"github.com/your-org/bookstore-backend/internal/port"
)

// contractSuite holds the behaviour every backend must share
type contractSuite struct {
	suite.Suite
	store kvstore.Store
}

func (suite *contractSuite) TestGetMissing() {
	ctx := suite.T().Context()

	_, err := suite.store.Get(ctx, "missing:"+gofakeit.UUID())
	suite.ErrorIs(err, port.ErrNotFound)
}

func (suite *contractSuite) TestSetGetOverwrite() {
	ctx := suite.T().Context()
	key := "carrito:" + gofakeit.UUID()

	suite.Require().NoError(suite.store.Set(ctx, key, `[{"id":1}]`))
	got, err := suite.store.Get(ctx, key)
	suite.Require().NoError(err)
	suite.Equal(`[{"id":1}]`, got)

	suite.Require().NoError(suite.store.Set(ctx, key, `[]`))
	got, err = suite.store.Get(ctx, key)
	suite.Require().NoError(err)
	suite.Equal(`[]`, got)
}

func (suite *contractSuite) TestRemove() {
	ctx := suite.T().Context()
	key := "returnRoute:" + gofakeit.UUID()

	suite.Require().NoError(suite.store.Set(ctx, key, "/(tabs)/carrito"))
	suite.Require().NoError(suite.store.Remove(ctx, key))

	_, err := suite.store.Get(ctx, key)
	suite.ErrorIs(err, port.ErrNotFound)

	// removing twice is fine
	suite.NoError(suite.store.Remove(ctx, key))
}

func (suite *contractSuite) TestScopedIsolation() {
	ctx := suite.T().Context()
	a := kvstore.NewScoped(suite.store, kvstore.SessionPrefix(gofakeit.UUID()))
	b := kvstore.NewScoped(suite.store, kvstore.SessionPrefix(gofakeit.UUID()))

	suite.Require().NoError(a.Set(ctx, "carrito", `[{"id":7}]`))

	_, err := b.Get(ctx, "carrito")
	suite.ErrorIs(err, port.ErrNotFound)

	got, err := a.Get(ctx, "carrito")
	suite.Require().NoError(err)
	suite.Equal(`[{"id":7}]`, got)
}
