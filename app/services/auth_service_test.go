package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

func TestAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Attempt(ctx, "olive", "olive")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)

	_, err = f.auth.Attempt(ctx, "olive", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Attempt(ctx, "nobody", "olive")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin")

	id, err := f.auth.Identity(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, middleware.Identity{UserID: admin.ID, Username: "admin", Role: models.RoleAdmin}, id)

	_, err = f.auth.Identity(ctx, 9999)
	assert.ErrorIs(t, err, middleware.ErrUnknownIdentity)
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/product/view_all", HomeFor(models.RoleAdmin))
	assert.Equal(t, "/", HomeFor(models.RoleCustomer))
}
