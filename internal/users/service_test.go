package users_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "x@y.com", users.NormalizeEmail("  X@Y.com "))
}

func TestService_Get(t *testing.T) {
	ts := testutil.NewTestSetup(t)
	svc := users.NewService(ts.DB, testutil.DiscardLogger())
	ctx := testutil.TestContext(t)

	user, err := svc.Get(ctx, ts.User.ID)
	require.NoError(t, err)
	assert.Equal(t, ts.User.Email, user.Email)

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	byEmail, err := svc.GetByEmail(ctx, "  "+ts.User.Email)
	require.NoError(t, err)
	assert.Equal(t, ts.User.ID, byEmail.ID)
}

func TestService_FindByIDs(t *testing.T) {
	ts := testutil.NewTestSetup(t)
	svc := users.NewService(ts.DB, testutil.DiscardLogger())
	other := testutil.CreateTestUser(t, ts.DB)

	found, err := svc.FindByIDs(testutil.TestContext(t), []uuid.UUID{ts.User.ID, other.ID, ts.User.ID, uuid.New()})
	require.NoError(t, err)

	assert.Len(t, found, 2)
	assert.Equal(t, other.Email, found[other.ID].Email)

	empty, err := svc.FindByIDs(testutil.TestContext(t), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestService_UpdateProfile(t *testing.T) {
	ts := testutil.NewTestSetup(t)
	svc := users.NewService(ts.DB, testutil.DiscardLogger())
	ctx := testutil.TestContext(t)

	updated, err := svc.UpdateProfile(ctx, ts.User.ID, users.ProfileInput{
		Bio:            strPtr("  Me gusta el pádel  "),
		ProfilePicture: strPtr("https://cdn.example.com/ana.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Test User", updated.Name)
	assert.Equal(t, "Me gusta el pádel", updated.Bio)
	assert.Equal(t, "https://cdn.example.com/ana.png", updated.ProfilePicture)

	updated, err = svc.UpdateProfile(ctx, ts.User.ID, users.ProfileInput{Name: strPtr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "Test User", updated.Name, "blank name is ignored")

	updated, err = svc.UpdateProfile(ctx, ts.User.ID, users.ProfileInput{Name: strPtr("Ana")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.Name)
	assert.Equal(t, "Me gusta el pádel", updated.Bio)
	assert.Equal(t, ts.User.RegisteredAt.Unix(), updated.RegisteredAt.Unix())

	_, err = svc.UpdateProfile(ctx, uuid.New(), users.ProfileInput{Name: strPtr("Ghost")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestService_Deactivate(t *testing.T) {
	ts := testutil.NewTestSetup(t)
	svc := users.NewService(ts.DB, testutil.DiscardLogger())
	ctx := testutil.TestContext(t)

	require.NoError(t, svc.Deactivate(ctx, ts.User.ID))
	require.NoError(t, svc.Deactivate(ctx, ts.User.ID))

	user, err := svc.Get(ctx, ts.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusDeactivated, user.Status)
	assert.False(t, user.IsActive())

	assert.True(t, apperr.Is(svc.Deactivate(ctx, uuid.New()), apperr.KindNotFound))
}
