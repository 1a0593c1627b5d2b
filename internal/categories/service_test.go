package categories_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Seed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := categories.NewService(db, testutil.DiscardLogger())
	ctx := testutil.TestContext(t)

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, created)

	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "second seed is a no-op")

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 12)
	for _, c := range all {
		assert.Regexp(t, `^#[0-9A-F]{6}$`, c.ColorHex)
		assert.True(t, c.Active)
	}
}

func TestService_Seed_SkipsNonEmptyTable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestCategory(t, db)

	created, err := categories.NewService(db, testutil.DiscardLogger()).Seed(testutil.TestContext(t))
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := categories.NewService(db, testutil.DiscardLogger())
	ctx := testutil.TestContext(t)

	require.NoError(t, db.Create(&models.Category{Name: "Viajes", Active: true}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "Cultura", Active: true}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "Antiguos", Active: false}).Error)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Antiguos", "Cultura", "Viajes"}, names(all))

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cultura", "Viajes"}, names(active))
}

func TestService_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := categories.NewService(db, testutil.DiscardLogger())
	category := testutil.CreateTestCategory(t, db)

	got, err := svc.Get(testutil.TestContext(t), category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.Name, got.Name)

	_, err = svc.Get(testutil.TestContext(t), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func names(cs []models.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
