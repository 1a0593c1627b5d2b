//go:build integration

package participations

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("planazo"),
		postgres.WithUsername("planazo"),
		postgres.WithPassword("planazo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(db, testutil.DiscardLogger()))
	return db
}

func TestConcurrentJoinsNeverExceedCapacity(t *testing.T) {
	db := setupPostgres(t)
	ctx := testutil.TestContext(t)
	svc := NewService(db, testutil.DiscardLogger())

	creator := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db)
	plan := testutil.CreateTestPlan(t, db, creator, category, 5)

	const joiners = 20
	users := make([]*models.User, joiners)
	for i := range users {
		users[i] = testutil.CreateTestUser(t, db)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	start := make(chan struct{})
	for _, u := range users {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			<-start
			_, err := svc.Join(ctx, plan.ID, u.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperr.Is(err, apperr.KindBadRequest):
				rejected++
			default:
				t.Errorf("unexpected join error: %v", err)
			}
		}(u)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 4, succeeded)
	assert.Equal(t, joiners-4, rejected)

	state := testutil.ReloadPlan(t, db, plan.ID)
	assert.Equal(t, 5, state.CurrentParticipants)
	assert.Equal(t, models.PlanStatusFull, state.Status)

	var confirmed int64
	require.NoError(t, db.Model(&models.Participation{}).
		Where("plan_id = ? AND status = ?", plan.ID, models.ParticipationConfirmed).
		Count(&confirmed).Error)
	assert.Equal(t, int64(4), confirmed)
}

func TestMigrationsRollBackCleanly(t *testing.T) {
	db := setupPostgres(t)
	log := testutil.DiscardLogger()

	require.NoError(t, database.MigrateDown(db, 1, log))
	assert.False(t, db.Migrator().HasTable("plans"))

	require.NoError(t, database.MigrateUp(db, log))
	require.NoError(t, database.MigrateUp(db, log), "second run is a no-op")
	assert.True(t, db.Migrator().HasTable("participations"))
}
