package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"migrate", "seed", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestMigrateCommand_Help(t *testing.T) {
	out, err := run(t, "migrate", "--help")
	require.NoError(t, err)

	for _, name := range []string{"up", "down", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "planazoctl version 1.0.0")
}

func TestMigrateDown_RejectsZeroSteps(t *testing.T) {
	_, err := run(t, "migrate", "down", "--steps", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}

func TestSeedCommand_Flags(t *testing.T) {
	cmd := newSeedCommand(&env{})
	for _, flag := range []string{"demo-email", "demo-password", "demo-name"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
}

func TestSeedDemoUser(t *testing.T) {
	ts := testutil.NewTestSetup(t)
	ctx := testutil.TestContext(t)
	logger := testutil.DiscardLogger()

	demo := demoUser{email: "Demo@Planazo.es", password: "planazo123", name: "Demo"}

	var out bytes.Buffer
	require.NoError(t, seedDemoUser(ctx, ts.DB, ts.JWTService, logger, demo, &out))
	assert.Contains(t, out.String(), "demo user created: demo@planazo.es")

	out.Reset()
	require.NoError(t, seedDemoUser(ctx, ts.DB, ts.JWTService, logger, demo, &out))
	assert.Contains(t, out.String(), "demo user already exists: demo@planazo.es")

	t.Run("invalid e-mail is reported", func(t *testing.T) {
		bad := demoUser{email: "not-an-email", password: "planazo123", name: "Demo"}
		err := seedDemoUser(ctx, ts.DB, ts.JWTService, logger, bad, &out)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	})

	t.Run("password over the byte limit is reported", func(t *testing.T) {
		bad := demoUser{email: "otro@planazo.es", password: strings.Repeat("ñ", 40), name: "Demo"}
		err := seedDemoUser(ctx, ts.DB, ts.JWTService, logger, bad, &out)
		assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	})
}
