package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/pythlabs/godscore/pkg/scoring"
)

// setupPostgres starts a throwaway postgres container and returns a DSN
// with the schema applied. Skipped in short mode, the sqlite tests cover
// the same paths without docker.
func setupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("godscore"),
		tcpostgres.WithUsername("godscore"),
		tcpostgres.WithPassword("godscore"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(ctr))
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Init(dsn))
	return dsn
}

func TestPostgres_ProfileRoundTrip(t *testing.T) {
	dsn := setupPostgres(t)

	db, err := GetDB(dsn)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "postgres", db.DriverName())

	p := testProfile("Acme")
	p.HasRevenue = true
	require.NoError(t, SaveProfile(db, p))

	got, err := GetProfile(db, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Name)
	assert.True(t, got.HasRevenue)

	c := &scoring.Composite{
		Total: 70,
		Components: scoring.Components{
			Team: 10, Traction: 25, Market: 20, Product: 15, Vision: 5,
		},
		Tier: scoring.TierA,
	}
	require.NoError(t, UpdateScore(db, p.ID, c, "v1"))

	scores, err := GetScores(db)
	require.NoError(t, err)
	assert.Equal(t, []int{70}, scores)
}

func TestPostgres_OutcomeAndAudit(t *testing.T) {
	dsn := setupPostgres(t)

	db, err := GetDB(dsn)
	require.NoError(t, err)
	defer db.Close()

	ids := scoreProfiles(t, db, 82)
	require.NoError(t, SaveOutcome(db, &MatchOutcome{
		ProfileID:      ids[0],
		Outcome:        "invested",
		OutcomeQuality: 0.9,
	}))

	samples, err := GetCalibrationSamples(db)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 82, samples[0].GodScore)
}
