package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pythlabs/godscore/pkg/calibration"
	"github.com/pythlabs/godscore/pkg/scoring"
)

func TestSaveOutcome_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	ids := scoreProfiles(t, db, 78)

	o := &MatchOutcome{
		ProfileID:      ids[0],
		Outcome:        "invested",
		OutcomeQuality: 0.9,
	}
	require.NoError(t, SaveOutcome(db, o))
	assert.NotEmpty(t, o.ID)

	// Score at match time is captured from the profile.
	assert.Equal(t, 78, o.GodScore)

	samples, err := GetCalibrationSamples(db)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, calibration.Sample{GodScore: 78, Outcome: "invested", OutcomeQuality: 0.9}, samples[0])
}

func TestSaveOutcome_ScoreFrozen(t *testing.T) {
	db := setupTestDB(t)

	ids := scoreProfiles(t, db, 60)
	require.NoError(t, SaveOutcome(db, &MatchOutcome{
		ProfileID: ids[0],
		Outcome:   "passed",
	}))

	// A later rescore must not rewrite the recorded outcome score.
	c := &scoring.Composite{Total: 90, Tier: scoring.TierA}
	require.NoError(t, UpdateScore(db, ids[0], c, "v1"))

	samples, err := GetCalibrationSamples(db)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 60, samples[0].GodScore)
}

func TestSaveOutcome_Invalid(t *testing.T) {
	db := setupTestDB(t)

	ids := scoreProfiles(t, db, 70)

	tests := []struct {
		name string
		o    *MatchOutcome
	}{
		{"nil", nil},
		{"no profile", &MatchOutcome{Outcome: "invested"}},
		{"unknown outcome", &MatchOutcome{ProfileID: ids[0], Outcome: "acquired"}},
		{"quality over one", &MatchOutcome{ProfileID: ids[0], Outcome: "invested", OutcomeQuality: 1.5}},
		{"negative quality", &MatchOutcome{ProfileID: ids[0], Outcome: "invested", OutcomeQuality: -0.1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, SaveOutcome(db, tc.o))
		})
	}
}

func TestSaveOutcome_MissingProfile(t *testing.T) {
	db := setupTestDB(t)

	err := SaveOutcome(db, &MatchOutcome{ProfileID: "missing", Outcome: "invested"})
	assert.Error(t, err)
}

func TestGetCalibrationSamples_Empty(t *testing.T) {
	db := setupTestDB(t)

	samples, err := GetCalibrationSamples(db)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
