package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pythlabs/godscore/pkg/monitor"
)

func TestSaveMonitorEntry(t *testing.T) {
	db := setupTestDB(t)

	r := &monitor.Report{
		Snapshot: monitor.Snapshot{
			Count:   10,
			Average: 75.2,
			Median:  74,
			StdDev:  6.1,
		},
		Alert: true,
		Recommendations: []string{
			"average 75.2 is above the hard ceiling 70, raise the normalization divisor to pull the distribution down",
			"standard deviation 6.1 is under 10, scores are bunching and losing differentiation",
		},
	}
	require.NoError(t, SaveMonitorEntry(db, r))

	entries, err := ListMonitorEntries(db, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, 10, e.ProfileCount)
	assert.Equal(t, 75.2, e.Average)
	assert.True(t, e.Alert)
	assert.Contains(t, e.Recommendations, "normalization divisor")
	assert.Contains(t, e.Recommendations, "; ")
	assert.NotEmpty(t, e.CreatedAt)
}

func TestSaveMonitorEntry_Invalid(t *testing.T) {
	db := setupTestDB(t)

	assert.Error(t, SaveMonitorEntry(db, nil))
	assert.ErrorIs(t, SaveMonitorEntry(nil, &monitor.Report{}), errDBNotInitialized)
}

func TestListMonitorEntries_Limit(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, SaveMonitorEntry(db, &monitor.Report{
			Snapshot: monitor.Snapshot{Count: i},
		}))
	}

	entries, err := ListMonitorEntries(db, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestListMonitorEntries_Empty(t *testing.T) {
	db := setupTestDB(t)

	entries, err := ListMonitorEntries(db, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
