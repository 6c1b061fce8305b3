package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoring(t *testing.T) {
	s := DefaultScoring()
	require.NotNil(t, s)
	assert.NoError(t, s.Validate())
	assert.Equal(t, "v1", s.Version)
	assert.Equal(t, 15, s.SectorWeight("AI/ML"))
	assert.Equal(t, 5, s.SectorWeight("SpaceTech"))
	assert.Equal(t, 1.0, s.MaterialDelta)
	assert.Equal(t, 70.0, s.Thresholds.HardHigh)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScoring(), s)
}

func TestLoad_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "version: v2-test\nmaterialDelta: 2.5\nthresholds:\n  targetMin: 55\n  targetMax: 65\n  hardLow: 45\n  hardHigh: 75\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "v2-test", s.Version)
	assert.Equal(t, 2.5, s.MaterialDelta)
	assert.Equal(t, 45.0, s.Thresholds.HardLow)

	// Untouched sections keep their defaults.
	assert.Equal(t, 12, s.SectorWeight("FinTech"))
	assert.Equal(t, 40, s.TierB.Base)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/no/such/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidThresholdOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "thresholds:\n  targetMin: 80\n  targetMax: 65\n  hardLow: 48\n  hardHigh: 70\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_NegativeMaterialDelta(t *testing.T) {
	s := DefaultScoring()
	s.MaterialDelta = -1
	assert.Error(t, s.Validate())
}
