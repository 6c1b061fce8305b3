package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pythlabs/godscore/pkg/config"
	"github.com/pythlabs/godscore/pkg/data"
	"github.com/pythlabs/godscore/pkg/scoring"
)

func setupServer(t *testing.T) (*sqlx.DB, *httptest.Server) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, data.Init(dbPath))
	db, err := data.GetDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(makeRouter(db, config.DefaultScoring()))
	t.Cleanup(srv.Close)
	return db, srv
}

func TestServer_ScoreEndpoint(t *testing.T) {
	_, srv := setupServer(t)

	body := `{"text": "We are building an AI platform for fintech compliance teams. Launched in January with 500 customers, paying revenue, and a $2M seed round."}`
	resp, err := http.Post(srv.URL+"/data/score", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ScoredText
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got.Composite)
	assert.Equal(t, scoring.TierA, got.Composite.Tier)
	assert.Greater(t, got.Composite.Total, 55)
	assert.Contains(t, got.Signals.Sectors, "AI/ML")
}

func TestServer_ScoreEndpoint_ShortText(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := http.Post(srv.URL+"/data/score", "application/json",
		strings.NewReader(`{"text": "stealth"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ScoredText
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, scoring.TierC, got.Composite.Tier)
	assert.Equal(t, 40, got.Composite.Total)
}

func TestServer_ScoreEndpoint_BadBody(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := http.Post(srv.URL+"/data/score", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_TopAndTiers(t *testing.T) {
	db, srv := setupServer(t)

	p := &data.Profile{ID: uuid.NewString(), Name: "Acme", RawText: "pitch"}
	require.NoError(t, data.SaveProfile(db, p))
	c := &scoring.Composite{Total: 70, Tier: scoring.TierA}
	require.NoError(t, data.UpdateScore(db, p.ID, c, "v1"))

	resp, err := http.Get(srv.URL + "/data/top?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var top []data.ProfileListItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&top))
	require.Len(t, top, 1)
	assert.Equal(t, "Acme", top[0].Name)
	assert.Equal(t, 70, top[0].GodScore)

	resp, err = http.Get(srv.URL + "/data/tiers")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tiers []data.TierCount
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tiers))
	require.Len(t, tiers, 1)
	assert.Equal(t, "A", tiers[0].Tier)
}

func TestServer_TopBadLimit(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/data/top?limit=zero")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Distribution(t *testing.T) {
	db, srv := setupServer(t)

	for _, total := range []int{55, 60, 65} {
		p := &data.Profile{ID: uuid.NewString(), Name: "s", RawText: "pitch"}
		require.NoError(t, data.SaveProfile(db, p))
		c := &scoring.Composite{Total: total, Tier: scoring.TierA}
		require.NoError(t, data.UpdateScore(db, p.ID, c, "v1"))
	}

	resp, err := http.Get(srv.URL + "/data/distribution")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		Snapshot struct {
			Count   int     `json:"count"`
			Average float64 `json:"average"`
		} `json:"snapshot"`
		Alert bool `json:"alert"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 3, report.Snapshot.Count)
	assert.Equal(t, 60.0, report.Snapshot.Average)
	assert.False(t, report.Alert)
}

func TestServer_Calibration(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/data/calibration")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Recommendation struct {
			Action string `json:"action"`
		} `json:"recommendation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "INSUFFICIENT_DATA", got.Recommendation.Action)
}

func TestServer_Metrics(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
