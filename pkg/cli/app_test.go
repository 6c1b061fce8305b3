package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pythlabs/godscore/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.SetDefaultCLILogger("error")
	os.Exit(m.Run())
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestNewApp(t *testing.T) {
	app := newApp()
	require.NotNil(t, app)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t,
		[]string{"import", "score", "calibrate", "monitor", "query", "server"},
		names)
}

func TestApp_QueryTiers(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"godscore", "--db", testDBPath(t), "query", "tiers"})
	assert.NoError(t, err)
}

func TestApp_ScoreRun(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"godscore", "--db", testDBPath(t), "score", "run"})
	assert.NoError(t, err)
}

func TestApp_Calibrate(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"godscore", "--db", testDBPath(t), "calibrate"})
	assert.NoError(t, err)
}

func TestApp_MonitorEmptyStore(t *testing.T) {
	// An empty store is not an alert, just a recommendation.
	app := newApp()
	err := app.Run([]string{"godscore", "--db", testDBPath(t), "monitor"})
	assert.NoError(t, err)
}

func TestApp_ImportScoreQuery(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	jsonl := filepath.Join(dir, "pitches.jsonl")
	lines := `{"id": "p1", "name": "Acme", "raw_text": "We are building an AI platform for fintech compliance teams. Launched in January with 500 customers, paying revenue, and a $2M seed round."}
{"name": "Stealth", "raw_text": "stealth startup"}
`
	require.NoError(t, os.WriteFile(jsonl, []byte(lines), 0600))

	require.NoError(t, newApp().Run(
		[]string{"godscore", "--db", dbPath, "import", "profiles", "--file", jsonl}))
	require.NoError(t, newApp().Run(
		[]string{"godscore", "--db", dbPath, "score", "run"}))
	require.NoError(t, newApp().Run(
		[]string{"godscore", "--db", dbPath, "score", "one", "--id", "p1"}))
	require.NoError(t, newApp().Run(
		[]string{"godscore", "--db", dbPath, "query", "top", "--limit", "5"}))
}

func TestApp_ImportProfilesFromURL(t *testing.T) {
	dbPath := testDBPath(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "u1", "name": "Acme", "raw_text": "We are building an AI platform for fintech compliance teams. Launched in January with 500 customers, paying revenue, and a $2M seed round."},
			{"name": "NoID", "raw_text": "stealth startup"}
		]`))
	}))
	defer srv.Close()

	require.NoError(t, newApp().Run(
		[]string{"godscore", "--db", dbPath, "import", "profiles", "--url", srv.URL}))
	require.NoError(t, newApp().Run(
		[]string{"godscore", "--db", dbPath, "score", "one", "--id", "u1"}))
}

func TestApp_ImportProfilesFromURL_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newApp().Run(
		[]string{"godscore", "--db", testDBPath(t), "import", "profiles", "--url", srv.URL})
	assert.Error(t, err)
}

func TestApp_BadConfigPath(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"godscore", "--db", testDBPath(t), "--config", "missing.yaml", "query", "tiers"})
	assert.Error(t, err)
}
