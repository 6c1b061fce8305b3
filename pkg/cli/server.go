package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/pythlabs/godscore/pkg/config"
	"github.com/pythlabs/godscore/pkg/data"
	"github.com/pythlabs/godscore/pkg/metrics"
	"github.com/pythlabs/godscore/pkg/monitor"
	sig "github.com/pythlabs/godscore/pkg/signal"

	"github.com/pythlabs/godscore/pkg/calibration"
	"github.com/pythlabs/godscore/pkg/scoring"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	serverCmd = &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP server with the scoring API",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
			debugFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	mux := makeRouter(cfg.DB, cfg.Scoring)
	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(db *sqlx.DB, scoringCfg *config.Scoring) *http.ServeMux {
	mux := http.NewServeMux()

	// Data API
	mux.HandleFunc("POST /data/score", scoreAPIHandler(scoringCfg))
	mux.HandleFunc("GET /data/top", topAPIHandler(db))
	mux.HandleFunc("GET /data/tiers", tiersAPIHandler(db))
	mux.HandleFunc("GET /data/distribution", distributionAPIHandler(db, scoringCfg))
	mux.HandleFunc("GET /data/calibration", calibrationAPIHandler(db))

	// Observability
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type scoreRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

func scoreAPIHandler(scoringCfg *config.Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		s, err := sig.Extract(req.Text, req.SourceURL)
		if errors.Is(err, sig.ErrTextTooShort) {
			s = &sig.Signals{}
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to extract signals")
			return
		}

		tier := scoring.Classify(s)
		composite := scoring.Score(s, tier, scoringCfg)
		metrics.RecordScore(string(composite.Tier), composite.Total)

		writeJSON(w, http.StatusOK, &ScoredText{Signals: s, Composite: composite})
	}
}

func topAPIHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryResultLimitDefault
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = n
		}

		list, err := data.TopProfiles(db, limit)
		if err != nil {
			slog.Error("error querying top profiles", "error", err)
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func tiersAPIHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := data.TierCounts(db)
		if err != nil {
			slog.Error("error querying tier counts", "error", err)
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func distributionAPIHandler(db *sqlx.DB, scoringCfg *config.Scoring) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := data.GetScores(db)
		if err != nil {
			slog.Error("error loading scores", "error", err)
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}

		report := monitor.Check(monitor.Compute(scores), scoringCfg.Thresholds)
		metrics.PopulationAverage.Set(report.Snapshot.Average)
		writeJSON(w, http.StatusOK, report)
	}
}

func calibrationAPIHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples, err := data.GetCalibrationSamples(db)
		if err != nil {
			slog.Error("error loading calibration samples", "error", err)
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}
		writeJSON(w, http.StatusOK, calibration.Analyze(samples))
	}
}
