package cli

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/pythlabs/godscore/pkg/data"
	"github.com/pythlabs/godscore/pkg/metrics"
	"github.com/pythlabs/godscore/pkg/monitor"
)

var (
	historyFlag = &cli.IntFlag{
		Name:  "history",
		Usage: "Print the last N audit log entries instead of running a check",
	}

	monitorCmd = &cli.Command{
		Name:    "monitor",
		Aliases: []string{"m"},
		Usage:   "Check the score distribution against configured bounds",
		UsageText: `godscore monitor                 # run a distribution check
   godscore monitor --history 10    # show recent monitor runs`,
		HideHelpCommand: true,
		Action:          cmdMonitor,
		Flags:           []cli.Flag{historyFlag, formatFlag},
	}
)

func cmdMonitor(c *cli.Context) error {
	cfg := getConfig(c)

	if n := c.Int(historyFlag.Name); n > 0 {
		entries, err := data.ListMonitorEntries(cfg.DB, n)
		if err != nil {
			return fmt.Errorf("failed to list monitor entries: %w", err)
		}
		return encode(entries)
	}

	scores, err := data.GetScores(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}

	report := monitor.Check(monitor.Compute(scores), cfg.Scoring.Thresholds)
	metrics.PopulationAverage.Set(report.Snapshot.Average)
	if report.Alert {
		metrics.MonitorAlerts.Inc()
	}

	if err := data.SaveMonitorEntry(cfg.DB, report); err != nil {
		return fmt.Errorf("failed to save monitor entry: %w", err)
	}

	if err := encode(report); err != nil {
		return err
	}

	if report.Alert {
		slog.Warn("score distribution breached a hard bound",
			"average", report.Snapshot.Average, "count", report.Snapshot.Count)
		return cli.Exit("", 1)
	}

	slog.Info("score distribution within bounds",
		"average", report.Snapshot.Average, "count", report.Snapshot.Count)
	return nil
}
