package cli

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/pythlabs/godscore/pkg/calibration"
	"github.com/pythlabs/godscore/pkg/data"
)

var calibrateCmd = &cli.Command{
	Name:    "calibrate",
	Aliases: []string{"c"},
	Usage:   "Analyze recorded match outcomes against historical scores",
	UsageText: `godscore calibrate                  # full calibration report
   godscore calibrate --format yaml`,
	HideHelpCommand: true,
	Action:          cmdCalibrate,
	Flags:           []cli.Flag{formatFlag},
}

func cmdCalibrate(c *cli.Context) error {
	cfg := getConfig(c)

	samples, err := data.GetCalibrationSamples(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to load calibration samples: %w", err)
	}

	a := calibration.Analyze(samples)
	slog.Info("calibration complete",
		"samples", a.SampleCount,
		"action", a.Recommendation.Action,
		"confidence", a.Recommendation.Confidence)

	return encode(a)
}
