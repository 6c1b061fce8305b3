package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pythlabs/godscore/pkg/data"
	"github.com/pythlabs/godscore/pkg/net"
	"github.com/pythlabs/godscore/pkg/scoring"
	"github.com/pythlabs/godscore/pkg/signal"
)

var (
	forceFlag = &cli.BoolFlag{
		Name:  "force",
		Usage: "Persist every recomputed score, even immaterial changes",
	}

	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of concurrent scoring workers",
		Value: data.DefaultRescoreWorkers,
	}

	profileIDFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Profile ID",
		Required: true,
	}

	textFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Path to a pitch text file (default: stdin)",
	}

	textURLFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "URL to fetch the pitch text from",
	}

	scoreCmd = &cli.Command{
		Name:            "score",
		Aliases:         []string{"s"},
		Usage:           "Score stored profiles or ad hoc pitch text",
		HideHelpCommand: true,
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Recompute the score for every stored profile",
				UsageText: `godscore score run                # skip immaterial changes
   godscore score run --force        # rewrite every score`,
				Action: cmdScoreRun,
				Flags:  []cli.Flag{forceFlag, workersFlag},
			},
			{
				Name:   "one",
				Usage:  "Score a single stored profile and print the result",
				Action: cmdScoreOne,
				Flags:  []cli.Flag{profileIDFlag, forceFlag},
			},
			{
				Name:  "text",
				Usage: "Score pitch text without storing anything",
				UsageText: `godscore score text --file pitch.txt
   godscore score text --url https://example.com/pitch
   cat pitch.txt | godscore score text`,
				Action: cmdScoreText,
				Flags:  []cli.Flag{textFileFlag, textURLFlag},
			},
		},
	}
)

func cmdScoreRun(c *cli.Context) error {
	cfg := getConfig(c)

	res, err := data.RescoreAll(c.Context, cfg.DB, cfg.Scoring,
		c.Int(workersFlag.Name), c.Bool(forceFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to rescore profiles: %w", err)
	}

	slog.Info("rescore complete",
		"processed", res.Processed, "updated", res.Updated,
		"skipped", res.Skipped, "failed", res.Failed)
	return encode(res)
}

func cmdScoreOne(c *cli.Context) error {
	cfg := getConfig(c)
	id := c.String(profileIDFlag.Name)

	p, err := data.GetProfile(cfg.DB, id)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("profile not found: %s", id)
	}

	composite, err := data.ScoreProfile(p, cfg.Scoring)
	if err != nil {
		return fmt.Errorf("failed to score profile %s: %w", id, err)
	}

	old := 0
	if p.GodScore != nil {
		old = *p.GodScore
	}
	if p.GodScore == nil || scoring.Material(old, composite.Total, cfg.Scoring, c.Bool(forceFlag.Name)) {
		if err := data.UpdateScore(cfg.DB, id, composite, cfg.Scoring.Version); err != nil {
			return fmt.Errorf("failed to persist score for %s: %w", id, err)
		}
	} else {
		slog.Debug("score change immaterial, not persisted", "id", id, "old", old, "new", composite.Total)
	}

	return encode(composite)
}

// ScoredText is the output of an ad hoc scoring pass.
type ScoredText struct {
	Signals   *signal.Signals    `json:"signals" yaml:"signals"`
	Composite *scoring.Composite `json:"composite" yaml:"composite"`
}

func cmdScoreText(c *cli.Context) error {
	cfg := getConfig(c)

	text, err := readText(c)
	if err != nil {
		return err
	}

	s, err := signal.Extract(text, c.String(textURLFlag.Name))
	if errors.Is(err, signal.ErrTextTooShort) {
		s = &signal.Signals{}
	} else if err != nil {
		return fmt.Errorf("failed to extract signals: %w", err)
	}

	tier := scoring.Classify(s)
	return encode(&ScoredText{
		Signals:   s,
		Composite: scoring.Score(s, tier, cfg.Scoring),
	})
}

func readText(c *cli.Context) (string, error) {
	if url := c.String(textURLFlag.Name); url != "" {
		text, err := net.GetText(c.Context, url)
		if err != nil {
			return "", fmt.Errorf("failed to fetch pitch text: %w", err)
		}
		return text, nil
	}

	var r io.Reader = os.Stdin
	if path := c.String(textFileFlag.Name); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("error opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("error reading pitch text: %w", err)
	}
	return string(b), nil
}
