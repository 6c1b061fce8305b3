package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pythlabs/godscore/pkg/data"
	"github.com/pythlabs/godscore/pkg/net"
)

var (
	fileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Path to a JSONL file, one record per line (default: stdin)",
	}

	importURLFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "URL returning a JSON array of profiles",
	}

	importCmd = &cli.Command{
		Name:            "import",
		Aliases:         []string{"i"},
		Usage:           "Import profiles and match outcomes",
		HideHelpCommand: true,
		Subcommands: []*cli.Command{
			{
				Name:  "profiles",
				Usage: "Import startup profiles from JSONL",
				UsageText: `godscore import profiles --file pitches.jsonl
   godscore import profiles --url https://example.com/pitches.json
   cat pitches.jsonl | godscore import profiles`,
				Action: cmdImportProfiles,
				Flags:  []cli.Flag{fileFlag, importURLFlag},
			},
			{
				Name:  "outcomes",
				Usage: "Import match outcomes from JSONL",
				UsageText: `godscore import outcomes --file outcomes.jsonl
   cat outcomes.jsonl | godscore import outcomes`,
				Action: cmdImportOutcomes,
				Flags:  []cli.Flag{fileFlag},
			},
		},
	}
)

// ImportResult summarizes one bulk import.
type ImportResult struct {
	Imported int `json:"imported" yaml:"imported"`
	Failed   int `json:"failed" yaml:"failed"`
}

func cmdImportProfiles(c *cli.Context) error {
	cfg := getConfig(c)

	res := &ImportResult{}
	save := func(p *data.Profile) {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := data.SaveProfile(cfg.DB, p); err != nil {
			slog.Warn("failed to save profile", "id", p.ID, "error", err)
			res.Failed++
			return
		}
		res.Imported++
	}

	if url := c.String(importURLFlag.Name); url != "" {
		var profiles []data.Profile
		if err := net.GetJSON(c.Context, url, &profiles); err != nil {
			return fmt.Errorf("failed to fetch profiles from %s: %w", url, err)
		}
		for i := range profiles {
			save(&profiles[i])
		}
	} else {
		err := eachLine(c.String(fileFlag.Name), func(line []byte) {
			var p data.Profile
			if err := json.Unmarshal(line, &p); err != nil {
				slog.Warn("skipping malformed profile line", "error", err)
				res.Failed++
				return
			}
			save(&p)
		})
		if err != nil {
			return err
		}
	}

	slog.Info("profiles imported", "imported", res.Imported, "failed", res.Failed)
	return encode(res)
}

func cmdImportOutcomes(c *cli.Context) error {
	cfg := getConfig(c)

	res := &ImportResult{}
	err := eachLine(c.String(fileFlag.Name), func(line []byte) {
		var o data.MatchOutcome
		if err := json.Unmarshal(line, &o); err != nil {
			slog.Warn("skipping malformed outcome line", "error", err)
			res.Failed++
			return
		}
		if err := data.SaveOutcome(cfg.DB, &o); err != nil {
			slog.Warn("failed to save outcome", "profile", o.ProfileID, "error", err)
			res.Failed++
			return
		}
		res.Imported++
	})
	if err != nil {
		return err
	}

	slog.Info("outcomes imported", "imported", res.Imported, "failed", res.Failed)
	return encode(res)
}

// eachLine streams non-empty lines from the given file, or stdin when
// the path is empty.
func eachLine(path string, fn func(line []byte)) error {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("error opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
