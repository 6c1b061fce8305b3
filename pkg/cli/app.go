package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/pythlabs/godscore/pkg/config"
	"github.com/pythlabs/godscore/pkg/data"
	"github.com/pythlabs/godscore/pkg/logging"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Sqlite file path or postgres:// URL",
	}

	configFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to scoring config YAML (optional, defaults built in)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DSN     string
	Debug   bool
	DB      *sqlx.DB
	Scoring *config.Scoring
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "godscore",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for scoring startup quality from pitch text",
		Flags: []urfave.Flag{
			debugFlag,
			dbFlag,
			configFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			importCmd,
			scoreCmd,
			calibrateCmd,
			monitorCmd,
			queryCmd,
			serverCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			dsn := c.String(dbFlag.Name)
			if dsn == "" {
				dsn = path.Join(getHomeDir(), data.DataFileName)
			}

			if err := data.Init(dsn); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dsn)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			scoring, err := config.Load(c.String(configFlag.Name))
			if err != nil {
				return fmt.Errorf("loading scoring config: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				DSN:     dsn,
				Debug:   c.Bool(debugFlag.Name),
				DB:      db,
				Scoring: scoring,
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, ".godscore")
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
