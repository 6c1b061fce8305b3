package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pythlabs/godscore/pkg/data"
)

const queryResultLimitDefault = 20

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	queryCmd = &cli.Command{
		Name:            "query",
		Aliases:         []string{"q"},
		Usage:           "Query scored profiles",
		HideHelpCommand: true,
		Subcommands: []*cli.Command{
			{
				Name:   "top",
				Usage:  "Highest scored profiles",
				Action: cmdQueryTop,
				Flags:  []cli.Flag{queryLimitFlag, formatFlag},
			},
			{
				Name:   "tiers",
				Usage:  "Profile counts and average score per data tier",
				Action: cmdQueryTiers,
				Flags:  []cli.Flag{formatFlag},
			},
		},
	}
)

func cmdQueryTop(c *cli.Context) error {
	cfg := getConfig(c)

	list, err := data.TopProfiles(cfg.DB, c.Int(queryLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to query top profiles: %w", err)
	}
	return encode(list)
}

func cmdQueryTiers(c *cli.Context) error {
	cfg := getConfig(c)

	list, err := data.TierCounts(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to query tier counts: %w", err)
	}
	return encode(list)
}
