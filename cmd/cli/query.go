package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/routelab/routerisk/pkg/data"
)

const queryResultLimitDefault = 100

var (
	queryLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of result returned",
		Value: queryResultLimitDefault,
	}

	queryCmd = &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List data query operations",
		Subcommands: []*cli.Command{
			{
				Name:    "runs",
				Aliases: []string{"r"},
				Usage:   "List past scoring runs with their per-route scores",
				Action:  cmdQueryRuns,
				Flags: []cli.Flag{
					queryLimitFlag,
				},
			},
		},
	}
)

func cmdQueryRuns(c *cli.Context) error {
	limit := c.Int(queryLimitFlag.Name)
	if limit < 1 || limit > queryResultLimitDefault {
		limit = queryResultLimitDefault
	}

	log.WithFields(log.Fields{"limit": limit}).Debug("query runs")

	db := getDBOrFail()
	defer db.Close()

	list, err := data.ListRuns(db, limit)
	if err != nil {
		return errors.Wrap(err, "failed to query runs")
	}

	if err := json.NewEncoder(os.Stdout).Encode(list); err != nil {
		return errors.Wrapf(err, "error encoding list: %+v", list)
	}
	return nil
}
