package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/routelab/routerisk/pkg/data"
)

var (
	referenceFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Path to the reference CSV export (optional, defaults to config)",
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "List data import operations",
		Subcommands: []*cli.Command{
			{
				Name:    "reference",
				Aliases: []string{"r"},
				Usage:   "Imports the training pipeline's reference feature table",
				Action:  cmdImportReference,
				Flags: []cli.Flag{
					referenceFileFlag,
				},
			},
		},
	}
)

type ReferenceImportResult struct {
	File     string `json:"file,omitempty"`
	Rows     int    `json:"rows"`
	Duration string `json:"duration,omitempty"`
}

func cmdImportReference(c *cli.Context) error {
	start := time.Now()

	cfg, err := getConfig()
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	p := cfg.ReferencePath
	if v := c.String(referenceFileFlag.Name); v != "" {
		p = v
	}

	fr, err := os.Open(p)
	if err != nil {
		return errors.Wrapf(err, "failed to open reference file: %s", p)
	}
	defer fr.Close()

	db := getDBOrFail()
	defer db.Close()

	n, err := data.ImportReference(db, fr)
	if err != nil {
		return errors.Wrap(err, "failed to import reference table")
	}

	res := &ReferenceImportResult{
		File:     p,
		Rows:     n,
		Duration: time.Since(start).String(),
	}
	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", res)
	}
	return nil
}
