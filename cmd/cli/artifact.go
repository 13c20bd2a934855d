package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/routelab/routerisk/pkg/data"
	"github.com/routelab/routerisk/pkg/feature"
	"github.com/routelab/routerisk/pkg/net"
)

var (
	baseURLFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "Base URL of the training pipeline's artifact store (optional, defaults to config)",
	}

	artifactCmd = &cli.Command{
		Name:    "artifact",
		Aliases: []string{"a"},
		Usage:   "List scoring artifact operations",
		Subcommands: []*cli.Command{
			{
				Name:    "fetch",
				Aliases: []string{"f"},
				Usage:   "Downloads the classifier model and reference table",
				Action:  cmdArtifactFetch,
				Flags: []cli.Flag{
					baseURLFlag,
				},
			},
			{
				Name:   "fit",
				Usage:  "Fits scaler parameters from the imported reference table",
				Action: cmdArtifactFit,
				Flags: []cli.Flag{
					scalerPathFlag,
				},
			},
		},
	}
)

type ArtifactFetchResult struct {
	URL      string   `json:"url,omitempty"`
	Files    []string `json:"files,omitempty"`
	Duration string   `json:"duration,omitempty"`
}

func cmdArtifactFetch(c *cli.Context) error {
	start := time.Now()

	cfg, err := getConfig()
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	base := cfg.ArtifactBaseURL
	if u := c.String(baseURLFlag.Name); u != "" {
		base = u
	}
	if base == "" {
		return cli.ShowSubcommandHelp(c)
	}

	targets := []string{cfg.ModelPath, cfg.ReferencePath}

	var g errgroup.Group
	for _, dest := range targets {
		url := base + "/" + filepath.Base(dest)
		dest := dest
		g.Go(func() error {
			log.WithFields(log.Fields{"url": url, "dest": dest}).Debug("downloading artifact")
			if err := net.Download(url, dest); err != nil {
				return errors.Wrapf(err, "failed to download: %s", url)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "failed to fetch artifacts")
	}

	res := &ArtifactFetchResult{
		URL:      base,
		Files:    targets,
		Duration: time.Since(start).String(),
	}
	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", res)
	}
	return nil
}

type ArtifactFitResult struct {
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Scaler  string   `json:"scaler"`
}

func cmdArtifactFit(c *cli.Context) error {
	cfg, err := getConfig()
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	scalerPath := cfg.ScalerPath
	if p := c.String(scalerPathFlag.Name); p != "" {
		scalerPath = p
	}

	db := getDBOrFail()
	defer db.Close()

	rows, err := data.ReferenceRows(db)
	if err != nil {
		return errors.Wrap(err, "failed to read reference table")
	}

	scl, err := feature.Fit(rows, feature.Columns)
	if err != nil {
		return errors.Wrap(err, "failed to fit scaler")
	}

	if err := scl.Save(scalerPath); err != nil {
		return errors.Wrap(err, "failed to save scaler")
	}

	res := &ArtifactFitResult{
		Rows:    scl.Rows,
		Columns: scl.Columns,
		Scaler:  scalerPath,
	}
	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", res)
	}
	return nil
}
