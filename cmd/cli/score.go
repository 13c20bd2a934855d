package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/routelab/routerisk/pkg/data"
	"github.com/routelab/routerisk/pkg/feature"
	"github.com/routelab/routerisk/pkg/model"
	"github.com/routelab/routerisk/pkg/score"
)

var (
	modelPathFlag = &cli.StringFlag{
		Name:  "model",
		Usage: "Path to the serialized classifier (optional, defaults to config)",
	}

	scalerPathFlag = &cli.StringFlag{
		Name:  "scaler",
		Usage: "Path to the fitted scaler parameters (optional, defaults to config)",
	}

	payloadFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Read the routes payload from a file instead of stdin",
	}

	scoreCmd = &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score routes read as a JSON array from stdin",
		Action:  cmdScore,
		Flags: []cli.Flag{
			modelPathFlag,
			scalerPathFlag,
			payloadFileFlag,
		},
	}
)

func cmdScore(c *cli.Context) error {
	in := io.Reader(os.Stdin)
	if p := c.String(payloadFileFlag.Name); p != "" {
		fr, err := os.Open(p)
		if err != nil {
			return scoreFailed(errors.Wrapf(err, "failed to open payload file: %s", p))
		}
		defer fr.Close()
		in = fr
	}

	s, err := makeScorer(c)
	if err != nil {
		return scoreFailed(err)
	}

	routes, err := score.DecodeRoutes(in)
	if err != nil {
		return scoreFailed(err)
	}

	start := time.Now()
	results := s.ScoreRoutes(routes)

	recordRun(start, results)

	if err := score.WriteResult(os.Stdout, results); err != nil {
		return errors.Wrap(err, "error encoding scores")
	}
	return nil
}

// scoreFailed writes the error object to stdout so the caller on the other
// end of the pipe always gets valid JSON, then fails the process. Detail
// goes to stderr.
func scoreFailed(err error) error {
	if werr := score.WriteError(os.Stdout, err); werr != nil {
		log.Errorf("error encoding failure: %v", werr)
	}
	return cli.Exit(err.Error(), 1)
}

func makeScorer(c *cli.Context) (*score.Scorer, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	modelPath := cfg.ModelPath
	if p := c.String(modelPathFlag.Name); p != "" {
		modelPath = p
	}
	scalerPath := cfg.ScalerPath
	if p := c.String(scalerPathFlag.Name); p != "" {
		scalerPath = p
	}

	log.WithFields(log.Fields{
		"model":  modelPath,
		"scaler": scalerPath,
	}).Debug("loading artifacts")

	clf, err := model.Load(modelPath)
	if err != nil {
		return nil, errors.Wrap(score.ErrArtifactLoad, err.Error())
	}
	scl, err := feature.Load(scalerPath)
	if err != nil {
		return nil, errors.Wrap(score.ErrArtifactLoad, err.Error())
	}

	s, err := score.New(clf, scl)
	if err != nil {
		return nil, err
	}
	if cfg.FallbackScore != nil {
		s.Fallback = *cfg.FallbackScore
	}
	return s, nil
}

// recordRun appends the run to the local history table. Best effort: a
// history failure never fails a scoring run.
func recordRun(start time.Time, results []score.RouteScore) {
	if err := data.Init(dbFilePath); err != nil {
		log.Debugf("history not recorded: %v", err)
		return
	}
	db, err := data.GetDB(dbFilePath)
	if err != nil {
		log.Debugf("history not recorded: %v", err)
		return
	}
	defer db.Close()

	run := &data.Run{
		ScoredAt:   start.UTC(),
		Routes:     len(results),
		DurationMS: time.Since(start).Milliseconds(),
	}
	for i, r := range results {
		run.Points += r.Points
		run.Scores = append(run.Scores, data.RunScore{Route: i, Score: r.Score, Fallback: r.Fallback})
	}

	if _, err := data.SaveRun(db, run); err != nil {
		log.Debugf("history not recorded: %v", err)
	}
}
