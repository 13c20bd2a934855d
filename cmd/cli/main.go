package main

import (
	"database/sql"
	"fmt"
	"os"
	"path"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/routelab/routerisk/pkg/config"
	"github.com/routelab/routerisk/pkg/data"
)

var (
	name    = "routerisk"
	version = "v0.0.1-default"
	commit  = ""

	dbFilePath = path.Join(getHomeDir(), data.DataFileName)
	debug      = false

	debugFlag = &cli.BoolFlag{
		Name:        "debug",
		Usage:       "Prints verbose logs (optional, default: false)",
		Destination: &debug,
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:        "db",
		Usage:       fmt.Sprintf("Path to the Sqlite database file (optional, defaults to $HOME/.%s/data.db)", name),
		Destination: &dbFilePath,
		Value:       dbFilePath,
	}
)

func main() {
	initLogging()

	if err := newApp().Run(os.Args); err != nil {
		fatalErr(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     name,
		Version:  fmt.Sprintf("%s - (commit: %s)", version, commit),
		Compiled: time.Now(),
		Usage:    "CLI for route risk scoring",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
		},
		Commands: []*cli.Command{
			scoreCmd,
			artifactCmd,
			importCmd,
			queryCmd,
			serverCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				log.SetLevel(log.DebugLevel)
			}

			if p := c.String(dbFilePathFlag.Name); p != "" {
				dbFilePath = p
			}
			return nil
		},
	}
}

func fatalErr(err error) {
	if err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

// getDBOrFail initializes and opens the history database. Only commands
// whose whole purpose is the database use it; the scoring path treats the
// database as best effort instead (see recordRun).
func getDBOrFail() *sql.DB {
	if err := data.Init(dbFilePath); err != nil {
		log.Fatalf("fatal error initializing DB: %v", err)
	}
	db, err := data.GetDB(dbFilePath)
	if err != nil {
		log.Fatalf("fatal error opening DB: %v", err)
	}
	return db
}

func getConfig() (*config.Config, error) {
	return config.ReadOrCreate(getHomeDir())
}

// Diagnostics go to stderr only; stdout carries the JSON contract.
func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

func getHomeDir() string {
	dir, created, err := config.GetOrCreateHomeDir(name)
	if err != nil {
		log.Debugf("error getting home dir, using current dir instead: %v", err)
		return "."
	}
	if created {
		log.Debugf("created home dir: %s", dir)
	}
	return dir
}
