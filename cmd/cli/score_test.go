package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/routelab/routerisk/pkg/data"
	"github.com/routelab/routerisk/pkg/score"
)

func captureStdout(t *testing.T) func() string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	return func() string {
		w.Close()
		os.Stdout = old
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		return string(b)
	}
}

// A top-level failure must still put valid JSON on stdout for the caller
// on the other end of the pipe, with failure signaled via the exit code.
func TestScoreCmd_ArtifactFailureContract(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	old := dbFilePath
	t.Cleanup(func() { dbFilePath = old })

	payload := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(payload, []byte(`[[{"lat":1,"lng":2}]]`), 0600))

	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}

	read := captureStdout(t)
	err := app.Run([]string{name,
		"--db", filepath.Join(t.TempDir(), "test.db"),
		"score", "--file", payload,
	})
	out := read()

	require.Error(t, err)
	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, 1, ec.ExitCode())
	assert.Contains(t, out, `{"error":`)
}

// A history database that cannot be created must never fail a scoring run.
func TestRecordRun_BestEffort(t *testing.T) {
	old := dbFilePath
	t.Cleanup(func() { dbFilePath = old })
	dbFilePath = filepath.Join(t.TempDir(), "missing-dir", "test.db")

	recordRun(time.Now(), []score.RouteScore{{Score: 0.05, Points: 1}})

	_, err := os.Stat(dbFilePath)
	assert.Error(t, err)
}

func TestRecordRun_PersistsRun(t *testing.T) {
	old := dbFilePath
	t.Cleanup(func() { dbFilePath = old })
	dbFilePath = filepath.Join(t.TempDir(), "test.db")

	recordRun(time.Now(), []score.RouteScore{
		{Score: 0.05, Points: 2},
		{Score: 0.5, Fallback: true},
	})

	db, err := data.GetDB(dbFilePath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := data.ListRuns(db, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Routes)
	assert.Equal(t, 2, runs[0].Points)
	require.Len(t, runs[0].Scores, 2)
	assert.True(t, runs[0].Scores[1].Fallback)
}
