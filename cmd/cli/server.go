package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/routelab/routerisk/pkg/logging"
	"github.com/routelab/routerisk/pkg/score"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	serverCmd = &cli.Command{
		Name:   "server",
		Usage:  "Start local HTTP scoring server",
		Action: cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
			modelPathFlag,
			scalerPathFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)

	scorer, err := makeScorer(c)
	if err != nil {
		return err
	}

	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	mux := makeRouter(scorer)
	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", address)

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(s *score.Scorer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("POST /v1/score", scoreAPIHandler(s))

	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// scoreAPIHandler serves the same payload and response contract as the
// score command: routes JSON in, bare number or array out.
func scoreAPIHandler(s *score.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		w.Header().Set("Content-Type", "application/json")

		routes, err := score.DecodeRoutes(r.Body)
		if err != nil {
			slog.Warn("bad score request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			_ = score.WriteError(w, err)
			return
		}

		results := s.ScoreRoutes(routes)

		if err := score.WriteResult(w, results); err != nil {
			slog.Error("error encoding scores", "error", err)
		}
	}
}
