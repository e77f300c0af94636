/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the scheduling & compensation server. Handles
  flags, logging, snapshot loading, dependency wiring, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, configure zerolog
  2. Open the SQLite snapshot store
  3. Load the committed week tree, history ledger, and roster
  4. Wire the planning store, settings source, and HTTP handler
  5. Start the server; drain on SIGINT/SIGTERM

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite snapshot path (default: proago.db, ":memory:" works)
  -settings  Settings YAML path (default: settings.yaml; optional)
  -dev       Console log output instead of JSON

EXAMPLES:
  ./server -db=./data/proago.db -settings=./settings.yaml
  ./server -db=":memory:" -dev

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Snapshot store
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/api"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/planning"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/settings"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "proago.db", "SQLite snapshot path")
	settingsPath := flag.String("settings", "settings.yaml", "Settings YAML path")
	dev := flag.Bool("dev", false, "Console log output")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if *dev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	snap, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("failed to open snapshot store")
	}
	defer snap.Close()

	src, err := settings.NewSource(*settingsPath)
	if err != nil {
		log.Fatal().Err(err).Str("settings", *settingsPath).Msg("failed to load settings")
	}

	ctx := context.Background()

	hist := ledger.New()
	rows, err := snap.LoadHistory(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load history snapshot")
	}
	hist.Replace(rows)

	crew := roster.New()
	recs, err := snap.LoadRecruiters(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load recruiters")
	}
	crew.Replace(recs)

	plans := planning.NewStore(hist, crew, snap)
	weeks, err := snap.LoadWeeks(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load week plans")
	}
	plans.ReplaceWeeks(weeks)

	log.Info().
		Int("history_rows", len(rows)).
		Int("recruiters", len(recs)).
		Int("weeks", len(weeks)).
		Int("rate_bands", len(src.Current().RateBands)).
		Msg("snapshot loaded")

	handler := api.NewHandler(plans, hist, crew, src, snap, log.Logger)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", *port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
