package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"studio/internal/adapters/cli"
	"studio/internal/adapters/storage"
	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/adapters/storage/current"
	"studio/internal/adapters/storage/kv"
	"studio/internal/application/orchestrators"
	"studio/internal/config"
	"studio/internal/domain/booking"
	"studio/internal/logger"
	"studio/internal/metrics"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Production always logs JSON.
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty && !cfg.IsProduction(), Output: os.Stderr})
	loc, _ := cfg.Location() // checked by config.Load

	db, err := sql.Open("sqlite", storage.DSN(cfg.DBPath))
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	// One writer: each command is a single read-modify-write.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("database unreachable")
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	schema, err := storage.SchemaVersion(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read schema version")
	}
	if schema > storage.LatestSchemaVersion() {
		log.Fatal().Int("schema", schema).Int("supported", storage.LatestSchemaVersion()).Msg("database was written by a newer studio build")
	}
	log.Debug().Str("version", version).Str("env", cfg.Env).Int("schema", schema).Str("db", cfg.DBPath).Msg("studio starting")

	timedDB := storage.NewTimedDB(db, metrics.StoreQueryDuration, cfg.Studio.SlowQuery)
	store := kv.NewSQLiteStore(timedDB)
	stores := cli.Stores{
		AccountStore: accountStore.NewKVStore(store),
		BookingStore: bookingStore.NewKVStore(store),
		CurrentStore: current.NewKVStore(store),
	}

	if _, err := orchestrators.ExecuteSeedDemoAccounts(ctx, orchestrators.DemoSeedDeps{AccountStore: stores.AccountStore}); err != nil {
		log.Fatal().Err(err).Msg("failed to seed demo accounts")
	}

	rules := booking.Rules{Capacity: cfg.Studio.Capacity, ChangeWindow: cfg.Studio.ChangeWindow, Location: loc}
	app := cli.New(stores, rules, cfg.Template(), os.Stdout, prometheus.DefaultGatherer)

	runErr := app.Run(ctx, os.Args[1:])
	if err := timedDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
	if runErr != nil {
		if !errors.Is(runErr, cli.ErrUsage) || len(os.Args) > 1 {
			fmt.Fprintln(os.Stderr, runErr)
		}
		os.Exit(1)
	}
}
