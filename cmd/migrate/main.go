package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rl1809/garage-ledger/internal/adapter/storage"
	"github.com/rl1809/garage-ledger/internal/config"
	"github.com/rl1809/garage-ledger/internal/pkg/logger"
	"github.com/rl1809/garage-ledger/migrations"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-env file] up|down|reset|status\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	lg, err := logger.New("dev")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	// migrate does not sign tokens, so a missing secret is fine here
	cfg, err := config.Load(*envFile)
	if err != nil && err != config.ErrMissingSecret {
		lg.Fatal("failed to load config", "error", err)
	}

	ctx := context.Background()
	db, err := storage.OpenMySQL(ctx, cfg.MySQLDSN)
	if err != nil {
		lg.Fatal("failed to connect mysql", "error", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db, command); err != nil {
		lg.Fatal("migration failed", "command", command, "error", err)
	}
	lg.Info("migration finished", "command", command)
}
