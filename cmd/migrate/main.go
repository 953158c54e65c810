package main

import (
	"context"
	"database/sql"
	"embed"
	"flag"
	"log/slog"
	"os"

	"auctiondelivery/cmd"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	command := flag.String("cmd", "up", "goose command: up|down|status|version|redo|reset")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", "migrate")

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	db, err := sql.Open("postgres", configs.DSN())
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Error setting goose dialect: %v", err)
	}

	logger.Info("running migrations", "cmd", *command)
	if err := goose.RunContext(ctx, *command, db, migrationsDir, flag.Args()...); err != nil {
		log.Fatalf("goose %s failed: %v", *command, err)
	}
	logger.Info("migrations done", "cmd", *command)
}
