// Command mapserve serves stored map runs over HTTP for preview tooling.
package main

import (
	"flag"
	"log/slog"
	"os"

	"cartograph/internal/export"
	"cartograph/internal/server"
)

func main() {
	dbPath := flag.String("db", "data/runs.db", "SQLite run database")
	port := flag.Int("port", 8080, "listen port")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	db, err := export.OpenDB(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	srv := &server.Server{DB: db, Port: *port}
	if err := srv.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
