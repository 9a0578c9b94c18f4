package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/evidenthq/evident/internal/api"
	"github.com/evidenthq/evident/internal/cli"
	"github.com/evidenthq/evident/internal/db"
	"github.com/evidenthq/evident/internal/export"
	"github.com/evidenthq/evident/internal/repository"
	"github.com/evidenthq/evident/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Session DB path: env var or default ~/.evident/evident.db
	dbPath := os.Getenv("EVIDENT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".evident", "evident.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// PDF downloads land next to the DB unless overridden.
	downloadDir := os.Getenv("EVIDENT_DOWNLOADS")
	if downloadDir == "" {
		downloadDir = filepath.Dir(dbPath)
	}

	client := api.NewClient(api.LoadConfig())
	sessionRepo := repository.NewSQLiteSessionRepo(database)

	session := store.NewSessionStore(client, sessionRepo)
	if err := session.Restore(context.Background()); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}

	app := &cli.App{
		API:         client,
		Session:     session,
		Logs:        store.NewLogStore(client, session),
		Export:      export.NewWorkflow(client, session, downloadDir),
		DownloadDir: downloadDir,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
