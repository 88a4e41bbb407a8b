package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"todo_webapp/internal/db"
	"todo_webapp/internal/logger"

	"github.com/joho/godotenv"
)

// Lists pending migration files; with -apply, runs them in name order
// against DATABASE_URL. The schema statements are idempotent, so re-applying
// is safe.
func main() {
	_ = godotenv.Load()

	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	files, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("read migrations dir", "dir", *dir, "error", err)
	}

	for _, f := range files {
		name := f.Name()
		if !*apply {
			logger.Info("pending migration", "file", name)
			continue
		}
		b, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatal("read migration", "file", name, "error", err)
		}
		if _, err := pool.Exec(context.Background(), string(b)); err != nil {
			logger.Fatal("apply migration", "file", name, "error", err)
		}
		logger.Info("applied migration", "file", name)
	}
}
