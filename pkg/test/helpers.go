package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"todopro/internal/adapter/database"
	"todopro/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until it sees go.mod.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory sqlite store with the schema applied.
// Signing secrets are pinned so tokens and cursors are reproducible
// across test processes.
func InitTestDB() *database.DB {
	if os.Getenv("SECRET_KEY") == "" {
		os.Setenv("SECRET_KEY", "test-secret-key")
	}

	if os.Getenv("JWT_SECRET_KEY") == "" {
		os.Setenv("JWT_SECRET_KEY", "test-jwt-secret-key")
	}

	sqlDB, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	// a second pooled connection would see a fresh empty database
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations", "sqlite")

	if err := sqlite.RunMigrations(sqlDB, migrationsPath); err != nil {
		log.Fatal(err)
	}

	return database.New(sqlDB, squirrel.Question)
}

func TeardownTestDB(t *testing.T, db *database.DB) {
	if db != nil {
		if err := db.Close(); err != nil {
			t.Logf("closing test database: %v", err)
		}
	}
}
