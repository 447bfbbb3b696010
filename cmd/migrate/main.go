package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		log.Fatal("DB_DSN or DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("Connected to database")

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL UNIQUE,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		log.Fatal("Failed to create schema_migrations table:", err)
	}

	migrationsDir := "db/migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		log.Fatal("Failed to read migrations directory:", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	// Migrations apply in lexicographic order.
	sort.Strings(migrationFiles)

	fmt.Printf("Found %d migration files\n", len(migrationFiles))

	for _, filename := range migrationFiles {
		path := filepath.Join(migrationsDir, filename)

		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE filename = $1", filename).Scan(&count)
		if err != nil {
			log.Fatal("Failed to check migration status:", err)
		}

		if count > 0 {
			fmt.Printf("Skipping %s (already applied)\n", filename)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("Failed to read migration file:", err)
		}

		fmt.Printf("Applying %s...\n", filename)
		_, err = db.Exec(string(content))
		if err != nil {
			log.Fatal("Failed to apply migration:", err)
		}

		checksum := fmt.Sprintf("%x", len(content)) // Simple checksum for now
		_, err = db.Exec("INSERT INTO schema_migrations (filename, checksum) VALUES ($1, $2)", filename, checksum)
		if err != nil {
			log.Fatal("Failed to record migration:", err)
		}

		fmt.Printf("Applied %s successfully\n", filename)
	}

	fmt.Println("All migrations applied successfully")
}
