package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"schemebot/internal/config"
	"schemebot/internal/services/catalog"
	"schemebot/internal/services/database"
)

func main() {
	fmt.Println("=== SchemeBot Database Initialization ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// First connect to the default 'postgres' database to create ours
	databaseURL := cfg.DatabaseURL()
	postgresURL := strings.Replace(databaseURL, "/"+cfg.DBName+"?", "/postgres?", 1)
	fmt.Println("📡 Connecting to PostgreSQL server...")

	adminConn, err := pgx.Connect(ctx, postgresURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	// Check if the database exists
	var exists bool
	err = adminConn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		fmt.Printf("❌ Failed to check database existence: %v\n", err)
		adminConn.Close(ctx)
		os.Exit(1)
	}

	if !exists {
		fmt.Printf("📦 Creating %q database...\n", cfg.DBName)
		_, err = adminConn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize())
		if err != nil {
			fmt.Printf("❌ Failed to create database: %v\n", err)
			adminConn.Close(ctx)
			os.Exit(1)
		}
		fmt.Printf("✅ Database %q created!\n", cfg.DBName)
	} else {
		fmt.Printf("✅ Database %q already exists\n", cfg.DBName)
	}
	adminConn.Close(ctx)

	// Now connect to the schemebot database
	fmt.Printf("📡 Connecting to %s database...\n", cfg.DBName)
	db, err := database.NewFromURL(databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database successfully!")
	fmt.Println()

	// Create tables
	fmt.Println("🚀 Preparing tables...")
	schemeRepo := database.NewSchemeRepository(db)
	if err := schemeRepo.EnsureSchema(ctx); err != nil {
		fmt.Printf("❌ Failed to create schemes table: %v\n", err)
		os.Exit(1)
	}
	reportRepo := database.NewReportRepository(db)
	if err := reportRepo.EnsureSchema(ctx); err != nil {
		fmt.Printf("❌ Failed to create report tables: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Tables ready!")
	fmt.Println()

	// Seed the catalog. CATALOG_PATH overrides the bundled schemes.
	var source catalog.Source = catalog.SeedSource{}
	label := "bundled catalog"
	if cfg.CatalogPath != "" {
		source = catalog.FileSource{Path: cfg.CatalogPath}
		label = cfg.CatalogPath
	}

	fmt.Printf("📖 Loading schemes from %s...\n", label)
	schemes, err := source.Load(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to load schemes: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🚀 Upserting %d schemes...\n", len(schemes))
	if err := schemeRepo.UpsertAll(ctx, schemes); err != nil {
		fmt.Printf("❌ Failed to store schemes: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Schemes stored successfully!")
	fmt.Println()

	// Verify by listing what the server will serve
	fmt.Println("🔍 Verifying database setup...")
	stored, err := schemeRepo.Load(ctx)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not read schemes back: %v\n", err)
	} else {
		fmt.Printf("   📦 Schemes in database: %d\n", len(stored))
		fmt.Println()
		fmt.Println("   📋 Catalog:")
		fmt.Println("   ─────────────────────────────────────────────────────────")
		for i, s := range stored {
			fmt.Printf("   %d. %s [%s]\n", i+1, s.Name, s.ID)
			fmt.Printf("      Ages: %s | Genders: %s | States: %s\n",
				ageRange(s.MinAge, s.MaxAge), facet(s.Genders), facet(s.States))
		}
		fmt.Println("   ─────────────────────────────────────────────────────────")
	}

	fmt.Println()
	fmt.Println("🎉 Database initialization completed successfully!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Start the API: DB_HOST=localhost go run ./cmd/server")
	fmt.Println("  2. Or chat in the terminal: go run ./cmd/schemebot")
}

func ageRange(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%d-%d", *min, *max)
	case min != nil:
		return fmt.Sprintf("%d+", *min)
	case max != nil:
		return fmt.Sprintf("up to %d", *max)
	}
	return "any"
}

func facet(values []string) string {
	if len(values) == 0 {
		return "any"
	}
	return strings.Join(values, ", ")
}
