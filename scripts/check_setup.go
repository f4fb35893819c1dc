//go:build ignore
// +build ignore

// Checks the local SchemeBot setup: run with
//
//	go run scripts/check_setup.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"schemebot/internal/config"
	"schemebot/internal/services/catalog"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️  No .env file found, using environment variables")
	}

	fmt.Println("🔍 Checking SchemeBot Setup...")
	fmt.Println()

	// Test 1: Check environment variables
	fmt.Println("1️⃣  Checking Environment Variables:")
	checkEnvVar("GEMINI_API_KEY")
	checkEnvVar("CATALOG_PATH")
	checkEnvVar("DB_HOST")
	checkEnvVar("DB_PASSWORD")
	checkEnvVar("AWS_REGION")
	checkEnvVar("SES_FROM_EMAIL")
	checkEnvVar("REPORT_TO_EMAIL")
	fmt.Println()

	// Test 2: Catalog
	fmt.Println("2️⃣  Checking Catalog:")
	testCatalog()
	fmt.Println()

	// Test 3: Database connection
	fmt.Println("3️⃣  Testing Database Connection:")
	testDatabaseConnection()
	fmt.Println()

	fmt.Println("✅ Setup checks complete!")
}

func checkEnvVar(name string) {
	value := os.Getenv(name)
	if value == "" {
		fmt.Printf("   ❌ %s: NOT SET\n", name)
	} else {
		// Mask sensitive values
		masked := value
		if len(value) > 8 && (name == "GEMINI_API_KEY" || name == "DB_PASSWORD") {
			masked = value[:4] + "..." + value[len(value)-4:]
		}
		fmt.Printf("   ✅ %s: %s\n", name, masked)
	}
}

func testCatalog() {
	ctx := context.Background()

	var source catalog.Source = catalog.SeedSource{}
	label := "bundled"
	if path := os.Getenv("CATALOG_PATH"); path != "" {
		source = catalog.FileSource{Path: path}
		label = path
	}

	schemes, err := source.Load(ctx)
	if err != nil {
		fmt.Printf("   ❌ Catalog (%s) failed to load: %v\n", label, err)
		return
	}
	fmt.Printf("   ✅ Catalog (%s): %d schemes\n", label, len(schemes))
}

func testDatabaseConnection() {
	if os.Getenv("DB_HOST") == "" && os.Getenv("DB_PASSWORD") == "" {
		fmt.Println("   ⚠️  DB settings not set, the server will use the bundled catalog")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("   ❌ Config failed to load: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Printf("   ❌ Database connection failed: %v\n", err)
		return
	}
	defer conn.Close(ctx)

	// Test query
	var result int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&result); err != nil {
		fmt.Printf("   ❌ Database query failed: %v\n", err)
		return
	}

	fmt.Println("   ✅ Database connection successful!")

	// Check if tables exist
	var tableCount int
	err = conn.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN ('schemes', 'match_reports', 'notifications')
	`).Scan(&tableCount)

	if err == nil {
		fmt.Printf("   📊 Tables found: %d/3 (schemes, match_reports, notifications)\n", tableCount)
		if tableCount < 3 {
			fmt.Println("   💡 Run: go run scripts/init_db.go")
		}
	}
}
