package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Wipes all verification state for local testing. Never run this
// against a production database.
func main() {
	fmt.Println("Reset verification database")
	fmt.Println()
	fmt.Println("WARNING: this deletes all pending verifications, SMS logs,")
	fmt.Println("delay markers, phone records and blacklist entries.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("Aborted.")
		return
	}

	godotenv.Load()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		envOr("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_NAME", "niftysvs_db"),
	)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	tables := []string{
		"pending_verifications",
		"sms_logs",
		"sms_delayed_numbers",
		"user_phone_numbers",
		"blacklisted_numbers",
	}
	for _, table := range tables {
		if _, err := pool.Exec(context.Background(), "TRUNCATE TABLE "+table+" RESTART IDENTITY"); err != nil {
			log.Fatalf("truncate %s failed: %v", table, err)
		}
		fmt.Printf("  cleared %s\n", table)
	}

	fmt.Println("Done.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
