package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"dentastock/frontend/login"
	"dentastock/infrastructure/rbac"
	"dentastock/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	dbPath := getenv("SQLITE_PATH", "dentastock.db")
	adminEmail := getenv("ADMIN_EMAIL", "admin@dentastock.local")
	adminName := getenv("ADMIN_NAME", "Administrator")
	adminPassword := getenv("ADMIN_PASSWORD", "Admin123!Dentastock")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	if err := login.UpsertUserPasswordHash(context.Background(), db, adminEmail, adminName, rbac.RoleAdmin, adminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Printf("seeded admin user (email=%s)\n", adminEmail)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
