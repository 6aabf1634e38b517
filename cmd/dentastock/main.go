package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/cache"
	httpserver "dentastock/infrastructure/http"
	"dentastock/infrastructure/rbac"
	"dentastock/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	addr := getenv("APP_ADDR", ":8080")
	baseURL := getenv("APP_BASE_URL", "http://localhost:8080")
	dbPath := getenv("SQLITE_PATH", "dentastock.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// Empty dir means the migrations embedded in the binary.
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sessionCache := cache.NewUserSessionCache()
	userCache := cache.NewUserCache()
	rbacCache := cache.NewRbacRolesCache()
	rbacSvc := rbac.New(rbacCache)
	auditSvc := audit.NewService()

	server := httpserver.NewServer(addr, baseURL, db, sessionCache, userCache, rbacSvc, rbacCache, auditSvc)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("dentastock listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
