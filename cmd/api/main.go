package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checklist-backend/internal/database"
	"checklist-backend/internal/domain"
	"checklist-backend/internal/repository"
	"checklist-backend/internal/server"
	"checklist-backend/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// Give in-flight requests 5 seconds to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		}
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	var (
		dbService database.Service
		repo      repository.ChecklistRepository
	)

	if os.Getenv("CHECKLIST_DB_DRIVER") == "snapshot" {
		path := os.Getenv("CHECKLIST_DB_PATH")
		if path == "" {
			path = "./checklist.json"
		}
		snap, err := repository.NewSnapshotRepository(path)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		repo = snap
		dbService = database.NewSnapshotService(path)
	} else {
		dbService = database.New()
		gormDB := dbService.GetDB()

		if err := gormDB.AutoMigrate(&domain.Section{}, &domain.Item{}); err != nil {
			log.Fatalf("Failed to auto-migrate database: %v", err)
		}

		repo = repository.NewGormChecklistRepository(gormDB)

		// A fresh store starts from the built-in template, like the snapshot
		// variant does. A populated store is left alone.
		err := repo.SeedDefaultTemplate(context.Background())
		switch {
		case err == nil:
			log.Println("Initialized empty store with the default template.")
		case errors.Is(err, domain.ErrInvalidArgument):
			// Store already has data.
		default:
			log.Fatalf("Failed to seed default template: %v", err)
		}
	}

	checklistService := service.NewChecklistService(repo)

	chiServer := server.NewServer(checklistService, dbService)

	done := make(chan bool, 1)

	go gracefulShutdown(chiServer, dbService, done)

	log.Printf("Starting server on %s", chiServer.Addr)
	err := chiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
