/*
main.go - Server entry point

PURPOSE:
  Starts the HTTP service: opens the SQLite store, loads the pricing
  history into an immutable catalog snapshot (integrity-checked once,
  fatal on violation), and serves the API until interrupted.

FLAGS:
  -port    HTTP server port (default 8080)
  -db      SQLite database path (default tuition.db)
  -config  Engine YAML config path (optional)
  -demo    Seed the demo catalog into an empty database

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridian/tuition-engine/api"
	"github.com/meridian/tuition-engine/factory"
	"github.com/meridian/tuition-engine/pricing"
	"github.com/meridian/tuition-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "tuition.db", "SQLite database path")
	cfgPath := flag.String("config", "", "engine YAML config path")
	demo := flag.Bool("demo", false, "seed the demo catalog into an empty database")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	cfg := pricing.DefaultConfig()
	if *cfgPath != "" {
		cfg, err = pricing.LoadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else if *demo {
		cfg = factory.DemoConfig()
	}

	ctx := context.Background()
	records, err := store.LoadRecords(ctx)
	if err != nil {
		log.Fatalf("Failed to load pricing records: %v", err)
	}
	if len(records) == 0 && *demo {
		records = factory.DemoRecords()
		if err := store.SaveRecords(ctx, records); err != nil {
			log.Fatalf("Failed to seed demo catalog: %v", err)
		}
		log.Printf("Seeded %d demo pricing records", len(records))
	}

	// Integrity violations are fatal: resolution over an ambiguous
	// catalog would be non-deterministic.
	catalog, err := pricing.NewCatalog(records)
	if err != nil {
		log.Fatalf("Catalog rejected: %v", err)
	}
	log.Printf("Catalog loaded: %d records across %d scopes", catalog.Len(), len(catalog.ScopeKeys()))

	handler := api.NewHandler(store, cfg, catalog)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
