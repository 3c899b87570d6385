// Command shotform-server runs the analysis HTTP API backed by a sqlite
// run store.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hooplab/shotform/internal/analysis"
	"github.com/hooplab/shotform/internal/api"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/monitoring"
	"github.com/hooplab/shotform/internal/store"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dbPath        = flag.String("db", "shotform.db", "Path to the sqlite run store")
	migrationsDir = flag.String("migrations", "migrations", "Path to the migrations directory")
	configPath    = flag.String("config", "", "Ideal-shot config path (built-in defaults when empty)")
	shoulderOn    = flag.Bool("shoulder-alignment", false, "Enable the shoulder-alignment detector")
	verbose       = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Parse()
	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	monitoring.SetDebug(*verbose)

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer st.Close()
	if err := st.MigrateUp(*migrationsDir); err != nil {
		log.Fatalf("Failed to migrate run store: %v", err)
	}
	version, dirty, err := st.MigrateVersion(*migrationsDir)
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	log.Printf("run store %s at schema version %d (dirty=%v)", *dbPath, version, dirty)

	flags := config.DefaultDetectorFlags()
	flags.ShoulderAlignment = *shoulderOn
	analyzer := analysis.New(config.LoadOrDefault(*configPath), flags)

	srv := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(api.NewServer(analyzer, st).ServeMux()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("listening on %s", *listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Print("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	wg.Wait()
}
