/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Build the slog logger
  3. Initialize SQLite store
  4. Load the holiday calendar (API with default fallback)
  5. Restore the persisted batch, if any
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port         HTTP server port (default: 8080)
  -db           SQLite database path (default: attendance.db)
                Use ":memory:" for in-memory database
  -holiday-url  Holiday API base URL (default: data.go.kr endpoint)
  -holiday-key  Holiday API service key; empty skips the fetch and uses
                the built-in default holidays

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/attendance.db"

  # Run with live holiday data
  ./server -holiday-key="$DATA_GO_KR_KEY"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/holiday"
	"github.com/warp/attendance-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "attendance.db", "SQLite database path")
	holidayURL := flag.String("holiday-url", holiday.DefaultBaseURL, "holiday API base URL")
	holidayKey := flag.String("holiday-key", "", "holiday API service key (empty uses built-in defaults)")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Error("failed to initialize database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Load the holiday calendar: live data when a key is configured, the
	// built-in defaults otherwise.
	var cal *attendance.Calendar
	if *holidayKey != "" {
		client := holiday.NewClient(*holidayURL, *holidayKey, log)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		cal = client.Load(ctx, time.Now().Year())
		cancel()
	} else {
		cal = holiday.DefaultCalendar()
		log.Info("no holiday API key, using default holidays", "count", cal.Len())
	}

	// Initialize handler and restore any persisted session
	handler := api.NewHandler(store, cal, log)
	restore(context.Background(), handler, store, log)

	// Create router and server
	router := api.NewRouter(handler, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", *port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// restore reloads the persisted batch and holiday overrides. Failures are
// logged, not fatal: the server starts empty instead.
func restore(ctx context.Context, handler *api.Handler, store *sqlite.Store, log *slog.Logger) {
	overrides, err := store.ListHolidayOverrides(ctx)
	if err != nil {
		log.Warn("failed to load holiday overrides", "error", err)
	}

	sheet, records, ok, err := store.LoadBatch(ctx)
	if err != nil {
		log.Warn("failed to load persisted batch", "error", err)
		return
	}
	if !ok && len(overrides) == 0 {
		return
	}
	handler.Restore(sheet, records, overrides)
}
