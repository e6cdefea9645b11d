/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rewards engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Load reward rules (file or built-in catalog)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: rewards.db)
           Use ":memory:" for in-memory database
  -rules   Path to a JSON reward-rules file; when empty, the
           built-in Singapore card catalog is used

ENVIRONMENT:
  PORT, DB_PATH, RULES_PATH and LOG_LEVEL mirror the flags; flags win
  when both are set. A .env file in the working directory is loaded
  first.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and custom rules
  ./server -db="./data/rewards.db" -rules="./rules.json"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - factory/rules.go: Rule loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cardwise/rewards-engine/api"
	"github.com/cardwise/rewards-engine/factory"
	"github.com/cardwise/rewards-engine/rules"
	"github.com/cardwise/rewards-engine/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Flags (environment supplies the defaults)
	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "rewards.db"), "SQLite database path")
	rulesPath := flag.String("rules", envStr("RULES_PATH", ""), "JSON reward-rules file (empty: built-in catalog)")
	flag.Parse()

	log := newLogger(envStr("LOG_LEVEL", "info"))

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	// Load reward rules
	set, err := loadRules(*rulesPath)
	if err != nil {
		log.WithError(err).WithField("path", *rulesPath).Fatal("Failed to load reward rules")
	}
	log.WithField("cards", set.Len()).Info("Reward rules loaded")

	// Initialize handler and router
	handler := api.NewHandler(store, set)
	router := api.NewRouter(handler, log)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server stopped")
}

func loadRules(path string) (*rules.Set, error) {
	if path == "" {
		return factory.BuiltinRules(), nil
	}
	return factory.LoadRules(path)
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
