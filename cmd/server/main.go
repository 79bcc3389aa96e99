/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift-engine server backing the tracker
  UI. Handles configuration, dependency injection and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags; env overrides defaults
  2. Open the SQLite store
  3. Wire the punch lifecycle to the store
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

CONFIGURATION:
  -port    HTTP server port        (env PORT, default 8080)
  -db      SQLite database path    (env DB_PATH, default shifts.db)
           Use ":memory:" for an in-memory database
  -tz      IANA timezone for local-date attribution
           (env TZ_NAME, default: the system local zone)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait for in-flight
  requests (30s timeout), close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/clockwise/shift-engine/api"
	"github.com/clockwise/shift-engine/shift"
	"github.com/clockwise/shift-engine/store/sqlite"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "shifts.db"), "SQLite database path")
	tzName := flag.String("tz", envStr("TZ_NAME", ""), "IANA timezone for shift attribution")
	flag.Parse()

	loc := time.Local
	if *tzName != "" {
		l, err := time.LoadLocation(*tzName)
		if err != nil {
			log.WithError(err).Fatalf("invalid timezone %q", *tzName)
		}
		loc = l
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	lifecycle := shift.NewPunchLifecycle(store.PunchSlot(), store, shift.SystemClock{}, loc)
	handler := api.NewHandler(lifecycle, store, store.PunchSlot(), store, store, store, loc, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port": *port,
			"db":   *dbPath,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
