package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"postboard/internal/app"
	"postboard/internal/config"
)

// Global loggers for different output streams
var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	infoLogger.Printf("Starting postboard - Process ID: %d", os.Getpid())
	infoLogger.Printf("Runtime: %s/%s, Go version: %s", runtime.GOOS, runtime.GOARCH, runtime.Version())

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		errorLogger.Printf("Failed to load configuration: %v", err)
		os.Exit(2)
	}

	application, err := app.New(cfg)
	if err != nil {
		errorLogger.Printf("Failed to initialize: %v", err)
		os.Exit(1)
	}

	// Fetch both collections up front; pages fall back to loading on demand
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	if err := application.Warm(warmCtx); err != nil {
		errorLogger.Printf("Snapshot warm-up failed, pages will load on demand: %v", err)
	}
	cancelWarm()

	// Create a done channel to coordinate graceful shutdown
	done := make(chan struct{})
	go application.RunJanitor(done)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	if code := waitForShutdown(server, application, done, serverErr); code != 0 {
		os.Exit(code)
	}
}

func waitForShutdown(server *http.Server, application *app.App, done chan struct{}, serverErr <-chan error) int {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-stop:
		infoLogger.Printf("Received shutdown signal: %v", sig)
	case err, ok := <-serverErr:
		if ok {
			errorLogger.Printf("Server ListenAndServe error: %v", err)
			exitCode = 1
		}
	}

	// Signal background services to stop
	close(done)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	infoLogger.Println("Shutting down the server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		errorLogger.Printf("Server Shutdown error: %v", err)
		exitCode = 1
	}
	application.Close()

	infoLogger.Println("Server gracefully stopped")
	return exitCode
}
