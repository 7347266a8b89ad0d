// Package main starts the artbid mock marketplace API: an in-memory stub of
// the real backend used for development and tests, wired from configuration,
// logging, stores, handlers, and the router.
package main

import (
	"cmp"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/rvnspnz/artbid/internal/config"
	"github.com/rvnspnz/artbid/internal/logger"
	"github.com/rvnspnz/artbid/internal/mockapi"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Seed the in-memory stores.
	users := mockapi.NewUserStore()
	items := mockapi.NewItemStore()

	// Session tokens for the cookie the endpoints set and verify.
	tokens := mockapi.NewTokenManager(options.JWTSecret,
		time.Duration(options.SessionTTLMinutes)*time.Minute)

	// Create HTTP handlers for the user and item endpoints.
	userHandler := &mockapi.UserHandler{Users: users, Tokens: tokens}
	itemHandler := &mockapi.ItemHandler{Items: items}

	// Build the router with middleware and routes.
	router := mockapi.NewRouter(userHandler, itemHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting mock API server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
