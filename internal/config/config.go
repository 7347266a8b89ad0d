// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the mock API server's listening address (ip:port).
	Port string

	// ServerURL is the base URL of the marketplace API the client talks to.
	ServerURL string

	// StorageFile is the path of the local slot holding the persisted session.
	StorageFile string

	// JWTSecret signs the mock API's session cookies.
	JWTSecret string

	// SessionTTLMinutes bounds the lifetime of a mock API session cookie.
	SessionTTLMinutes int

	// LogLevel sets the zap log level ("Debug", "Info", "Warn", "Error").
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.ServerURL, "url", "http://localhost:8080", "marketplace API base URL")
	flag.StringVar(&options.StorageFile, "s", "session.json", "path to the persisted session file")
	flag.StringVar(&options.JWTSecret, "secret", "dev-secret", "mock API session signing secret")
	flag.IntVar(&options.SessionTTLMinutes, "ttl", 60, "mock API session lifetime in minutes")
	flag.StringVar(&options.LogLevel, "l", "Info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional config file, and
// environment variables to set configuration values. Precedence is
// flags < config file < environment. It returns a pointer to the Options
// struct containing the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// A missing .env file is fine; explicit env vars still apply.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if serverURL := os.Getenv("SERVER_URL"); serverURL != "" {
		options.ServerURL = serverURL
	}
	if storageFile := os.Getenv("STORAGE_FILE"); storageFile != "" {
		options.StorageFile = storageFile
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	return options
}
