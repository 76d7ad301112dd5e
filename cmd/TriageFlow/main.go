package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/LumenHealth/TriageFlow/internal/api"
	"github.com/LumenHealth/TriageFlow/internal/store"
	"github.com/LumenHealth/TriageFlow/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for TriageFlow state data
	DefaultStateDir = "/var/lib/triageflow"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "triageflow.db"
	// DefaultAPIAddr is the default API listen address
	DefaultAPIAddr = ":8080"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	driver, storeOpts := buildStoreOptions(flags)
	apiOpts := buildAPIOptions(flags)

	slog.Info("Bootstrapping TriageFlow", "store_driver", driver, "api_addr", *flags.apiAddr)
	if err := api.Run(driver, storeOpts, apiOpts); err != nil {
		slog.Error("TriageFlow failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("TriageFlow exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	APIAddr     string
	Debug       bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir *string
	dbDSN    *string
	apiAddr  *string
	memory   *bool
}

// initializeLogger sets up structured logging
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("TRIAGEFLOW_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("TRIAGEFLOW_STATE_DIR"),
		APIAddr:     os.Getenv("API_ADDR"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No TRIAGEFLOW_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}
	if config.APIAddr == "" {
		config.APIAddr = DefaultAPIAddr
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"TRIAGEFLOW_STATE_DIR", config.StateDir,
		"API_ADDR", config.APIAddr)
	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir: flag.String("state-dir", config.StateDir, "state directory for TriageFlow data (overrides $TRIAGEFLOW_STATE_DIR)"),
		dbDSN:    flag.String("db-dsn", config.DatabaseURL, "database DSN for the session store (overrides $DATABASE_URL)"),
		apiAddr:  flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		memory:   flag.Bool("memory-store", false, "use the in-memory session store (no persistence)"),
	}
	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"apiAddr", *flags.apiAddr,
		"memory", *flags.memory)

	// Follow a moved state directory when the DSN was only defaulted from it.
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}
	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if *flags.memory || store.DetectDSNType(*flags.dbDSN) == "postgres" {
		return nil
	}
	stateDir := filepath.Dir(*flags.dbDSN)
	slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
		return err
	}
	return nil
}

// buildStoreOptions selects the store driver and its configuration options
func buildStoreOptions(flags Flags) (string, []store.Option) {
	if *flags.memory {
		slog.Debug("Using in-memory session store")
		return "memory", nil
	}
	driver := store.DetectDSNType(*flags.dbDSN)
	slog.Debug("Detected store driver from DSN", "driver", driver, "dsn_set", *flags.dbDSN != "")
	return driver, []store.Option{store.WithDSN(*flags.dbDSN)}
}

// buildAPIOptions constructs API server configuration options
func buildAPIOptions(flags Flags) []api.Option {
	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	return apiOpts
}
