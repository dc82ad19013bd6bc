// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

// Config holds all configuration values for the API server and the CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, receives a rotated copy of every log line.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// PrimaryURL is the base URL of the live places API. Empty disables it.
	PrimaryURL string

	// SnapshotURL is the full URL of the static places.json fallback.
	// Empty disables it.
	SnapshotURL string

	// ImageBaseURL resolves relative image paths from the primary API.
	// Defaults to PrimaryURL.
	ImageBaseURL string

	// PublicURL prefixes share links. Defaults to http://localhost:<Port>.
	PublicURL string

	// StoreDriver selects the trip store backend. Defaults to "file".
	StoreDriver string

	// StorePath is the file (file driver) or directory (badger driver) used
	// for trip storage. Defaults to "data/trips.json" or "data/badger".
	StorePath string

	// DatabaseURL is the Postgres connection string. Required when
	// StoreDriver is "postgres".
	DatabaseURL string

	// ProbeTimeout bounds the primary API health probe. Defaults to 2s.
	ProbeTimeout time.Duration

	// PrimaryTimeout bounds each primary API request. Defaults to 5s.
	PrimaryTimeout time.Duration

	// SnapshotTimeout bounds the snapshot download. Defaults to 3s.
	SnapshotTimeout time.Duration

	// MaxImportBytes caps POST /import bodies. Defaults to 5 MiB.
	MaxImportBytes int64
}

// LoadEnvFiles loads .env and .env.local from the working directory when
// present. Variables already set in the environment win.
func LoadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		// Missing files are fine.
		_ = godotenv.Load(f)
	}
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set or are
// malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PrimaryURL:  strings.TrimRight(os.Getenv("PRIMARY_URL"), "/"),
		SnapshotURL: os.Getenv("SNAPSHOT_URL"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreFile)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	cfg.ImageBaseURL = strings.TrimRight(getEnv("IMAGE_BASE_URL", cfg.PrimaryURL), "/")
	cfg.PublicURL = strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+cfg.Port), "/")

	var problems []string

	switch cfg.StoreDriver {
	case StoreMemory, StorePostgres:
	case StoreFile:
		cfg.StorePath = getEnv("STORE_PATH", "data/trips.json")
	case StoreBadger:
		cfg.StorePath = getEnv("STORE_PATH", "data/badger")
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER %q (want one of %s)", cfg.StoreDriver,
			strings.Join([]string{StoreMemory, StoreFile, StorePostgres, StoreBadger}, ", ")))
	}
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL (required for STORE_DRIVER=postgres)")
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"PROBE_TIMEOUT", 2 * time.Second, &cfg.ProbeTimeout},
		{"PRIMARY_TIMEOUT", 5 * time.Second, &cfg.PrimaryTimeout},
		{"SNAPSHOT_TIMEOUT", 3 * time.Second, &cfg.SnapshotTimeout},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.fallback)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		*d.dst = v
	}

	maxImport, err := getInt64("MAX_IMPORT_BYTES", 5<<20)
	if err != nil {
		problems = append(problems, err.Error())
	}
	cfg.MaxImportBytes = maxImport

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// ValidStoreDriver reports whether name is a known store driver.
func ValidStoreDriver(name string) bool {
	return slices.Contains([]string{StoreMemory, StoreFile, StorePostgres, StoreBadger}, name)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s %q (want a positive duration such as 2s)", key, v)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s %q (want a positive integer)", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
