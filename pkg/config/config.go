// Package config resolves SegAudit runtime configuration from defaults, an
// optional YAML file, an optional .env file and SEGAUDIT_* environment
// variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Well-known file names looked up in the working directory.
const (
	DefaultFile = "segaudit.yaml"
	DotEnvFile  = ".env"
)

// Store backends.
const (
	StoreFS  = "fs"
	StoreS3  = "s3"
	StoreGCS = "gcs"
)

// Catalog drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Trace exporters.
const (
	TraceNone    = "none"
	TraceConsole = "console"
	TraceOTLP    = "otlp"
)

// Config holds CLI and publisher configuration.
type Config struct {
	LogLevel    string        `yaml:"log_level"`
	DataDir     string        `yaml:"data_dir"`
	Parallelism int           `yaml:"parallelism"`
	Store       StoreConfig   `yaml:"store"`
	Catalog     CatalogConfig `yaml:"catalog"`
	Trace       TraceConfig   `yaml:"trace"`
}

// StoreConfig selects the artifact blob store.
type StoreConfig struct {
	Type string    `yaml:"type"` // fs | s3 | gcs
	Dir  string    `yaml:"dir,omitempty"`
	S3   S3Config  `yaml:"s3"`
	GCS  GCSConfig `yaml:"gcs"`
}

// S3Config configures the S3 store.
type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint,omitempty"` // MinIO, LocalStack
	Prefix   string `yaml:"prefix,omitempty"`
}

// GCSConfig configures the GCS store.
type GCSConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix,omitempty"`
}

// CatalogConfig selects the publication catalog database.
type CatalogConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn,omitempty"`
}

// TraceConfig selects where publisher spans go. The console exporter writes
// to stderr so command output on stdout stays clean.
type TraceConfig struct {
	Exporter   string  `yaml:"exporter"` // none | console | otlp
	Endpoint   string  `yaml:"endpoint,omitempty"`
	Insecure   bool    `yaml:"insecure,omitempty"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Enabled reports whether spans are exported at all.
func (t TraceConfig) Enabled() bool {
	return t.Exporter != "" && t.Exporter != TraceNone
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		DataDir:     ".segaudit",
		Parallelism: 4,
		Store:       StoreConfig{Type: StoreFS, S3: S3Config{Region: "us-east-1"}},
		Catalog:     CatalogConfig{Driver: DriverSQLite},
		Trace:       TraceConfig{Exporter: TraceNone, Endpoint: "localhost:4317", SampleRate: 1.0},
	}
}

// Load resolves configuration. path names a YAML file; when empty,
// DefaultFile is used if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.MergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile overlays the YAML document at path onto c.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv exports the variables in a .env file. A missing file is not an
// error and variables already set in the process win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays SEGAUDIT_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("SEGAUDIT_LOG_LEVEL", &c.LogLevel)
	str("SEGAUDIT_DATA_DIR", &c.DataDir)
	str("SEGAUDIT_STORE_TYPE", &c.Store.Type)
	str("SEGAUDIT_STORE_DIR", &c.Store.Dir)
	str("SEGAUDIT_S3_BUCKET", &c.Store.S3.Bucket)
	str("AWS_REGION", &c.Store.S3.Region)
	str("SEGAUDIT_S3_REGION", &c.Store.S3.Region)
	str("SEGAUDIT_S3_ENDPOINT", &c.Store.S3.Endpoint)
	str("SEGAUDIT_S3_PREFIX", &c.Store.S3.Prefix)
	str("SEGAUDIT_GCS_BUCKET", &c.Store.GCS.Bucket)
	str("SEGAUDIT_GCS_PREFIX", &c.Store.GCS.Prefix)
	str("SEGAUDIT_CATALOG_DRIVER", &c.Catalog.Driver)
	str("SEGAUDIT_CATALOG_DSN", &c.Catalog.DSN)
	str("SEGAUDIT_TRACE", &c.Trace.Exporter)
	str("SEGAUDIT_OTLP_ENDPOINT", &c.Trace.Endpoint)

	if v, ok := lookup("SEGAUDIT_PARALLELISM"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SEGAUDIT_PARALLELISM must be an integer: %w", err)
		}
		c.Parallelism = n
	}
	if v, ok := lookup("SEGAUDIT_OTLP_INSECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SEGAUDIT_OTLP_INSECURE must be a boolean: %w", err)
		}
		c.Trace.Insecure = b
	}
	if v, ok := lookup("SEGAUDIT_TRACE_SAMPLE_RATE"); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: SEGAUDIT_TRACE_SAMPLE_RATE must be a number: %w", err)
		}
		c.Trace.SampleRate = r
	}
	return nil
}

// Validate rejects unknown backends and settings a backend cannot run with.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("config: parallelism must be at least 1, got %d", c.Parallelism)
	}
	switch c.Store.Type {
	case StoreFS:
	case StoreS3:
		if c.Store.S3.Bucket == "" {
			return errors.New("config: SEGAUDIT_S3_BUCKET is required for S3 storage")
		}
	case StoreGCS:
		if c.Store.GCS.Bucket == "" {
			return errors.New("config: SEGAUDIT_GCS_BUCKET is required for GCS storage")
		}
	default:
		return fmt.Errorf("config: unsupported store type %q", c.Store.Type)
	}
	switch c.Catalog.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Catalog.DSN == "" {
			return errors.New("config: SEGAUDIT_CATALOG_DSN is required for postgres")
		}
	default:
		return fmt.Errorf("config: unsupported catalog driver %q", c.Catalog.Driver)
	}
	switch c.Trace.Exporter {
	case "", TraceNone, TraceConsole:
	case TraceOTLP:
		if c.Trace.Endpoint == "" {
			return errors.New("config: SEGAUDIT_OTLP_ENDPOINT is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("config: unsupported trace exporter %q", c.Trace.Exporter)
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		return fmt.Errorf("config: trace sample rate must be within [0, 1], got %g", c.Trace.SampleRate)
	}
	return nil
}

// ArtifactDir is the filesystem store root.
func (c *Config) ArtifactDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return filepath.Join(c.DataDir, "artifacts")
}

// CatalogDSN is the catalog connection string. The sqlite default lives
// under DataDir.
func (c *Config) CatalogDSN() string {
	if c.Catalog.DSN != "" {
		return c.Catalog.DSN
	}
	return filepath.Join(c.DataDir, "catalog.db")
}

// SlogLevel maps LogLevel onto slog. Unknown levels fall back to info.
func (c *Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
	return l, nil
}
