package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"biodash/internal/errors"
)

// Data source drivers selectable with DATA_SOURCE
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourceS3       = "s3"
	SourceExcel    = "excel"
	SourcePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	S3        S3Config
	Render    RenderConfig
	Export    ExportConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// RenderConfig holds chart renderer settings
type RenderConfig struct {
	AssetsHost  string // where echarts.min.js is served from; empty uses the go-echarts CDN
	PNGWidth    int
	PNGHeight   int
	// Concurrency bounds simultaneous chart renders in the web server
	Concurrency int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	GinMode      string
	DefaultIndex int
}

// DataConfig holds dataset source settings
type DataConfig struct {
	Source      string
	File        string
	URL         string
	URLDataPath string // gjson path of the document inside the DATA_URL response
	ExcelFile   string
	LoadTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// S3Config holds object storage settings for the s3 source and export target
type S3Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	PathStyle bool
}

// ExportConfig holds static export settings
type ExportConfig struct {
	Dir     string
	Workers int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Database:  DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		S3:        *loadS3Config(),
		Render:    *loadRenderConfig(),
		Export:    *loadExportConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		GinMode:      getEnvOrDefault("GIN_MODE", "release"),
		DefaultIndex: getEnvIntOrDefault("DEFAULT_INDEX", 0),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Source:      strings.ToLower(getEnvOrDefault("DATA_SOURCE", SourceFile)),
		File:        getEnvOrDefault("DATA_FILE", "static/data/samples.json"),
		URL:         getEnvOrDefault("DATA_URL", ""),
		URLDataPath: getEnvOrDefault("DATA_URL_PATH", ""),
		ExcelFile:   getEnvOrDefault("EXCEL_FILE", ""),
		LoadTimeout: getEnvDurationOrDefault("LOAD_TIMEOUT", 30*time.Second),
	}
}

func loadS3Config() *S3Config {
	return &S3Config{
		Bucket:    getEnvOrDefault("DATA_S3_BUCKET", ""),
		Key:       getEnvOrDefault("DATA_S3_KEY", "samples.json"),
		Region:    getEnvOrDefault("DATA_S3_REGION", "us-east-1"),
		Endpoint:  getEnvOrDefault("DATA_S3_ENDPOINT", ""),
		PathStyle: getEnvBoolOrDefault("DATA_S3_PATH_STYLE", false),
	}
}

func loadRenderConfig() *RenderConfig {
	return &RenderConfig{
		AssetsHost:  getEnvOrDefault("ECHARTS_ASSETS_HOST", ""),
		PNGWidth:    getEnvIntOrDefault("PNG_WIDTH", 900),
		PNGHeight:   getEnvIntOrDefault("PNG_HEIGHT", 500),
		Concurrency: getEnvIntOrDefault("RENDER_CONCURRENCY", 4),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		Dir:     getEnvOrDefault("EXPORT_DIR", "export"),
		Workers: getEnvIntOrDefault("EXPORT_WORKERS", 4),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	switch config.Data.Source {
	case SourceFile:
		if config.Data.File == "" {
			return errors.ConfigInvalid("DATA_FILE is required for the file source")
		}
	case SourceHTTP:
		if config.Data.URL == "" {
			return errors.ConfigInvalid("DATA_URL is required for the http source")
		}
	case SourceS3:
		if config.S3.Bucket == "" {
			return errors.ConfigInvalid("DATA_S3_BUCKET is required for the s3 source")
		}
	case SourceExcel:
		if config.Data.ExcelFile == "" {
			return errors.ConfigInvalid("EXCEL_FILE is required for the excel source")
		}
	case SourcePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres source")
		}
	default:
		return errors.ConfigInvalid("unknown DATA_SOURCE " + config.Data.Source)
	}
	if config.Server.DefaultIndex < 0 {
		return errors.ConfigInvalid("DEFAULT_INDEX must not be negative")
	}
	if config.Data.LoadTimeout <= 0 {
		return errors.ConfigInvalid("LOAD_TIMEOUT must be positive")
	}
	if config.Render.PNGWidth <= 0 || config.Render.PNGHeight <= 0 {
		return errors.ConfigInvalid("PNG_WIDTH and PNG_HEIGHT must be positive")
	}
	if config.Render.Concurrency < 1 {
		return errors.ConfigInvalid("RENDER_CONCURRENCY must be at least 1")
	}
	if config.Export.Workers < 1 {
		return errors.ConfigInvalid("EXPORT_WORKERS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
