// Package config provides XML-based configuration management for air-gapped deployment.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/volttools/urdfconv/internal/output"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"URDFConverter"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Conversion configuration
	Conversion ConversionConfig `xml:"Conversion"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains file storage settings.
// Relative upload and output directories live under DataDirectory.
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	UploadsDirectory string `xml:"UploadsDirectory"`
	OutputDirectory  string `xml:"OutputDirectory"`
}

// ConversionConfig contains conversion and encoding settings
type ConversionConfig struct {
	DefaultFormat   string `xml:"DefaultFormat"`
	Indent          int    `xml:"Indent"`
	CacheSize       int    `xml:"CacheSize"`
	WatchDirectory  string `xml:"WatchDirectory"` // empty disables watching
	WatchDebounceMs int    `xml:"WatchDebounceMs"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	ShowErrorDetails     bool   `xml:"ShowErrorDetails"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "16M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "uploads",
			OutputDirectory:  "output",
		},
		Conversion: ConversionConfig{
			DefaultFormat:   string(output.FormatJSON),
			Indent:          output.DefaultIndent,
			CacheSize:       128,
			WatchDebounceMs: 200,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
			ShowErrorDetails:     true,
		},
	}
}

// LoadConfig loads configuration from XML file.
// A .env file next to the config is loaded first; it never replaces variables
// that are already set.
func LoadConfig(configPath string) (*AppConfig, error) {
	configDir := filepath.Dir(configPath)
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := DefaultConfig()

	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Resolve relative paths
	config.resolvePaths(configDir)

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	out, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- URDF Converter Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, out...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := output.ParseFormat(c.Conversion.DefaultFormat); err != nil {
		return fmt.Errorf("invalid default format: %w", err)
	}
	if c.Conversion.CacheSize < 0 {
		return fmt.Errorf("invalid cache size: %d", c.Conversion.CacheSize)
	}
	if _, err := ParseLogLevel(c.Advanced.LogLevel); err != nil {
		return err
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	// DATA_DIR override
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if format := os.Getenv("URDFCONV_FORMAT"); format != "" {
		c.Conversion.DefaultFormat = format
	}

	if level := os.Getenv("URDFCONV_LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(c.Storage.DataDirectory, c.Storage.UploadsDirectory)
	}
	if !filepath.IsAbs(c.Storage.OutputDirectory) {
		c.Storage.OutputDirectory = filepath.Join(c.Storage.DataDirectory, c.Storage.OutputDirectory)
	}
	if c.Conversion.WatchDirectory != "" && !filepath.IsAbs(c.Conversion.WatchDirectory) {
		c.Conversion.WatchDirectory = filepath.Join(configDir, c.Conversion.WatchDirectory)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetFormat returns the configured default output format
func (c *AppConfig) GetFormat() output.Format {
	f, err := output.ParseFormat(c.Conversion.DefaultFormat)
	if err != nil {
		return output.FormatJSON
	}
	return f
}

// GetEncodeOptions returns the encoder settings
func (c *AppConfig) GetEncodeOptions() output.Options {
	return output.Options{Indent: c.Conversion.Indent}
}

// GetWatchDebounce returns the watcher debounce delay
func (c *AppConfig) GetWatchDebounce() time.Duration {
	return time.Duration(c.Conversion.WatchDebounceMs) * time.Millisecond
}

// GetLogLevel returns the configured slog level
func (c *AppConfig) GetLogLevel() slog.Level {
	level, _ := ParseLogLevel(c.Advanced.LogLevel)
	return level
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.OutputDirectory,
	}
	if c.Conversion.WatchDirectory != "" {
		dirs = append(dirs, c.Conversion.WatchDirectory)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ParseLogLevel maps a level name to a slog level. Empty means info.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", name)
}
